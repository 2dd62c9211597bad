package roulette

import (
	"fmt"
	"time"
)

// Registry tracks live sessions by id, user and connection. Ended sessions
// are dropped from it. Like Pool, it relies on the Coordinator for locking.
type Registry struct {
	seq      uint64
	sessions map[string]*Session
	byUser   map[string]string
	byConn   map[string]string
	now      func() time.Time
}

// NewRegistry creates an empty registry using now as its clock.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]string),
		byConn:   make(map[string]string),
		now:      now,
	}
}

// Create starts a session between a and b.
func (r *Registry) Create(a, b WaitingEntry) (Session, error) {
	if _, ok := r.byUser[a.UserID]; ok {
		return Session{}, fmt.Errorf("%w: %s", ErrAlreadyInSession, a.UserID)
	}
	if _, ok := r.byUser[b.UserID]; ok {
		return Session{}, fmt.Errorf("%w: %s", ErrAlreadyInSession, b.UserID)
	}

	r.seq++
	s := &Session{
		ID:              fmt.Sprintf("%s-%s-%d", a.ConnectionID, b.ConnectionID, r.seq),
		A:               Participant{ConnectionID: a.ConnectionID, UserID: a.UserID},
		B:               Participant{ConnectionID: b.ConnectionID, UserID: b.UserID},
		SharedInterests: SharedInterests(a, b),
		StartedAt:       r.now(),
	}
	r.sessions[s.ID] = s
	r.byUser[a.UserID], r.byUser[b.UserID] = s.ID, s.ID
	r.byConn[a.ConnectionID], r.byConn[b.ConnectionID] = s.ID, s.ID
	return *s, nil
}

// Get returns the live session with the given id.
func (r *Registry) Get(sessionID string) (Session, bool) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// GetByUser returns the live session userID takes part in.
func (r *Registry) GetByUser(userID string) (Session, bool) {
	return r.Get(r.byUser[userID])
}

// GetByConnection returns the live session connectionID takes part in.
func (r *Registry) GetByConnection(connectionID string) (Session, bool) {
	return r.Get(r.byConn[connectionID])
}

// End closes the session and returns its final state.
func (r *Registry) End(sessionID string, reason EndReason) (Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	ended := r.now()
	s.EndedAt = &ended
	s.EndedReason = reason

	delete(r.sessions, sessionID)
	for _, p := range []Participant{s.A, s.B} {
		if r.byUser[p.UserID] == sessionID {
			delete(r.byUser, p.UserID)
		}
		if r.byConn[p.ConnectionID] == sessionID {
			delete(r.byConn, p.ConnectionID)
		}
	}
	return *s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return len(r.sessions) }
