package storage

import (
	"context"
	"strings"
	"time"

	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/roulette"
)

// SessionEvent is the payload published on SessionChannel.
type SessionEvent struct {
	Type    string           `json:"type"` // "started", "ended"
	Session roulette.Session `json:"session"`
}

const (
	SessionStarted = "started"
	SessionEnded   = "ended"
)

// SessionRecorder persists committed session transitions and fans them out
// on Redis Pub/Sub. It implements roulette.Recorder.
type SessionRecorder struct {
	store Storage
}

func NewSessionRecorder(store Storage) *SessionRecorder {
	return &SessionRecorder{store: store}
}

func (r *SessionRecorder) RecordStarted(ctx context.Context, s roulette.Session) error {
	if err := r.store.SaveSession(ctx, ToSessionModel(s)); err != nil {
		return err
	}
	return r.store.PublishSessionEvent(ctx, SessionEvent{Type: SessionStarted, Session: s})
}

func (r *SessionRecorder) RecordEnded(ctx context.Context, s roulette.Session) error {
	endedAt := time.Now()
	if s.EndedAt != nil {
		endedAt = *s.EndedAt
	}
	if err := r.store.CloseSession(ctx, s.ID, endedAt, string(s.EndedReason)); err != nil {
		return err
	}
	return r.store.PublishSessionEvent(ctx, SessionEvent{Type: SessionEnded, Session: s})
}

// ToSessionModel maps a pairing session onto its audit row.
func ToSessionModel(s roulette.Session) *models.RouletteSession {
	return &models.RouletteSession{
		SessionID:       s.ID,
		User1ID:         s.A.UserID,
		Conn1ID:         s.A.ConnectionID,
		User2ID:         s.B.UserID,
		Conn2ID:         s.B.ConnectionID,
		SharedInterests: strings.Join(s.SharedInterests, ","),
		IsActive:        s.Active(),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		EndedReason:     string(s.EndedReason),
	}
}
