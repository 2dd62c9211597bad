package roulette

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"datingroulette/backend/internal/metrics"

	"go.uber.org/zap"
)

const defaultAuditBuffer = 256

// Coordinator is the only mutator of the waiting pool and the session
// registry. Every operation that reads and then changes either of them runs
// under one mutex, so a waiting entry can be claimed by at most one match and
// a session can be ended at most once.
type Coordinator struct {
	mu       sync.Mutex
	pool     *Pool
	sessions *Registry

	// pending counts joins whose attribute lookup is still running, per
	// connection, and remembers whether the connection went away meanwhile.
	pending map[string]*pendingJoin

	users     UserAttributes
	notifier  Notifier
	recorders []Recorder
	audit     chan auditRecord
	auditSize int

	log *zap.Logger
	now func() time.Time
}

type pendingJoin struct {
	inflight     int
	disconnected bool
}

type auditRecord struct {
	ended   bool
	session Session
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRecorder adds a recorder for committed session transitions.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorders = append(c.recorders, r) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithAuditBuffer sets how many session records may wait for the recorders.
func WithAuditBuffer(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.auditSize = n
		}
	}
}

// NewCoordinator wires a Coordinator around fresh pool and registry instances.
func NewCoordinator(users UserAttributes, notifier Notifier, log *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		users:     users,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		auditSize: defaultAuditBuffer,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.pool = NewPool()
	c.pending = make(map[string]*pendingJoin)
	c.sessions = NewRegistry(c.now)
	c.audit = make(chan auditRecord, c.auditSize)
	return c
}

// Join queues connectionID for a partner and immediately tries to match it.
// A connection that is already paired leaves its session first. If the
// attribute lookup fails the connection keeps its current state.
func (c *Coordinator) Join(ctx context.Context, connectionID, userID string) error {
	return c.join(ctx, connectionID, userID, false)
}

// Skip ends the current session of connectionID, if any, and joins again.
// If the lookup fails the session is still left and the connection ends up idle.
func (c *Coordinator) Skip(ctx context.Context, connectionID, userID string) error {
	return c.join(ctx, connectionID, userID, true)
}

func (c *Coordinator) join(ctx context.Context, connectionID, userID string, skip bool) error {
	c.beginJoin(connectionID)

	// The lookup is the only external call and must stay outside the lock.
	attrs, err := c.users.Fetch(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.updateGaugesLocked()

	gone := c.finishJoinLocked(connectionID)
	if err != nil {
		c.log.Info("join rejected",
			zap.String("connection_id", connectionID),
			zap.String("user_id", userID),
			zap.Error(err))
		if skip && !gone {
			c.leaveLocked(connectionID, ReasonLeft)
		}
		return fmt.Errorf("roulette: join %s: %w", userID, err)
	}
	if gone {
		c.log.Debug("connection disconnected during lookup, join dropped",
			zap.String("connection_id", connectionID),
			zap.String("user_id", userID))
		return fmt.Errorf("roulette: join %s: %w", userID, ErrConnectionClosed)
	}

	if _, ok := c.pool.Get(connectionID); ok {
		c.log.Debug("connection already waiting", zap.String("connection_id", connectionID))
		return nil
	}

	if s, ok := c.sessions.GetByConnection(connectionID); ok {
		c.endLocked(s, connectionID, ReasonLeft)
	}
	// A user is never waiting and paired at the same time, even across connections.
	if s, ok := c.sessions.GetByUser(userID); ok {
		c.endLocked(s, participantOf(s, userID).ConnectionID, ReasonLeft)
	}
	for _, stale := range c.pool.RemoveUser(userID) {
		c.log.Info("replaced waiting entry of another connection",
			zap.String("user_id", userID),
			zap.String("connection_id", stale.ConnectionID))
		c.deliver(stale.ConnectionID, Event{Type: EventLeft, Reason: ReasonReplaced})
	}

	entry := WaitingEntry{
		ConnectionID: connectionID,
		UserID:       userID,
		Gender:       attrs.Gender,
		WantedGender: attrs.WantedGender,
		Interests:    attrs.Interests,
		JoinedAt:     c.now(),
	}
	if err := c.pool.Add(entry); err != nil {
		return fmt.Errorf("roulette: join %s: %w", userID, err)
	}
	c.log.Debug("connection waiting",
		zap.String("connection_id", connectionID),
		zap.String("user_id", userID),
		zap.String("gender", string(entry.Gender)),
		zap.String("wanted_gender", string(entry.WantedGender)))

	c.matchLocked(entry)
	return nil
}

// matchLocked pairs entry with the earliest compatible waiting entry.
func (c *Coordinator) matchLocked(entry WaitingEntry) {
	partner, ok := c.pool.FindCompatible(entry)
	if !ok {
		return
	}
	c.pool.Remove(partner.ConnectionID)
	c.pool.Remove(entry.ConnectionID)

	s, err := c.sessions.Create(partner, entry)
	if errors.Is(err, ErrAlreadyInSession) {
		c.log.Error("invariant violated: matched user already in a session",
			zap.String("user_a", partner.UserID),
			zap.String("user_b", entry.UserID),
			zap.Error(err))
		for _, userID := range []string{partner.UserID, entry.UserID} {
			if stale, ok := c.sessions.GetByUser(userID); ok {
				c.endLocked(stale, participantOf(stale, userID).ConnectionID, ReasonLeft)
			}
		}
		s, err = c.sessions.Create(partner, entry)
	}
	if err != nil {
		c.log.Error("session not created, entries requeued",
			zap.String("connection_a", partner.ConnectionID),
			zap.String("connection_b", entry.ConnectionID),
			zap.Error(err))
		// Requeue by JoinedAt so the earlier waiter keeps its turn.
		_ = c.pool.Requeue(partner)
		_ = c.pool.Requeue(entry)
		return
	}

	metrics.MatchesTotal.Inc()
	metrics.WaitDuration.Observe(s.StartedAt.Sub(partner.JoinedAt).Seconds())
	c.log.Info("match committed",
		zap.String("session_id", s.ID),
		zap.String("user_a", s.A.UserID),
		zap.String("user_b", s.B.UserID))

	c.deliver(s.A.ConnectionID, Event{
		Type:            EventMatched,
		SessionID:       s.ID,
		PartnerID:       s.B.UserID,
		SharedInterests: s.SharedInterests,
	})
	c.deliver(s.B.ConnectionID, Event{
		Type:            EventMatched,
		SessionID:       s.ID,
		PartnerID:       s.A.UserID,
		SharedInterests: s.SharedInterests,
	})
	c.enqueueAudit(auditRecord{session: s})
}

// Leave takes connectionID out of the pool or out of its session.
func (c *Coordinator) Leave(connectionID string) {
	c.leave(connectionID, ReasonLeft)
}

// Disconnect is Leave for a connection whose transport has gone away.
func (c *Coordinator) Disconnect(connectionID string) {
	c.leave(connectionID, ReasonDisconnected)
}

func (c *Coordinator) leave(connectionID string, reason EndReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.updateGaugesLocked()

	if p, ok := c.pending[connectionID]; ok && reason == ReasonDisconnected {
		p.disconnected = true
	}
	c.leaveLocked(connectionID, reason)
}

func (c *Coordinator) leaveLocked(connectionID string, reason EndReason) {
	if s, ok := c.sessions.GetByConnection(connectionID); ok {
		c.endLocked(s, connectionID, reason)
		return
	}
	if _, ok := c.pool.Remove(connectionID); ok {
		c.log.Debug("connection left the pool",
			zap.String("connection_id", connectionID),
			zap.String("reason", string(reason)))
	}
}

// beginJoin marks a lookup for connectionID as in flight, so a Disconnect
// arriving before it completes can cancel the join.
func (c *Coordinator) beginJoin(connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[connectionID]
	if !ok {
		p = &pendingJoin{}
		c.pending[connectionID] = p
	}
	p.inflight++
}

// finishJoinLocked ends an in-flight lookup and reports whether the
// connection disconnected while it ran.
func (c *Coordinator) finishJoinLocked(connectionID string) bool {
	p, ok := c.pending[connectionID]
	if !ok {
		return false
	}
	p.inflight--
	if p.inflight <= 0 {
		delete(c.pending, connectionID)
	}
	return p.disconnected
}

// endLocked ends s on behalf of the participant at leaverConn and tells the
// other participant. A session that is already gone is ignored.
func (c *Coordinator) endLocked(s Session, leaverConn string, reason EndReason) {
	ended, err := c.sessions.End(s.ID, reason)
	if err != nil {
		c.log.Debug("session already ended", zap.String("session_id", s.ID))
		return
	}
	metrics.SessionsEndedTotal.WithLabelValues(string(reason)).Inc()
	c.log.Info("session ended",
		zap.String("session_id", ended.ID),
		zap.String("by_connection", leaverConn),
		zap.String("reason", string(reason)))

	if other, ok := ended.Partner(leaverConn); ok {
		leaver, _ := ended.Partner(other.ConnectionID)
		c.deliver(other.ConnectionID, Event{
			Type:      EventEnded,
			SessionID: ended.ID,
			PartnerID: leaver.UserID,
			Reason:    reason,
		})
	}
	c.enqueueAudit(auditRecord{ended: true, session: ended})
}

// Relay forwards content from connectionID to its partner.
func (c *Coordinator) Relay(connectionID, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions.GetByConnection(connectionID)
	if !ok {
		return ErrNotInSession
	}
	other, _ := s.Partner(connectionID)
	sender, _ := s.Partner(other.ConnectionID)
	c.deliver(other.ConnectionID, Event{
		Type:      EventMessage,
		SessionID: s.ID,
		PartnerID: sender.UserID,
		Content:   content,
	})
	return nil
}

// PartnerOf returns the live session of connectionID and the participant on
// the other side.
func (c *Coordinator) PartnerOf(connectionID string) (Session, Participant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions.GetByConnection(connectionID)
	if !ok {
		return Session{}, Participant{}, false
	}
	other, _ := s.Partner(connectionID)
	return s, other, true
}

// State returns where connectionID currently is in the state machine.
func (c *Coordinator) State(connectionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions.GetByConnection(connectionID); ok {
		return StatePaired
	}
	if _, ok := c.pool.Get(connectionID); ok {
		return StateWaiting
	}
	return StateIdle
}

// PoolStatus is a point-in-time view of the coordinator.
type PoolStatus struct {
	Waiting        []WaitingEntry `json:"waiting"`
	ActiveSessions int            `json:"active_sessions"`
}

// Snapshot returns the waiting entries in join order and the live session count.
func (c *Coordinator) Snapshot() PoolStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PoolStatus{
		Waiting:        c.pool.Entries(),
		ActiveSessions: c.sessions.Len(),
	}
}

// Run hands committed session transitions to the recorders in commit order
// until ctx is cancelled, then flushes what is already buffered.
func (c *Coordinator) Run(ctx context.Context) {
	c.log.Info("roulette coordinator started")
	for {
		select {
		case rec := <-c.audit:
			c.record(ctx, rec)
		case <-ctx.Done():
			flushCtx := context.WithoutCancel(ctx)
			for {
				select {
				case rec := <-c.audit:
					c.record(flushCtx, rec)
				default:
					c.log.Info("roulette coordinator stopped")
					return
				}
			}
		}
	}
}

func (c *Coordinator) record(ctx context.Context, rec auditRecord) {
	for _, r := range c.recorders {
		var err error
		if rec.ended {
			err = r.RecordEnded(ctx, rec.session)
		} else {
			err = r.RecordStarted(ctx, rec.session)
		}
		if err != nil {
			c.log.Warn("session audit failed",
				zap.String("session_id", rec.session.ID),
				zap.Bool("ended", rec.ended),
				zap.Error(err))
		}
	}
}

func (c *Coordinator) enqueueAudit(rec auditRecord) {
	if len(c.recorders) == 0 {
		return
	}
	select {
	case c.audit <- rec:
	default:
		metrics.AuditDropped.Inc()
		c.log.Warn("session audit buffer full, record dropped",
			zap.String("session_id", rec.session.ID))
	}
}

func (c *Coordinator) deliver(connectionID string, ev Event) {
	if err := c.notifier.Send(connectionID, ev); err != nil {
		metrics.DeliveryFailures.WithLabelValues(string(ev.Type)).Inc()
		c.log.Warn("notification not delivered",
			zap.String("connection_id", connectionID),
			zap.String("event", string(ev.Type)),
			zap.String("session_id", ev.SessionID),
			zap.Error(err))
	}
}

func (c *Coordinator) updateGaugesLocked() {
	metrics.PoolSize.Set(float64(c.pool.Len()))
	metrics.ActiveSessions.Set(float64(c.sessions.Len()))
}

func participantOf(s Session, userID string) Participant {
	if s.A.UserID == userID {
		return s.A
	}
	return s.B
}
