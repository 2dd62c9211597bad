package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"datingroulette/backend/internal/roulette"
)

// Publisher is satisfied by *NATSClient.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SessionPublisher implements roulette.Recorder by publishing each committed
// transition as JSON on the session subjects.
type SessionPublisher struct {
	pub Publisher
}

func NewSessionPublisher(pub Publisher) *SessionPublisher {
	return &SessionPublisher{pub: pub}
}

func (p *SessionPublisher) RecordStarted(_ context.Context, s roulette.Session) error {
	return p.publish(SubjectSessionStarted, s)
}

func (p *SessionPublisher) RecordEnded(_ context.Context, s roulette.Session) error {
	return p.publish(SubjectSessionEnded, s)
}

func (p *SessionPublisher) publish(subject string, s roulette.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("messaging: marshal session %s: %w", s.ID, err)
	}
	if err := p.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("messaging: publish %s for %s: %w", subject, s.ID, err)
	}
	return nil
}
