// Package roulette implements the pairing engine behind video roulette: a
// waiting pool of connections looking for a partner, a registry of live
// two-party sessions, and the Coordinator that moves connections between them.
package roulette

import (
	"context"
	"strings"
	"time"
)

// Gender is both a profile attribute and a partner preference.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	// GenderAll is only meaningful as a preference.
	GenderAll Gender = "all"
)

// ParseGender normalises a stored preference. Legacy profiles use "other"
// (or leave the field empty) to mean "anyone".
func ParseGender(s string) Gender {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g
	case "", "other", GenderAll:
		return GenderAll
	default:
		return g
	}
}

// Attributes is the snapshot of a profile taken when a user joins.
type Attributes struct {
	Gender       Gender
	WantedGender Gender
	Interests    []string
}

// WaitingEntry is one connection queued for a partner.
type WaitingEntry struct {
	ConnectionID string    `json:"connection_id"`
	UserID       string    `json:"user_id"`
	Gender       Gender    `json:"gender"`
	WantedGender Gender    `json:"wanted_gender"`
	Interests    []string  `json:"interests,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Participant identifies one side of a Session.
type Participant struct {
	ConnectionID string `json:"connection_id"`
	UserID       string `json:"user_id"`
}

// EndReason says why a session ended.
type EndReason string

const (
	ReasonLeft         EndReason = "left"
	ReasonDisconnected EndReason = "disconnected"
	// ReasonReplaced is only used with EventLeft: the same user joined from
	// another connection.
	ReasonReplaced EndReason = "replaced"
)

// Session is a pairing of exactly two participants.
type Session struct {
	ID              string      `json:"session_id"`
	A               Participant `json:"participant_a"`
	B               Participant `json:"participant_b"`
	SharedInterests []string    `json:"shared_interests,omitempty"`
	StartedAt       time.Time   `json:"started_at"`
	EndedAt         *time.Time  `json:"ended_at,omitempty"`
	EndedReason     EndReason   `json:"ended_reason,omitempty"`
}

// Active reports whether the session has not been ended yet.
func (s Session) Active() bool { return s.EndedAt == nil }

// Partner returns the participant on the other side of connectionID.
func (s Session) Partner(connectionID string) (Participant, bool) {
	switch connectionID {
	case s.A.ConnectionID:
		return s.B, true
	case s.B.ConnectionID:
		return s.A, true
	}
	return Participant{}, false
}

// State is the per-connection state of the pairing state machine.
type State string

const (
	StateIdle    State = "idle"
	StateWaiting State = "waiting"
	StatePaired  State = "paired"
)

// EventType names an outbound notification.
type EventType string

const (
	EventMatched EventType = "matched"
	EventEnded   EventType = "ended"
	// EventMessage carries a relayed in-session text message.
	EventMessage EventType = "message"
	// EventLeft tells a waiting connection it was taken out of the pool.
	EventLeft EventType = "left"
)

// Event is what the Coordinator asks the Notifier to deliver.
type Event struct {
	Type            EventType
	SessionID       string
	PartnerID       string
	Reason          EndReason
	Content         string
	SharedInterests []string
}

// UserAttributes looks up the matching attributes of a user.
// It returns ErrUserNotFound for unknown users.
type UserAttributes interface {
	Fetch(ctx context.Context, userID string) (Attributes, error)
}

// Notifier delivers events to a single connection. Send is called while the
// Coordinator holds its lock, so implementations must not block.
type Notifier interface {
	Send(connectionID string, ev Event) error
}

// Recorder receives committed session transitions for audit.
type Recorder interface {
	RecordStarted(ctx context.Context, s Session) error
	RecordEnded(ctx context.Context, s Session) error
}
