package models

import "time"

// RouletteSession is the audit record of one roulette pairing.
// It is written after the pairing engine has committed the transition and is
// never read back by it.
type RouletteSession struct {
	// SessionID is the id assigned by the pairing engine.
	SessionID string `gorm:"primaryKey" json:"session_id"`
	// User1ID and Conn1ID identify the participant who waited longer.
	User1ID string `gorm:"index" json:"user1_id"`
	Conn1ID string `json:"conn1_id"`
	// User2ID and Conn2ID identify the participant whose join triggered the match.
	User2ID string `gorm:"index" json:"user2_id"`
	Conn2ID string `json:"conn2_id"`

	SharedInterests string `json:"shared_interests,omitempty"` // comma-separated

	IsActive    bool       `gorm:"index" json:"is_active"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	EndedReason string     `json:"ended_reason,omitempty"` // "left", "disconnected"
}
