package models

import (
	"time"

	"datingroulette/backend/internal/config"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is the slice of a dating profile the roulette service needs:
// who the user is, who they want to meet, and their moderation standing.
type User struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	TelegramID string         `gorm:"uniqueIndex" json:"telegram_id,omitempty"`
	Name       string         `json:"name"`
	Gender     string         `json:"gender"`       // "male", "female", "other"
	WantToFind string         `json:"want_to_find"` // "male", "female", "other"/"all"
	Interests  pq.StringArray `gorm:"type:text[]" json:"interests"`

	ReputationScore int   `gorm:"default:1000" json:"reputation_score"`
	IsBlocked       bool  `json:"is_blocked"`
	BlockEndTime    int64 `json:"block_end_time,omitempty"` // unix seconds, 0 = until lifted
	BlockLevel      int   `json:"block_level,omitempty"`
	LastBanDate     int64 `json:"last_ban_date,omitempty"`
}

// BeforeCreate generates the user UUID and the starting reputation.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.ReputationScore == 0 {
		u.ReputationScore = config.InitialReputation
	}
	return
}

// BannedAt reports whether the block on the user is in force at t.
func (u *User) BannedAt(t time.Time) bool {
	if !u.IsBlocked {
		return false
	}
	return u.BlockEndTime == 0 || t.Unix() < u.BlockEndTime
}
