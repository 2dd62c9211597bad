package config

import "time"

const (
	// Reputation
	InitialReputation       = 1000
	MaxReputation           = 1000
	MinReputation           = 0
	ConfirmedComplaintBonus = 50

	// Ban
	BanThresholdReputation = 500
	BanThresholdFrequency  = 5
	BanFrequencyWindow     = 24 * time.Hour
	BanLevel1Duration      = 30 * time.Minute
	BanLevel2Duration      = 6 * time.Hour
	BanLevel3Duration      = 24 * time.Hour
	// A new ban within these windows of the previous one escalates the level.
	BanLevel2Window = 7 * 24 * time.Hour
	BanLevel3Window = 30 * 24 * time.Hour

	DefaultComplaintType = "Low"
)

var ComplaintWeights = map[string]int{
	"Low":      5,
	"Medium":   50,
	"Critical": 250,
}
