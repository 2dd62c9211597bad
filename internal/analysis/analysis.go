// Package analysis scores complaints and decides how hard a ban should hit.
package analysis

import (
	"strings"
	"time"

	"datingroulette/backend/internal/config"
)

// NormalizeComplaintType maps free-form client input onto a known complaint type.
// Unknown or empty types fall back to config.DefaultComplaintType.
func NormalizeComplaintType(complaintType string) string {
	for known := range config.ComplaintWeights {
		if strings.EqualFold(strings.TrimSpace(complaintType), known) {
			return known
		}
	}
	return config.DefaultComplaintType
}

// GetWeight returns the weight (penalty) for a given complaint type.
// It returns 0 if the complaint type is not recognized.
func GetWeight(complaintType string) int {
	return config.ComplaintWeights[complaintType]
}

// NextBanLevel returns the level of a new ban given the previous one.
// A repeat offence inside BanLevel2Window escalates, one inside
// BanLevel3Window keeps the previous level, anything older starts over.
func NextBanLevel(prevLevel int, lastBan, now time.Time) int {
	if lastBan.IsZero() || prevLevel < 1 {
		return 1
	}
	since := now.Sub(lastBan)
	switch {
	case since < config.BanLevel2Window:
		return min(prevLevel+1, 3)
	case since < config.BanLevel3Window:
		return prevLevel
	default:
		return 1
	}
}

// BanDuration returns how long a ban of the given level lasts.
func BanDuration(level int) time.Duration {
	switch level {
	case 1:
		return config.BanLevel1Duration
	case 2:
		return config.BanLevel2Duration
	default:
		return config.BanLevel3Duration
	}
}
