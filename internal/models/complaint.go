package models

import "gorm.io/gorm"

// Complaint is a report filed by one roulette participant against the other.
type Complaint struct {
	gorm.Model
	ReporterID     string `gorm:"index"`
	ReportedUserID string `gorm:"index"`
	SessionID      string
	ComplaintType  string // "Low", "Medium", "Critical"
	Reason         string
	Status         string // "new", "confirmed", "rejected"
}
