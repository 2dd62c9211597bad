// Package complaint handles reports filed by roulette participants against
// each other, including reputation management and applying restrictions.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datingroulette/backend/internal/analysis"
	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/models"

	"go.uber.org/zap"
)

var ErrSelfReport = errors.New("complaint: cannot report yourself")

// Store is the part of storage.Storage the complaint service needs.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserReputation(ctx context.Context, userID string, change int) error

	SetBan(ctx context.Context, userID string, duration time.Duration) error
	ClearBan(ctx context.Context, userID string) error

	SaveComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, complaintID uint) (*models.Complaint, error)
	GetComplaintsForUser(ctx context.Context, userID string, since time.Time) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, complaintID uint, status string) error
}

// Service handles the business logic for complaints.
type Service struct {
	Storage Store
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates a new complaint service.
func NewService(s Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Storage: s, log: log.Named("complaint"), now: time.Now}
}

// Report files a complaint from reporterID against reportedID for the given
// session and applies its consequences.
func (s *Service) Report(ctx context.Context, reporterID, reportedID, sessionID, complaintType, reason string) (*models.Complaint, error) {
	if reporterID == reportedID {
		return nil, ErrSelfReport
	}
	c := &models.Complaint{
		ReporterID:     reporterID,
		ReportedUserID: reportedID,
		SessionID:      sessionID,
		ComplaintType:  analysis.NormalizeComplaintType(complaintType),
		Reason:         reason,
		Status:         "new",
	}
	if err := s.Storage.SaveComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}
	s.log.Info("complaint filed",
		zap.Uint("complaint_id", c.ID),
		zap.String("reporter_id", reporterID),
		zap.String("user_id", reportedID),
		zap.String("session_id", sessionID),
		zap.String("type", c.ComplaintType))

	return c, s.HandleComplaint(ctx, c)
}

// HandleComplaint processes a stored complaint.
func (s *Service) HandleComplaint(ctx context.Context, complaint *models.Complaint) error {
	weight := analysis.GetWeight(complaint.ComplaintType)
	if err := s.Storage.UpdateUserReputation(ctx, complaint.ReportedUserID, -weight); err != nil {
		return err
	}

	return s.CheckForBan(ctx, complaint.ReportedUserID)
}

// CheckForBan checks if a user should be banned based on their reputation and complaint history.
func (s *Service) CheckForBan(ctx context.Context, userID string) error {
	user, err := s.Storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.BannedAt(s.now()) {
		return nil
	}

	// Threshold Ban
	if user.ReputationScore < config.BanThresholdReputation {
		return s.applyBan(ctx, user, "reputation")
	}

	// Frequency Ban
	complaints, err := s.Storage.GetComplaintsForUser(ctx, userID, s.now().Add(-config.BanFrequencyWindow))
	if err != nil {
		return err
	}
	if len(complaints) > config.BanThresholdFrequency {
		return s.applyBan(ctx, user, "frequency")
	}

	return nil
}

func (s *Service) applyBan(ctx context.Context, user *models.User, trigger string) error {
	now := s.now()
	var lastBan time.Time
	if user.LastBanDate > 0 {
		lastBan = time.Unix(user.LastBanDate, 0)
	}
	level := analysis.NextBanLevel(user.BlockLevel, lastBan, now)
	duration := analysis.BanDuration(level)

	user.IsBlocked = true
	user.BlockEndTime = now.Add(duration).Unix()
	user.BlockLevel = level
	user.LastBanDate = now.Unix()
	if err := s.Storage.UpdateUser(ctx, user); err != nil {
		return err
	}
	if err := s.Storage.SetBan(ctx, user.ID, duration); err != nil {
		return fmt.Errorf("set ban key: %w", err)
	}

	s.log.Warn("user banned",
		zap.String("user_id", user.ID),
		zap.String("trigger", trigger),
		zap.Int("level", level),
		zap.Duration("duration", duration))
	return nil
}

// Ban blocks a user by hand. A zero duration blocks until lifted.
func (s *Service) Ban(ctx context.Context, userID string, duration time.Duration) error {
	user, err := s.Storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	user.IsBlocked = true
	user.BlockEndTime = 0
	if duration > 0 {
		user.BlockEndTime = now.Add(duration).Unix()
	}
	user.LastBanDate = now.Unix()
	if err := s.Storage.UpdateUser(ctx, user); err != nil {
		return err
	}
	return s.Storage.SetBan(ctx, userID, duration)
}

// Unban lifts any block on the user.
func (s *Service) Unban(ctx context.Context, userID string) error {
	user, err := s.Storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	user.BlockEndTime = 0
	if err := s.Storage.UpdateUser(ctx, user); err != nil {
		return err
	}
	return s.Storage.ClearBan(ctx, userID)
}

// ConfirmComplaint marks a complaint as confirmed and rewards the reporter.
func (s *Service) ConfirmComplaint(ctx context.Context, complaintID uint) error {
	c, err := s.Storage.GetComplaintByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if c.Status == "confirmed" {
		return nil
	}
	if err := s.Storage.UpdateComplaintStatus(ctx, complaintID, "confirmed"); err != nil {
		return err
	}
	return s.Storage.UpdateUserReputation(ctx, c.ReporterID, config.ConfirmedComplaintBonus)
}
