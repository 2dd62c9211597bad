package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datingroulette/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Storage interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserReputation(ctx context.Context, userID string, change int) error

	IsUserBanned(ctx context.Context, userID string) (bool, error)
	SetBan(ctx context.Context, userID string, duration time.Duration) error
	ClearBan(ctx context.Context, userID string) error

	SaveSession(ctx context.Context, session *models.RouletteSession) error
	CloseSession(ctx context.Context, sessionID string, endedAt time.Time, reason string) error
	GetActiveSessions(ctx context.Context) ([]models.RouletteSession, error)
	GetSessionsForUser(ctx context.Context, userID string, limit int) ([]models.RouletteSession, error)
	PublishSessionEvent(ctx context.Context, event SessionEvent) error

	SaveComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, complaintID uint) (*models.Complaint, error)
	GetComplaintsForUser(ctx context.Context, userID string, since time.Time) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, complaintID uint, status string) error
}

// Service is the PostgreSQL + Redis implementation of Storage.
// Redis may be nil (admin tooling); ban keys and the user cache are then skipped.
type Service struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration

	log *zap.Logger
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:       db,
		Redis:    rdb,
		CacheTTL: cacheTTL,
		log:      log.Named("storage"),
	}
}

// Migrate creates or updates the tables owned by this service.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.RouletteSession{},
		&models.Complaint{},
	)
}

// GetUserByID returns the user, served from the Redis cache when possible.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if user, ok := s.cachedUser(ctx, userID); ok {
		return user, nil
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.cacheUser(ctx, &user)
	return &user, nil
}

// UpdateUser saves the user and drops its cached copy.
func (s *Service) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	s.forgetUser(ctx, user.ID)
	return nil
}

// UpdateUserReputation shifts the reputation by change, clamped to the allowed range.
func (s *Service) UpdateUserReputation(ctx context.Context, userID string, change int) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation_score", gorm.Expr(
			"LEAST(GREATEST(reputation_score + ?, ?), ?)", change, minReputation, maxReputation))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	s.forgetUser(ctx, userID)
	return nil
}

// SaveSession upserts the audit row of a roulette session.
func (s *Service) SaveSession(ctx context.Context, session *models.RouletteSession) error {
	return s.DB.WithContext(ctx).Save(session).Error
}

// CloseSession marks the session as ended. Closing an already closed session is a no-op.
func (s *Service) CloseSession(ctx context.Context, sessionID string, endedAt time.Time, reason string) error {
	return s.DB.WithContext(ctx).Model(&models.RouletteSession{}).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Updates(map[string]interface{}{
			"is_active":    false,
			"ended_at":     endedAt,
			"ended_reason": reason,
		}).Error
}

// GetActiveSessions returns every session that has not been closed yet.
func (s *Service) GetActiveSessions(ctx context.Context) ([]models.RouletteSession, error) {
	var sessions []models.RouletteSession
	err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("started_at asc").
		Find(&sessions).Error
	return sessions, err
}

// GetSessionsForUser returns the latest sessions the user took part in.
func (s *Service) GetSessionsForUser(ctx context.Context, userID string, limit int) ([]models.RouletteSession, error) {
	var sessions []models.RouletteSession
	err := s.DB.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("started_at desc").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (s *Service) SaveComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = "new"
	}
	return s.DB.WithContext(ctx).Create(complaint).Error
}

func (s *Service) GetComplaintByID(ctx context.Context, complaintID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).First(&complaint, complaintID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("complaint %d: %w", complaintID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetComplaintsForUser returns complaints against userID filed since the given time.
func (s *Service) GetComplaintsForUser(ctx context.Context, userID string, since time.Time) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.WithContext(ctx).
		Where("reported_user_id = ? AND created_at >= ?", userID, since).
		Find(&complaints).Error
	return complaints, err
}

func (s *Service) UpdateComplaintStatus(ctx context.Context, complaintID uint, status string) error {
	return s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Update("status", status).Error
}
