package storage_test

import (
	"context"
	"time"

	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockStorage) UpdateUserReputation(ctx context.Context, userID string, change int) error {
	return m.Called(ctx, userID, change).Error(0)
}

func (m *MockStorage) IsUserBanned(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetBan(ctx context.Context, userID string, duration time.Duration) error {
	return m.Called(ctx, userID, duration).Error(0)
}

func (m *MockStorage) ClearBan(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockStorage) SaveSession(ctx context.Context, session *models.RouletteSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockStorage) CloseSession(ctx context.Context, sessionID string, endedAt time.Time, reason string) error {
	return m.Called(ctx, sessionID, endedAt, reason).Error(0)
}

func (m *MockStorage) GetActiveSessions(ctx context.Context) ([]models.RouletteSession, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]models.RouletteSession)
	return sessions, args.Error(1)
}

func (m *MockStorage) GetSessionsForUser(ctx context.Context, userID string, limit int) ([]models.RouletteSession, error) {
	args := m.Called(ctx, userID, limit)
	sessions, _ := args.Get(0).([]models.RouletteSession)
	return sessions, args.Error(1)
}

func (m *MockStorage) PublishSessionEvent(ctx context.Context, event storage.SessionEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockStorage) SaveComplaint(ctx context.Context, complaint *models.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, complaintID uint) (*models.Complaint, error) {
	args := m.Called(ctx, complaintID)
	complaint, _ := args.Get(0).(*models.Complaint)
	return complaint, args.Error(1)
}

func (m *MockStorage) GetComplaintsForUser(ctx context.Context, userID string, since time.Time) ([]models.Complaint, error) {
	args := m.Called(ctx, userID, since)
	complaints, _ := args.Get(0).([]models.Complaint)
	return complaints, args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(ctx context.Context, complaintID uint, status string) error {
	return m.Called(ctx, complaintID, status).Error(0)
}
