package chathub_test

import (
	"context"

	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/roulette"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	connID      string
	userID      string
	RecvChannel chan models.ServerFrame
	closed      int
}

func newMockClient(connID, userID string) *MockClient {
	return &MockClient{
		connID:      connID,
		userID:      userID,
		RecvChannel: make(chan models.ServerFrame, 10),
	}
}

func (c *MockClient) GetConnectionID() string                  { return c.connID }
func (c *MockClient) GetUserID() string                        { return c.userID }
func (c *MockClient) GetSendChannel() chan<- models.ServerFrame { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed++
}

// next returns the next frame the hub sent to the client, if any.
func (c *MockClient) next() (models.ServerFrame, bool) {
	select {
	case f := <-c.RecvChannel:
		return f, true
	default:
		return models.ServerFrame{}, false
	}
}

type MockPairing struct {
	mock.Mock
}

func (m *MockPairing) Join(ctx context.Context, connectionID, userID string) error {
	return m.Called(ctx, connectionID, userID).Error(0)
}

func (m *MockPairing) Skip(ctx context.Context, connectionID, userID string) error {
	return m.Called(ctx, connectionID, userID).Error(0)
}

func (m *MockPairing) Leave(connectionID string) {
	m.Called(connectionID)
}

func (m *MockPairing) Disconnect(connectionID string) {
	m.Called(connectionID)
}

func (m *MockPairing) Relay(connectionID, content string) error {
	return m.Called(connectionID, content).Error(0)
}

func (m *MockPairing) PartnerOf(connectionID string) (roulette.Session, roulette.Participant, bool) {
	args := m.Called(connectionID)
	return args.Get(0).(roulette.Session), args.Get(1).(roulette.Participant), args.Bool(2)
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Report(ctx context.Context, reporterID, reportedID, sessionID, complaintType, reason string) (*models.Complaint, error) {
	args := m.Called(ctx, reporterID, reportedID, sessionID, complaintType, reason)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}
