// Package chathub owns live roulette connections: it routes inbound frames to
// the pairing engine and delivers pairing events back to the right socket.
package chathub

import (
	"context"
	"errors"
	"sync"

	"datingroulette/backend/internal/metrics"
	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/roulette"

	"go.uber.org/zap"
)

var (
	ErrClientNotFound  = errors.New("chathub: client not found")
	ErrSendBufferFull  = errors.New("chathub: send buffer full")
	ErrDuplicateClient = errors.New("chathub: connection already registered")
)

// Pairing is the part of roulette.Coordinator the hub drives.
type Pairing interface {
	Join(ctx context.Context, connectionID, userID string) error
	Skip(ctx context.Context, connectionID, userID string) error
	Leave(connectionID string)
	Disconnect(connectionID string)
	Relay(connectionID, content string) error
	PartnerOf(connectionID string) (roulette.Session, roulette.Participant, bool)
}

// Reporter files a complaint against the current partner.
type Reporter interface {
	Report(ctx context.Context, reporterID, reportedID, sessionID, complaintType, reason string) (*models.Complaint, error)
}

// ManagerService is the connection registry. It implements roulette.Notifier.
type ManagerService struct {
	mu      sync.RWMutex
	clients map[string]Client

	pairing  Pairing
	reporter Reporter
	log      *zap.Logger
}

func NewManagerService(log *zap.Logger) *ManagerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManagerService{
		clients: make(map[string]Client),
		log:     log.Named("chathub"),
	}
}

// SetPairing wires the pairing engine. The engine needs the hub as its
// Notifier, so it is attached after both are constructed.
func (m *ManagerService) SetPairing(p Pairing) {
	m.pairing = p
}

// SetReporter enables the report frame.
func (m *ManagerService) SetReporter(r Reporter) {
	m.reporter = r
}

// Register adds a connection. It must be called before the client starts
// reading so no event for it can be lost.
func (m *ManagerService) Register(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.GetConnectionID()]; ok {
		return ErrDuplicateClient
	}
	m.clients[c.GetConnectionID()] = c
	metrics.ConnectionsTotal.Inc()
	m.log.Debug("client registered",
		zap.String("connection_id", c.GetConnectionID()),
		zap.String("user_id", c.GetUserID()))
	return nil
}

// Unregister removes a connection, closes its outbound channel and reports
// the disconnect to the pairing engine. Calling it twice is harmless.
func (m *ManagerService) Unregister(c Client) {
	connID := c.GetConnectionID()

	m.mu.Lock()
	current, ok := m.clients[connID]
	if ok && current == c {
		delete(m.clients, connID)
	}
	m.mu.Unlock()
	if !ok || current != c {
		return
	}

	metrics.ConnectionsTotal.Dec()
	c.Close()
	if m.pairing != nil {
		m.pairing.Disconnect(connID)
	}
	m.log.Debug("client unregistered", zap.String("connection_id", connID))
}

// Len returns the number of registered connections.
func (m *ManagerService) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Send implements roulette.Notifier. It never blocks: a full client buffer is
// reported as ErrSendBufferFull.
func (m *ManagerService) Send(connectionID string, ev roulette.Event) error {
	return m.sendFrame(connectionID, FrameFromEvent(ev))
}

func (m *ManagerService) sendFrame(connectionID string, frame models.ServerFrame) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[connectionID]
	if !ok {
		return ErrClientNotFound
	}
	select {
	case c.GetSendChannel() <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// reply sends a frame straight back to the connection that asked for it.
func (m *ManagerService) reply(c Client, frame models.ServerFrame) {
	if err := m.sendFrame(c.GetConnectionID(), frame); err != nil {
		m.log.Warn("reply dropped",
			zap.String("connection_id", c.GetConnectionID()),
			zap.String("type", frame.Type),
			zap.Error(err))
	}
}

// FrameFromEvent converts a pairing event into its wire frame.
func FrameFromEvent(ev roulette.Event) models.ServerFrame {
	frame := models.ServerFrame{
		SessionID:       ev.SessionID,
		PartnerID:       ev.PartnerID,
		SharedInterests: ev.SharedInterests,
	}
	switch ev.Type {
	case roulette.EventMatched:
		frame.Type = models.ServerMatched
	case roulette.EventEnded:
		frame.Type = models.ServerEnded
		frame.Reason = "partner_" + string(ev.Reason)
	case roulette.EventMessage:
		frame.Type = models.ServerMessage
		frame.Content = ev.Content
	case roulette.EventLeft:
		frame.Type = models.ServerLeft
		frame.Reason = string(ev.Reason)
	}
	return frame
}
