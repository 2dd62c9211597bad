package chathub

import (
	"context"
	"errors"
	"strings"

	"datingroulette/backend/internal/complaint"
	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/roulette"

	"go.uber.org/zap"
)

// Stable error codes carried by roulette_error frames.
const (
	CodeUserNotFound = "user_not_found"
	CodeUserBanned   = "user_banned"
	CodeNotInSession = "not_in_session"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal"
)

// HandleFrame executes one inbound frame on behalf of c. It runs on the
// client's read goroutine, so a slow profile lookup only delays that client.
func (m *ManagerService) HandleFrame(ctx context.Context, c Client, f models.ClientFrame) {
	connID, userID := c.GetConnectionID(), c.GetUserID()

	switch f.Type {
	case models.ClientJoin:
		if err := m.pairing.Join(ctx, connID, userID); err != nil {
			m.replyError(c, err)
		}

	case models.ClientSkip:
		if err := m.pairing.Skip(ctx, connID, userID); err != nil {
			m.replyError(c, err)
		}

	case models.ClientLeave:
		m.pairing.Leave(connID)
		m.reply(c, models.ServerFrame{Type: models.ServerLeft})

	case models.ClientMessage:
		content := strings.TrimSpace(f.Content)
		if content == "" {
			m.reply(c, errorFrame(CodeBadRequest, "message content is empty"))
			return
		}
		if err := m.pairing.Relay(connID, content); err != nil {
			m.replyError(c, err)
		}

	case models.ClientReport:
		m.handleReport(ctx, c, f)

	default:
		m.reply(c, errorFrame(CodeBadRequest, "unknown frame type "+f.Type))
	}
}

func (m *ManagerService) handleReport(ctx context.Context, c Client, f models.ClientFrame) {
	if m.reporter == nil {
		m.reply(c, errorFrame(CodeBadRequest, "reporting is disabled"))
		return
	}
	session, partner, ok := m.pairing.PartnerOf(c.GetConnectionID())
	if !ok {
		m.replyError(c, roulette.ErrNotInSession)
		return
	}

	if _, err := m.reporter.Report(ctx, c.GetUserID(), partner.UserID, session.ID, f.ComplaintType, f.Reason); err != nil {
		m.replyError(c, err)
		return
	}
	m.reply(c, models.ServerFrame{Type: models.ServerReported, SessionID: session.ID})
}

func (m *ManagerService) replyError(c Client, err error) {
	if errors.Is(err, roulette.ErrConnectionClosed) {
		return
	}
	code, msg := errorCode(err)
	if code == CodeInternal {
		m.log.Error("request failed",
			zap.String("connection_id", c.GetConnectionID()),
			zap.String("user_id", c.GetUserID()),
			zap.Error(err))
	}
	m.reply(c, errorFrame(code, msg))
}

func errorCode(err error) (string, string) {
	switch {
	case errors.Is(err, roulette.ErrUserNotFound):
		return CodeUserNotFound, "user not found"
	case errors.Is(err, roulette.ErrUserBanned):
		return CodeUserBanned, "user is banned"
	case errors.Is(err, roulette.ErrNotInSession):
		return CodeNotInSession, "not in a roulette session"
	case errors.Is(err, complaint.ErrSelfReport):
		return CodeBadRequest, "cannot report yourself"
	default:
		return CodeInternal, "internal error"
	}
}

func errorFrame(code, msg string) models.ServerFrame {
	return models.ServerFrame{Type: models.ServerError, Code: code, Message: msg}
}
