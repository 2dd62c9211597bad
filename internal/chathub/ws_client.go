package chathub

import (
	"context"
	"encoding/json"
	"time"

	"datingroulette/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// DefaultMaxMessageSize bounds an inbound frame when none is configured.
	DefaultMaxMessageSize = 4096
)

// WebSocketClient implements Client on top of a gorilla connection.
type WebSocketClient struct {
	ConnectionID   string
	UserID         string
	Conn           *websocket.Conn
	Hub            *ManagerService
	Send           chan models.ServerFrame
	MaxMessageSize int64

	// ctx is cancelled when the read pump exits, aborting in-flight lookups.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWebSocketClient builds a client with a send buffer of the given size.
func NewWebSocketClient(hub *ManagerService, conn *websocket.Conn, connectionID, userID string, sendBuffer int, maxMessageSize int64) *WebSocketClient {
	if maxMessageSize <= 0 {
		maxMessageSize = DefaultMaxMessageSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketClient{
		ConnectionID:   connectionID,
		UserID:         userID,
		Conn:           conn,
		Hub:            hub,
		Send:           make(chan models.ServerFrame, sendBuffer),
		MaxMessageSize: maxMessageSize,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (c *WebSocketClient) GetConnectionID() string                  { return c.ConnectionID }
func (c *WebSocketClient) GetUserID() string                        { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerFrame { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	log := c.Hub.log.With(zap.String("connection_id", c.ConnectionID), zap.String("user_id", c.UserID))
	defer func() {
		c.cancel()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Info("read error", zap.Error(err))
			}
			return
		}

		var frame models.ClientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Debug("malformed frame", zap.Error(err))
			c.Hub.reply(c, errorFrame(CodeBadRequest, "malformed JSON frame"))
			continue
		}

		c.Hub.HandleFrame(c.ctx, c, frame)
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
