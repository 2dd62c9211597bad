package chathub

import "datingroulette/backend/internal/models"

// Client is one live roulette connection. It abstracts the transport so the
// hub can be exercised without a real WebSocket.
type Client interface {
	// GetConnectionID returns the id the pairing engine knows this connection by.
	GetConnectionID() string
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string

	// GetSendChannel returns the buffered channel the hub writes outbound frames to.
	GetSendChannel() chan<- models.ServerFrame

	// Run starts the client's read and write pumps.
	Run()
	// Close stops the write pump. It is called exactly once, by the hub.
	Close()
}
