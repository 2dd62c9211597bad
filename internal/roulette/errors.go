package roulette

import "errors"

var (
	ErrDuplicateConnection = errors.New("connection already waiting")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserBanned          = errors.New("user is banned")
	ErrAlreadyInSession    = errors.New("user already in a live session")
	ErrSessionNotFound     = errors.New("session not found or already ended")
	ErrNotInSession        = errors.New("connection is not in a session")
	ErrConnectionClosed    = errors.New("connection disconnected before the join completed")
)
