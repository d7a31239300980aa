package domain

import "errors"

// Sentinel errors for the chat relay core. Callers match them with errors.Is.
var (
	// ErrDuplicateUsername is returned when another active connection already
	// holds the requested username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrAlreadyJoined is returned when a connection that already has a chat
	// identity attempts to join again.
	ErrAlreadyJoined = errors.New("connection already joined")

	// ErrConnectionClosed is returned when sending on a connection whose
	// transport has been closed.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrSendBufferFull is returned when a connection's outbound queue is saturated.
	ErrSendBufferFull = errors.New("connection send buffer full")
)
