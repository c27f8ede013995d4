// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxRoomNameLen = 36
)

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrRoomEmpty       = errors.New("room empty")
	ErrRoomTooLong     = errors.New("room too long")
)

type (
	// ConnectionID is the opaque per-socket identity assigned by the transport.
	ConnectionID string
	RoomName     string
)

// Connection is the roster record for one live transport session.
// Room stays empty until the first join.
type Connection struct {
	ID       ConnectionID `json:"id"`
	Username string       `json:"username"`
	Room     RoomName     `json:"room"`
}

// ValidateUsername rejects names the roster cannot carry.
func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidateRoom(room RoomName) error {
	if len(room) == 0 {
		return ErrRoomEmpty
	}
	if len(room) > MaxRoomNameLen {
		return ErrRoomTooLong
	}
	return nil
}
