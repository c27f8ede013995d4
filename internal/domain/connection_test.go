package domain

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("alice"); err != nil {
		t.Errorf("valid username rejected: %v", err)
	}
	if err := ValidateUsername(""); err != ErrUsernameEmpty {
		t.Errorf("empty username: got %v, want ErrUsernameEmpty", err)
	}
	if err := ValidateUsername(strings.Repeat("x", MaxUsernameLen+1)); err != ErrUsernameTooLong {
		t.Errorf("oversized username: got %v, want ErrUsernameTooLong", err)
	}
}

func TestValidateRoom(t *testing.T) {
	if err := ValidateRoom("lobby"); err != nil {
		t.Errorf("valid room rejected: %v", err)
	}
	if err := ValidateRoom(""); err != ErrRoomEmpty {
		t.Errorf("empty room: got %v, want ErrRoomEmpty", err)
	}
	if err := ValidateRoom(RoomName(strings.Repeat("x", MaxRoomNameLen+1))); err != ErrRoomTooLong {
		t.Errorf("oversized room: got %v, want ErrRoomTooLong", err)
	}
}
