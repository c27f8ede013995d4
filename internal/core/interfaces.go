package core

import "github.com/yeick81/ChatTiempoRealKonecta/internal/domain"

// Frame is a marshaled outbound event, ready for the wire.
type Frame []byte

// SignalConnection abstracts one client's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// RosterEntry is a read-only roster view for clients (no transport fields).
type RosterEntry struct {
	ID       domain.ConnectionID `json:"id"`
	Username string              `json:"username"`
	Room     domain.RoomName     `json:"room"`
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []domain.ConnectionID
}
