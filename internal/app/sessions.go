package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

// Sessions is the per-connection state machine: it applies join, leave and
// disconnect to the registry and composes the resulting notifications.
//
// Every mutating operation runs under one mutex so that registry mutation
// and scope resolution form a single step; nothing slow happens under it,
// since deliveries are buffered enqueues and the actual network writes live
// in the adapters' write pumps.
type Sessions struct {
	mu  sync.Mutex
	reg *Registry
	out *Dispatcher
}

func NewSessions(reg *Registry, out *Dispatcher) *Sessions {
	return &Sessions{reg: reg, out: out}
}

// Connect binds a fresh transport session. The connection stays off every
// roster until its first join.
func (s *Sessions) Connect(id domain.ConnectionID, sess core.SignalConnection) {
	s.reg.Bind(id, sess)
}

// Join places the connection in room under username, replacing any previous
// membership. An empty username or room makes it a silent no-op. A join
// from an already-joined connection is an implicit room switch: the old
// room gets its departure notice and roster refresh, but the global roster
// is refreshed only once.
func (s *Sessions) Join(id domain.ConnectionID, username string, room domain.RoomName) {
	if domain.ValidateUsername(username) != nil || domain.ValidateRoom(room) != nil {
		log.Warn().Str("module", "app.sessions").Str("cid", string(id)).Msg("join rejected, empty or oversized fields")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.reg.Upsert(id, username, room)
	switched := prev != nil && prev.Room != room
	if switched {
		s.out.ToRoom(prev.Room, core.EventUserDisconnected,
			fmt.Sprintf("%s salió de %s", prev.Username, prev.Room), NoExclusion)
	}
	s.out.ToRoom(room, core.EventUserConnected,
		fmt.Sprintf("%s se unió a %s", username, room), id)

	s.refreshAll()
	if switched {
		s.refreshRoom(prev.Room)
	}
	s.refreshRoom(room)
	log.Info().Str("module", "app.sessions").Str("cid", string(id)).Str("room", string(room)).Msg("joined")
}

// Leave removes the connection from its room without touching the
// transport, so a later join can re-register it. Idempotent.
func (s *Sessions) Leave(id domain.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(id)
}

// Disconnect is the transport-gone path: leave, then unbind the session.
// Safe to call more than once and to race with in-flight actions.
func (s *Sessions) Disconnect(id domain.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(id)
	s.reg.Unbind(id)
}

func (s *Sessions) leaveLocked(id domain.ConnectionID) {
	rec, ok := s.reg.Remove(id)
	if !ok {
		return
	}
	// The departing connection is already off the index, so no exclusion
	// is needed here.
	s.out.ToRoom(rec.Room, core.EventUserDisconnected,
		fmt.Sprintf("%s salió de %s", rec.Username, rec.Room), NoExclusion)
	s.refreshAll()
	s.refreshRoom(rec.Room)
	log.Info().Str("module", "app.sessions").Str("cid", string(id)).Str("room", string(rec.Room)).Msg("left")
}

// Broadcast fans a room message out to everyone in the room but the sender.
// No registry mutation happens here.
func (s *Sessions) Broadcast(sender domain.ConnectionID, room domain.RoomName, author, message, at string) {
	if room == "" || message == "" {
		return
	}
	s.out.ToRoom(room, core.EventReceiveMessage,
		core.MessagePayload{Author: author, Message: message, Time: at}, sender)
}

// Direct routes a message to one connection id, crossing room boundaries.
// A vanished target absorbs the message silently.
func (s *Sessions) Direct(to domain.ConnectionID, from, message, at string) {
	if to == "" || message == "" {
		return
	}
	s.out.ToConnection(to, core.EventReceivePrivate,
		core.PrivateMessagePayload{From: from, Message: message, Time: at})
}

// ShareFile passes an inline (base64) file through to the sender's room.
// The payload is opaque to the session layer.
func (s *Sessions) ShareFile(sender domain.ConnectionID, room domain.RoomName, author, filename, file, at string) {
	if room == "" || filename == "" || file == "" {
		return
	}
	s.out.ToRoom(room, core.EventReceiveFile,
		core.FilePayload{Author: author, Filename: filename, File: file, Time: at}, sender)
}

// ShareImage announces an uploaded image by URL. Same delivery path as
// ShareFile, only the outbound event and payload field differ.
func (s *Sessions) ShareImage(sender domain.ConnectionID, room domain.RoomName, author, imageURL, at string) {
	if room == "" || imageURL == "" {
		return
	}
	s.out.ToRoom(room, core.EventReceiveImage,
		core.ImagePayload{Author: author, ImageURL: imageURL, Timestamp: at}, sender)
}

func (s *Sessions) refreshAll() {
	s.out.ToAll(core.EventAllUsers, s.rosterOf(""))
}

func (s *Sessions) refreshRoom(room domain.RoomName) {
	s.out.ToRoom(room, core.EventRoomUsers, s.rosterOf(room), NoExclusion)
}

// rosterOf derives a roster straight from the registry records; the room
// index never feeds client-visible data, it only scopes deliveries.
func (s *Sessions) rosterOf(room domain.RoomName) []core.RosterEntry {
	all := s.reg.All()
	out := make([]core.RosterEntry, 0, len(all))
	for _, rec := range all {
		if room != "" && rec.Room != room {
			continue
		}
		out = append(out, core.RosterEntry{ID: rec.ID, Username: rec.Username, Room: rec.Room})
	}
	return out
}
