package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

// entry pairs the roster record with the transport session for one
// connection id. rec stays nil until the first join; sess is nil when the
// record was created without a bound transport (tests, races on disconnect).
type entry struct {
	rec  *domain.Connection
	sess core.SignalConnection
}

// Registry is the authoritative connection roster. It owns the roomIndex
// and patches it under the same mutex as the records, so membership and
// record.Room can never disagree between mutations.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.ConnectionID]*entry
	order   []domain.ConnectionID
	index   roomIndex
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[domain.ConnectionID]*entry),
		index:   newRoomIndex(),
	}
}

// Bind attaches the transport session for a freshly connected id.
func (r *Registry) Bind(id domain.ConnectionID, sess core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{}
		r.entries[id] = e
	}
	e.sess = sess
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("bound session")
}

// Unbind detaches the transport. The roster record, if any, is left for the
// session layer to remove; an entry with neither is dropped entirely.
func (r *Registry) Unbind(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.sess = nil
	if e.rec == nil {
		delete(r.entries, id)
	}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("unbound session")
}

// Upsert inserts or fully replaces the roster record for id and returns the
// replaced record, if any. A replaced connection re-registers at the end of
// the roster order, like a fresh join.
func (r *Registry) Upsert(id domain.ConnectionID, username string, room domain.RoomName) *domain.Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{}
		r.entries[id] = e
	}
	prev := e.rec
	if prev != nil {
		r.index.remove(prev.Room, id)
		r.dropFromOrder(id)
	}
	e.rec = &domain.Connection{ID: id, Username: username, Room: room}
	r.order = append(r.order, id)
	r.index.add(room, id)
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("username", username).Str("room", string(room)).Msg("upserted record")
	return prev
}

// Remove deletes the roster record and reports the last-known state so the
// caller can announce the departure. Removing an absent id is a no-op.
func (r *Registry) Remove(id domain.ConnectionID) (domain.Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.rec == nil {
		return domain.Connection{}, false
	}
	rec := *e.rec
	r.index.remove(rec.Room, id)
	r.dropFromOrder(id)
	e.rec = nil
	if e.sess == nil {
		delete(r.entries, id)
	}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("room", string(rec.Room)).Msg("removed record")
	return rec, true
}

func (r *Registry) Get(id domain.ConnectionID) (domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok && e.rec != nil {
		return *e.rec, true
	}
	return domain.Connection{}, false
}

// All returns every roster record in registration order.
func (r *Registry) All() []domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Connection, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entries[id]; ok && e.rec != nil {
			out = append(out, *e.rec)
		}
	}
	return out
}

// MembersOf reads the derived index. Unknown rooms resolve to an empty set.
func (r *Registry) MembersOf(room domain.RoomName) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.membersOf(room)
}

// Target is a resolved delivery endpoint for the dispatcher.
type Target struct {
	ID   domain.ConnectionID
	Sess core.SignalConnection
}

// Target resolves one live endpoint. Records whose transport is already
// gone resolve to nothing, which the dispatcher treats as a silent drop.
func (r *Registry) Target(id domain.ConnectionID) (Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok && e.sess != nil {
		return Target{ID: id, Sess: e.sess}, true
	}
	return Target{}, false
}

// RoomTargets resolves every live member of room except excluding, all
// under one read lock so the scope is a consistent snapshot.
func (r *Registry) RoomTargets(room domain.RoomName, excluding domain.ConnectionID) []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.index.membersOf(room)
	out := make([]Target, 0, len(ids))
	for _, id := range ids {
		if id == excluding {
			continue
		}
		if e, ok := r.entries[id]; ok && e.sess != nil {
			out = append(out, Target{ID: id, Sess: e.sess})
		}
	}
	return out
}

// AllTargets resolves every connection holding a roster record.
func (r *Registry) AllTargets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Target, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entries[id]; ok && e.rec != nil && e.sess != nil {
			out = append(out, Target{ID: id, Sess: e.sess})
		}
	}
	return out
}

func (r *Registry) dropFromOrder(id domain.ConnectionID) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
