package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

// NoExclusion is the zero ConnectionID: passing it to ToRoom delivers to
// every member.
const NoExclusion = domain.ConnectionID("")

// Dispatcher resolves a delivery scope against the registry and fans a
// single marshaled frame out to it. Scope resolution happens under the
// registry's read lock; the sends themselves are non-blocking enqueues, so
// a slow or vanished peer can only lose its own copy.
type Dispatcher struct {
	Registry *Registry
	Policy   Policy

	// OnDead is invoked (outside any lock) for connections the Policy
	// decided to disconnect. Optional.
	OnDead func(domain.ConnectionID)
}

func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{Registry: reg, Policy: SimplePolicy{}}
}

// ToConnection delivers to one connection if it is currently live.
// A missing target is a normal outcome, not an error.
func (d *Dispatcher) ToConnection(id domain.ConnectionID, event string, payload any) core.PublishResult {
	frame, err := encode(event, payload)
	if err != nil {
		return core.PublishResult{}
	}
	t, ok := d.Registry.Target(id)
	if !ok {
		log.Debug().Str("module", "app.fanout").Str("event", event).Str("cid", string(id)).Msg("target gone, dropped")
		return core.PublishResult{}
	}
	return d.deliver(event, []Target{t}, frame)
}

// ToRoom delivers to every live member of room except excluding.
func (d *Dispatcher) ToRoom(room domain.RoomName, event string, payload any, excluding domain.ConnectionID) core.PublishResult {
	frame, err := encode(event, payload)
	if err != nil {
		return core.PublishResult{}
	}
	return d.deliver(event, d.Registry.RoomTargets(room, excluding), frame)
}

// ToAll delivers to every connection holding a roster record.
func (d *Dispatcher) ToAll(event string, payload any) core.PublishResult {
	frame, err := encode(event, payload)
	if err != nil {
		return core.PublishResult{}
	}
	return d.deliver(event, d.Registry.AllTargets(), frame)
}

func (d *Dispatcher) deliver(event string, targets []Target, frame core.Frame) core.PublishResult {
	res := core.PublishResult{}
	for _, t := range targets {
		if err := t.Sess.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, t.ID)
			continue
		}
		res.SentTo++
	}
	if len(res.Dropped) > 0 {
		log.Debug().Str("module", "app.fanout").Str("event", event).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("fanout result")
		d.handleDropped(res.Dropped)
	}
	return res
}

func (d *Dispatcher) handleDropped(dropped []domain.ConnectionID) {
	if d.Policy == nil || d.OnDead == nil {
		return
	}
	for _, id := range dropped {
		if d.Policy.OnBackPressure(id) == Disconnect {
			// Asynchronous: the fanout may be running inside a session
			// mutation and the disconnect takes the same lock.
			go d.OnDead(id)
		}
	}
}

func encode(event string, payload any) (core.Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.fanout").Str("event", event).Msg("marshal payload")
		return nil, err
	}
	frame, err := json.Marshal(core.Envelope{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "app.fanout").Str("event", event).Msg("marshal envelope")
		return nil, err
	}
	return frame, nil
}
