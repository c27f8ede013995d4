package signal

import (
	"testing"
	"time"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/app"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/config"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
)

func newTestController() (*app.Registry, *ChatWSController) {
	reg := app.NewRegistry()
	out := app.NewDispatcher(reg)
	sessions := app.NewSessions(reg, out)
	cfg := &config.Config{MsgLimit: 100, MsgInterval: time.Minute}
	return reg, NewChatWSController(sessions, cfg)
}

func TestHandleEventJoinRoom(t *testing.T) {
	reg, ctl := newTestController()

	ctl.handleEvent("c1", []byte(`{"event":"join_room","data":{"username":"alice","room":"lobby"}}`))

	rec, ok := reg.Get("c1")
	if !ok {
		t.Fatal("join_room did not register the connection")
	}
	if rec.Username != "alice" || rec.Room != "lobby" {
		t.Errorf("record = %+v", rec)
	}
}

func TestHandleEventMalformedIsDropped(t *testing.T) {
	reg, ctl := newTestController()

	for _, raw := range []string{
		`not json at all`,
		`{"event":"join_room","data":"not an object"}`,
		`{"event":"join_room","data":{"username":"","room":"lobby"}}`,
		`{"event":"join_room","data":{"username":"alice"}}`,
		`{"event":"no_such_event","data":{}}`,
		`{}`,
	} {
		ctl.handleEvent("c1", []byte(raw))
	}

	if all := reg.All(); len(all) != 0 {
		t.Errorf("malformed input mutated the registry: %v", all)
	}
}

func TestHandleEventLeaveIgnoresPayload(t *testing.T) {
	reg, ctl := newTestController()
	ctl.handleEvent("c1", []byte(`{"event":"join_room","data":{"username":"alice","room":"lobby"}}`))

	// leave_room resolves from the caller's id; a payload naming someone
	// else must not matter.
	ctl.handleEvent("c1", []byte(`{"event":"leave_room","data":{"id":"c2","room":"game"}}`))

	if _, ok := reg.Get("c1"); ok {
		t.Error("leave_room did not remove the caller")
	}

	// And leaving again without membership is a no-op.
	ctl.handleEvent("c1", []byte(`{"event":"leave_room"}`))
}

func TestHandleEventMessageRateLimited(t *testing.T) {
	reg, ctl := newTestController()
	ctl.Limiter = NewRateLimiter(1, time.Minute)

	ctl.handleEvent("c1", []byte(`{"event":"join_room","data":{"username":"alice","room":"lobby"}}`))
	ctl.handleEvent("c1", []byte(`{"event":"send_message","data":{"room":"lobby","author":"alice","message":"one"}}`))
	// Second message hits the limiter; must be dropped without touching
	// session state.
	ctl.handleEvent("c1", []byte(`{"event":"send_message","data":{"room":"lobby","author":"alice","message":"two"}}`))

	if _, ok := reg.Get("c1"); !ok {
		t.Error("rate limiting disturbed the registry record")
	}
}

func TestWsConnTrySendAfterCloseFails(t *testing.T) {
	c := &WsConn{send: make(chan core.Frame, 1)}
	c.closed = true
	if err := c.TrySend(core.Frame("x")); err == nil {
		t.Error("TrySend on a closed connection returned nil error")
	}
}

func TestWsConnBackpressure(t *testing.T) {
	c := &WsConn{send: make(chan core.Frame, 1)}
	if err := c.TrySend(core.Frame("one")); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	if err := c.TrySend(core.Frame("two")); err != ErrBackpressure {
		t.Errorf("full queue returned %v, want ErrBackpressure", err)
	}
}
