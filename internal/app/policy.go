package app

import "github.com/yeick81/ChatTiempoRealKonecta/internal/domain"

type BackpressureAction int

const (
	Ignore BackpressureAction = iota
	Disconnect
)

// Policy decides what to do with a connection whose send buffer overflowed
// or whose transport died mid-fanout.
type Policy interface {
	OnBackPressure(id domain.ConnectionID) BackpressureAction
}

// SimplePolicy drops the frame and keeps the connection: delivery is
// best-effort while connected, a lost frame is not a reason to kick.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.ConnectionID) BackpressureAction {
	return Ignore
}

// KickPolicy disconnects peers that cannot keep up.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ConnectionID) BackpressureAction {
	return Disconnect
}
