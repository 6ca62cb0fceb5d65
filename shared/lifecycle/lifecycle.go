// Package lifecycle tracks where the server is in its shutdown sequence.
package lifecycle

import "sync/atomic"

type ServerState int32

const (
	ServerStateStarting ServerState = iota
	ServerStateReady
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

func (s ServerState) String() string {
	switch s {
	case ServerStateStarting:
		return "starting"
	case ServerStateReady:
		return "ready"
	case ServerStateInGracePeriod:
		return "grace period"
	case ServerStateInCleanupPeriod:
		return "cleanup period"
	default:
		return "unknown"
	}
}

// State is shared between the server, which moves it forward, and the health check, which
// reports it.
type State struct {
	value atomic.Int32
}

func New() *State {
	return &State{}
}

func (s *State) Set(state ServerState) {
	s.value.Store(int32(state))
}

func (s *State) Get() ServerState {
	return ServerState(s.value.Load())
}

// ShuttingDown reports whether a termination signal has been received.
func (s *State) ShuttingDown() bool {
	return s.Get() >= ServerStateInGracePeriod
}
