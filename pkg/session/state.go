// ABOUTME: Session state machine types
// ABOUTME: Disconnected -> Connecting -> HandshakePending -> Ready -> Streaming/Error
package session

import "github.com/resonatekit/client/pkg/audio"

// State is the session controller's current lifecycle stage.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshakePending
	StateReady
	StateStreaming
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHandshakePending:
		return "handshake_pending"
	case StateReady:
		return "ready"
	case StateStreaming:
		return "streaming"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a side-effect-free read of the controller's session state.
type Snapshot struct {
	State       State
	Format      audio.Format // zero value unless State == StateStreaming
	ErrorReason string       // non-empty only when State == StateError
	Volume      float64
	Muted       bool
}
