// Package conn owns the single live connection to the chat server: the
// connect/close/reconnect state machine and the reader goroutine that feeds
// decoded frames to the UI over a bounded hand-off channel.
package conn

import (
	"context"
	"fmt"

	"partyline/internal/protocol"
)

// State is the lifecycle of the managed connection.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Closing
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closing:
		return "closing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrKind classifies connection failures for the status banner.
type ErrKind int

const (
	Unreachable ErrKind = iota
	Timeout
	Rejected
	ClosedByPeer
)

func (k ErrKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case Rejected:
		return "rejected"
	case ClosedByPeer:
		return "closed by peer"
	default:
		return "unknown"
	}
}

// ConnError is surfaced to the user as a status banner; the session stays
// alive and the user retries via /server or /join.
type ConnError struct {
	Kind ErrKind
	URL  string
	Err  error
}

func (e *ConnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Kind)
}

func (e *ConnError) Unwrap() error { return e.Err }

// StatusEvent is emitted on every state transition for display.
type StatusEvent struct {
	State State
	URL   string
	Err   error // non-nil on Failed and peer-close transitions
}

// Transport is one message-oriented connection. ReadFrame blocks until a
// frame arrives or the connection dies; a *protocol.ProtocolError return
// means the frame was malformed and the connection is still usable.
type Transport interface {
	ReadFrame() (protocol.Frame, error)
	WriteFrame(protocol.Frame) error
	Close() error
}

// Dialer opens transports. The manager applies the handshake timeout via
// the context; implementations map failures onto ConnError kinds.
type Dialer interface {
	Dial(ctx context.Context, url string) (Transport, error)
}
