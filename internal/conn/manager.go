package conn

import (
	"context"
	"errors"
	"sync"
	"time"

	"partyline/internal/protocol"
	"partyline/internal/system"
)

const (
	// HandshakeTimeout bounds connect attempts. Steady-state receive has no
	// timeout: absence of traffic is not an error.
	HandshakeTimeout = 5 * time.Second

	frameBacklog = 64
	eventBacklog = 32
)

// ErrNotConnected is returned by Send without a Connected link.
var ErrNotConnected = errors.New("not connected")

// ErrBusy is returned by Connect while another connection is still live.
// The old link must be closed and observed terminated first.
var ErrBusy = errors.New("connection already live, close it first")

// Manager owns at most one live connection. The zero value is not usable;
// construct with New.
type Manager struct {
	dialer Dialer
	events chan StatusEvent

	mu         sync.Mutex
	state      State
	url        string
	tr         Transport
	frames     chan protocol.Frame
	readerDone chan struct{}
	closing    bool

	// wmu serializes all transport writes. The websocket layer supports a
	// single concurrent writer; Send and the teardown writes in Close must
	// never overlap.
	wmu sync.Mutex
}

// New returns a disconnected manager using dialer.
func New(dialer Dialer) *Manager {
	return &Manager{
		dialer: dialer,
		events: make(chan StatusEvent, eventBacklog),
	}
}

// Events returns the status transition stream consumed by the UI.
func (m *Manager) Events() <-chan StatusEvent { return m.events }

// Frames returns the inbound frame channel of the current connection, or
// nil when there is none. The channel is closed when its reader terminates.
func (m *Manager) Frames() <-chan protocol.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the address of the current (or last attempted) connection.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

func (m *Manager) transition(s State, url string, err error) {
	m.state = s
	select {
	case m.events <- StatusEvent{State: s, URL: url, Err: err}:
	default:
		system.Logger.Warn("status event dropped", "state", s, "url", url)
	}
}

// Connect dials url and, on success, spawns the reader goroutine. There is
// no automatic retry: a failure is surfaced and the user re-issues the
// command. Connect refuses to run while a previous link is still live.
func (m *Manager) Connect(ctx context.Context, url string) error {
	m.mu.Lock()
	if m.state != Disconnected && m.state != Failed {
		m.mu.Unlock()
		return ErrBusy
	}
	m.url = url
	m.transition(Connecting, url, nil)
	m.mu.Unlock()

	dctx, cancel := context.WithTimeout(ctx, HandshakeTimeout)
	tr, err := m.dialer.Dial(dctx, url)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.transition(Failed, url, err)
		m.transition(Disconnected, url, nil)
		return err
	}
	if m.state != Connecting {
		// A Close raced the handshake; the dial result is unwanted.
		_ = tr.Close()
		return ErrBusy
	}
	m.tr = tr
	m.closing = false
	m.frames = make(chan protocol.Frame, frameBacklog)
	m.readerDone = make(chan struct{})
	m.transition(Connected, url, nil)
	go m.readLoop(tr, m.frames, m.readerDone, url)
	return nil
}

// readLoop is the per-connection network task. It is the only writer into
// frames and closes it on exit; the manager never spawns a second reader
// before the previous one is observed done.
func (m *Manager) readLoop(tr Transport, frames chan protocol.Frame, done chan struct{}, url string) {
	defer close(done)
	defer close(frames)
	for {
		f, err := tr.ReadFrame()
		if err != nil {
			var perr *protocol.ProtocolError
			if errors.As(err, &perr) {
				// Malformed frame: drop it, keep the connection.
				system.Logger.Warn("dropping malformed frame", "err", perr)
				continue
			}
			m.mu.Lock()
			if m.closing {
				// Deliberate shutdown; Close reports the transition.
				m.mu.Unlock()
				return
			}
			m.tr = nil
			m.transition(Disconnected, url, &ConnError{Kind: ClosedByPeer, URL: url, Err: err})
			m.mu.Unlock()
			return
		}
		select {
		case frames <- f:
		default:
			// A stalled UI must never block the reader.
			system.Logger.Warn("frame backlog full, dropping", "kind", f.Kind)
		}
	}
}

// Close transitions the live connection through Closing and blocks until
// the reader goroutine has terminated (its channel end closed), draining
// any frames still in flight. This is the reconnect synchronization point.
// Closing an already-disconnected manager is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state != Connected && m.state != Connecting {
		m.mu.Unlock()
		return nil
	}
	tr := m.tr
	done := m.readerDone
	url := m.url
	m.closing = true
	m.transition(Closing, url, nil)
	m.mu.Unlock()

	if tr != nil {
		m.wmu.Lock()
		// Best-effort implicit leave before tearing down the transport.
		if err := tr.WriteFrame(protocol.Leave()); err != nil {
			system.Logger.Debug("leave frame not sent", "err", err)
		}
		_ = tr.Close()
		m.wmu.Unlock()
	}
	if done != nil {
		<-done
	}

	m.mu.Lock()
	m.tr = nil
	m.frames = nil
	m.readerDone = nil
	m.transition(Disconnected, url, nil)
	m.mu.Unlock()
	return nil
}

// Send writes one frame over the live connection. Writes are serialized:
// a send racing a concurrent Close hits the closed transport and gets an
// error, never an overlapping write.
func (m *Manager) Send(f protocol.Frame) error {
	m.mu.Lock()
	tr := m.tr
	state := m.state
	m.mu.Unlock()
	if state != Connected || tr == nil {
		return ErrNotConnected
	}
	m.wmu.Lock()
	defer m.wmu.Unlock()
	return tr.WriteFrame(f)
}
