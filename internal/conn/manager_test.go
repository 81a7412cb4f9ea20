package conn

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"partyline/internal/protocol"
)

// recorder keeps the order of dial/close calls across fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type readResult struct {
	frame protocol.Frame
	err   error
}

type fakeTransport struct {
	url    string
	rec    *recorder
	in     chan readResult
	closed chan struct{}
	once   sync.Once

	writers atomic.Int32
	overlap atomic.Bool
}

func newFakeTransport(url string, rec *recorder) *fakeTransport {
	return &fakeTransport{
		url:    url,
		rec:    rec,
		in:     make(chan readResult, 128),
		closed: make(chan struct{}),
	}
}

func (t *fakeTransport) ReadFrame() (protocol.Frame, error) {
	select {
	case r := <-t.in:
		return r.frame, r.err
	case <-t.closed:
		return protocol.Frame{}, io.EOF
	}
}

func (t *fakeTransport) WriteFrame(f protocol.Frame) error {
	if t.writers.Add(1) > 1 {
		t.overlap.Store(true)
	}
	// Hold the writer slot briefly to widen any race window.
	time.Sleep(100 * time.Microsecond)
	t.rec.add("write " + string(f.Kind) + " " + t.url)
	t.writers.Add(-1)
	return nil
}

func (t *fakeTransport) Close() error {
	t.rec.add("close " + t.url)
	t.once.Do(func() { close(t.closed) })
	return nil
}

type fakeDialer struct {
	rec  *recorder
	fail map[string]error
	mu   sync.Mutex
	last *fakeTransport
}

func (d *fakeDialer) Dial(_ context.Context, url string) (Transport, error) {
	d.rec.add("dial " + url)
	if err, ok := d.fail[url]; ok {
		return nil, err
	}
	t := newFakeTransport(url, d.rec)
	d.mu.Lock()
	d.last = t
	d.mu.Unlock()
	return t, nil
}

func (d *fakeDialer) transport() *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func nextEvent(t *testing.T, m *Manager) StatusEvent {
	t.Helper()
	select {
	case ev := <-m.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for status event")
		return StatusEvent{}
	}
}

func expectStates(t *testing.T, m *Manager, want ...State) {
	t.Helper()
	for _, s := range want {
		if ev := nextEvent(t, m); ev.State != s {
			t.Fatalf("expected state %v, got %v (err=%v)", s, ev.State, ev.Err)
		}
	}
}

func TestManager_ConnectEmitsTransitions(t *testing.T) {
	rec := &recorder{}
	m := New(&fakeDialer{rec: rec})
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	expectStates(t, m, Connecting, Connected)
	if m.State() != Connected {
		t.Fatalf("state = %v", m.State())
	}
}

func TestManager_ConnectFailureNoRetry(t *testing.T) {
	rec := &recorder{}
	dialErr := &ConnError{Kind: Unreachable, URL: "ws://down:1"}
	m := New(&fakeDialer{rec: rec, fail: map[string]error{"ws://down:1": dialErr}})
	err := m.Connect(context.Background(), "ws://down:1")
	var cerr *ConnError
	if !errors.As(err, &cerr) || cerr.Kind != Unreachable {
		t.Fatalf("expected unreachable ConnError, got %v", err)
	}
	expectStates(t, m, Connecting, Failed, Disconnected)
	if got := rec.snapshot(); len(got) != 1 || got[0] != "dial ws://down:1" {
		t.Fatalf("expected exactly one dial, got %v", got)
	}
}

func TestManager_ServerSwitchClosesBeforeDial(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	// A second connect while host:1 is live must be refused.
	if err := m.Connect(context.Background(), "ws://host:2"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := m.Connect(context.Background(), "ws://host:2"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	want := []string{
		"dial ws://host:1",
		"write leave ws://host:1",
		"close ws://host:1",
		"dial ws://host:2",
	}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("call order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestManager_CloseWaitsForReader(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	frames := m.Frames()
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	// After Close returns, the reader has terminated and its channel end
	// is closed.
	select {
	case _, ok := <-frames:
		if ok {
			t.Fatalf("unexpected frame after close")
		}
	case <-time.After(time.Second):
		t.Fatalf("frame channel not closed after Close")
	}
	if m.Frames() != nil {
		t.Fatalf("expected nil frame channel when disconnected")
	}
}

func TestManager_CloseWhenDisconnectedIsNoOp(t *testing.T) {
	m := New(&fakeDialer{rec: &recorder{}})
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	select {
	case ev := <-m.Events():
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestManager_FramesDeliveredInOrder(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	tr := d.transport()
	for _, text := range []string{"one", "two", "three"} {
		tr.in <- readResult{frame: protocol.Frame{Kind: protocol.KindChat, Nickname: "bob", Text: text}}
	}
	frames := m.Frames()
	for _, want := range []string{"one", "two", "three"} {
		select {
		case f := <-frames:
			if f.Text != want {
				t.Fatalf("got %q, want %q", f.Text, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestManager_MalformedFrameDroppedConnectionLives(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	tr := d.transport()
	tr.in <- readResult{err: &protocol.ProtocolError{Reason: "malformed frame"}}
	tr.in <- readResult{frame: protocol.Frame{Kind: protocol.KindChat, Text: "still here"}}
	select {
	case f := <-m.Frames():
		if f.Text != "still here" {
			t.Fatalf("unexpected frame %+v", f)
		}
	case <-time.After(time.Second):
		t.Fatalf("reader died on malformed frame")
	}
	if m.State() != Connected {
		t.Fatalf("state = %v, want Connected", m.State())
	}
}

func TestManager_PeerCloseSurfacesAsStatus(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	expectStates(t, m, Connecting, Connected)
	d.transport().Close()
	ev := nextEvent(t, m)
	if ev.State != Disconnected {
		t.Fatalf("expected Disconnected, got %v", ev.State)
	}
	var cerr *ConnError
	if !errors.As(ev.Err, &cerr) || cerr.Kind != ClosedByPeer {
		t.Fatalf("expected ClosedByPeer, got %v", ev.Err)
	}
}

func TestManager_SendRequiresConnection(t *testing.T) {
	m := New(&fakeDialer{rec: &recorder{}})
	if err := m.Send(protocol.Chat("hi")); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestManager_WritesNeverOverlapDuringClose(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	tr := d.transport()

	// Chat sends in flight while the connection is torn down: the
	// transport must only ever see one writer at a time.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Send(protocol.Chat("hello"))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Close()
	}()
	wg.Wait()

	if tr.overlap.Load() {
		t.Fatalf("transport saw overlapping writes")
	}
}

func TestManager_FullBacklogDropsInsteadOfBlocking(t *testing.T) {
	rec := &recorder{}
	d := &fakeDialer{rec: rec}
	m := New(d)
	if err := m.Connect(context.Background(), "ws://host:1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	tr := d.transport()
	for i := 0; i < frameBacklog+10; i++ {
		tr.in <- readResult{frame: protocol.Frame{Kind: protocol.KindChat, Text: "x"}}
	}
	// Give the reader time to pull everything; it must not deadlock on the
	// full hand-off channel.
	time.Sleep(50 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		_ = m.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Close blocked by a stalled reader")
	}
}
