package channel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

const waitTimeout = 2 * time.Second

type fakeConn struct {
	in        chan []byte
	writes    chan string
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		writes: make(chan string, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case frame, ok := <-f.in:
		if !ok {
			return nil, errors.New("connection reset")
		}
		return frame, nil
	case <-f.closed:
		return nil, errors.New("closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeConn) Write(ctx context.Context, data []byte) error {
	select {
	case f.writes <- string(data):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) send(s string) { f.in <- []byte(s) }

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

type fakeDialer struct {
	conns chan *fakeConn

	// When gate is set, Dial announces itself on dialing and holds the
	// connection until gate is closed, ignoring ctx like a slow handshake.
	gate    chan struct{}
	dialing chan struct{}
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeConn, 8)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if d.gate != nil {
		d.dialing <- struct{}{}
		<-d.gate
	}
	c := newFakeConn()
	d.conns <- c
	return c, nil
}

func (d *fakeDialer) next(t *testing.T) *fakeConn {
	t.Helper()
	select {
	case c := <-d.conns:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for dial")
		return nil
	}
}

// fakeClock captures reconnect delays and heartbeat tickers.
type fakeClock struct {
	afters chan time.Duration
	fire   chan time.Time
	tick   chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		afters: make(chan time.Duration, 8),
		fire:   make(chan time.Time),
		tick:   make(chan time.Time),
	}
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.afters <- d
	return c.fire
}

func (c *fakeClock) NewTicker(time.Duration) (<-chan time.Time, func()) {
	return c.tick, func() {}
}

type harness struct {
	client *Client
	dialer *fakeDialer
	clock  *fakeClock
	cancel context.CancelFunc
	done   chan struct{}
}

func startClient(t *testing.T, token string) *harness {
	t.Helper()
	return startClientWith(t, token, newFakeDialer())
}

func startClientWith(t *testing.T, token string, dialer *fakeDialer) *harness {
	t.Helper()
	h := &harness{dialer: dialer, clock: newFakeClock(), done: make(chan struct{})}
	h.client = New(Options{
		URL:       "ws://test/ws",
		Dialer:    h.dialer,
		After:     h.clock.After,
		NewTicker: h.clock.NewTicker,
	})
	h.client.SetCredential(token)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		_ = h.client.Run(ctx)
		close(h.done)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) next(t *testing.T) Delivery {
	t.Helper()
	select {
	case d, ok := <-h.client.Deliveries():
		if !ok {
			t.Fatal("deliveries closed")
		}
		return d
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func (h *harness) expectState(t *testing.T, want State) {
	t.Helper()
	d := h.next(t)
	if !d.IsState() {
		t.Fatalf("got envelope %q, want state %s", d.Envelope.Type, want)
	}
	if d.State != want {
		t.Fatalf("state = %s, want %s", d.State, want)
	}
}

func (h *harness) expectEnvelope(t *testing.T, wantType string) Envelope {
	t.Helper()
	d := h.next(t)
	if d.IsState() {
		t.Fatalf("got state %s, want envelope %q", d.State, wantType)
	}
	if d.Envelope.Type != wantType {
		t.Fatalf("envelope type = %q, want %q", d.Envelope.Type, wantType)
	}
	return *d.Envelope
}

func expectWrite(t *testing.T, c *fakeConn, want string) {
	t.Helper()
	select {
	case got := <-c.writes:
		if got != want {
			t.Fatalf("write = %q, want %q", got, want)
		}
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for write %q", want)
	}
}

// handshake drives a fresh connection up to Connected.
func (h *harness) handshake(t *testing.T, token string) *fakeConn {
	t.Helper()
	h.expectState(t, Connecting)
	conn := h.dialer.next(t)
	expectWrite(t, conn, token)
	h.expectState(t, AwaitingAck)
	conn.send(`{"type":"connected","data":{}}`)
	h.expectEnvelope(t, TypeConnected)
	h.expectState(t, Connected)
	return conn
}

func TestClientHandshake(t *testing.T) {
	h := startClient(t, "secret-token")
	h.handshake(t, "secret-token")
	if got := h.client.State(); got != Connected {
		t.Errorf("State() = %s, want connected", got)
	}
}

func TestClientFirstConnectionStaysUp(t *testing.T) {
	h := startClient(t, "tok")
	conn := h.handshake(t, "tok")

	select {
	case d := <-h.client.Deliveries():
		t.Fatalf("unexpected delivery after handshake: %+v", d)
	case <-h.dialer.conns:
		t.Fatal("redialed a healthy connection")
	case w := <-conn.writes:
		t.Fatalf("unexpected write %q after handshake", w)
	case <-time.After(100 * time.Millisecond):
	}
	if conn.isClosed() {
		t.Error("first connection was closed")
	}
}

func TestClientCredentialLostDuringDial(t *testing.T) {
	dialer := newFakeDialer()
	dialer.gate = make(chan struct{})
	dialer.dialing = make(chan struct{}, 1)
	h := startClientWith(t, "old-token", dialer)

	h.expectState(t, Connecting)
	select {
	case <-dialer.dialing:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for dial")
	}

	h.client.SetCredential("")
	close(dialer.gate)
	conn := dialer.next(t)

	h.expectState(t, Closed)
	h.expectState(t, Idle)
	select {
	case w := <-conn.writes:
		t.Fatalf("wrote %q after the credential was cleared", w)
	default:
	}
	if !conn.isClosed() {
		t.Error("transport should be closed")
	}
}

func TestClientCredentialReplacedDuringDial(t *testing.T) {
	dialer := newFakeDialer()
	dialer.gate = make(chan struct{})
	dialer.dialing = make(chan struct{}, 2)
	h := startClientWith(t, "old", dialer)

	h.expectState(t, Connecting)
	select {
	case <-dialer.dialing:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for dial")
	}

	h.client.SetCredential("new")
	close(dialer.gate)
	stale := dialer.next(t)
	h.expectState(t, Closed)

	h.handshake(t, "new")
	select {
	case w := <-stale.writes:
		t.Fatalf("stale connection received %q", w)
	default:
	}
}

func TestClientIdleWithoutCredential(t *testing.T) {
	h := startClient(t, "")
	select {
	case <-h.dialer.conns:
		t.Fatal("dialed without a credential")
	case <-time.After(50 * time.Millisecond):
	}

	h.client.SetCredential("late-token")
	h.handshake(t, "late-token")
}

func TestClientReconnectsAfterDelay(t *testing.T) {
	h := startClient(t, "tok")
	conn := h.handshake(t, "tok")

	close(conn.in)
	h.expectState(t, Closed)

	select {
	case d := <-h.clock.afters:
		if d != 3*time.Second {
			t.Errorf("reconnect delay = %s, want 3s", d)
		}
	case <-time.After(waitTimeout):
		t.Fatal("no reconnect scheduled")
	}

	select {
	case <-h.dialer.conns:
		t.Fatal("redialed before the delay elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	h.clock.fire <- time.Now()
	h.handshake(t, "tok")
}

func TestClientDropsMalformedFrames(t *testing.T) {
	h := startClient(t, "tok")
	h.expectState(t, Connecting)
	conn := h.dialer.next(t)
	expectWrite(t, conn, "tok")
	h.expectState(t, AwaitingAck)

	conn.send(`{not json`)
	conn.send(`{"data":{}}`)
	conn.send(`pong`)
	conn.send(`{"type":"agent_started","data":{"agent_name":"cv_parser"}}`)

	h.expectEnvelope(t, TypePong)
	env := h.expectEnvelope(t, "agent_started")
	if env.Str("agent_name") != "cv_parser" {
		t.Errorf("agent_name = %q, want cv_parser", env.Str("agent_name"))
	}
	if got := h.client.State(); got != AwaitingAck {
		t.Errorf("State() = %s, want awaiting_ack", got)
	}
}

func TestClientHeartbeat(t *testing.T) {
	h := startClient(t, "tok")
	h.expectState(t, Connecting)
	conn := h.dialer.next(t)
	expectWrite(t, conn, "tok")
	h.expectState(t, AwaitingAck)

	// The heartbeat runs before the server acknowledges the session.
	h.clock.tick <- time.Now()
	expectWrite(t, conn, "ping")
	h.clock.tick <- time.Now()
	expectWrite(t, conn, "ping")
}

func TestClientCredentialLoss(t *testing.T) {
	h := startClient(t, "tok")
	conn := h.handshake(t, "tok")

	h.client.SetCredential("")
	h.expectState(t, Closed)
	h.expectState(t, Idle)

	if !conn.isClosed() {
		t.Error("transport should be closed on credential loss")
	}
	select {
	case <-h.clock.afters:
		t.Error("reconnect scheduled after credential loss")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClientCredentialReplaced(t *testing.T) {
	h := startClient(t, "old")
	conn := h.handshake(t, "old")

	h.client.SetCredential("new")
	h.expectState(t, Closed)
	h.handshake(t, "new")

	if !conn.isClosed() {
		t.Error("old transport should be closed")
	}
	select {
	case <-h.clock.afters:
		t.Error("credential swap should reconnect without delay")
	default:
	}
}

func TestClientSameCredentialIsNoop(t *testing.T) {
	h := startClient(t, "tok")
	h.handshake(t, "tok")
	h.client.SetCredential("  tok  ")

	select {
	case d := <-h.client.Deliveries():
		t.Fatalf("unexpected delivery %+v", d)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClientCloseStopsWithoutReconnect(t *testing.T) {
	h := startClient(t, "tok")
	conn := h.handshake(t, "tok")

	h.client.Close()
	select {
	case <-h.done:
	case <-time.After(waitTimeout):
		t.Fatal("Run did not return after Close")
	}

	for range h.client.Deliveries() {
	}
	if !conn.isClosed() {
		t.Error("transport should be closed on teardown")
	}
	select {
	case <-h.clock.afters:
		t.Error("reconnect scheduled after Close")
	default:
	}
}

func TestWebSocketDialerEndToEnd(t *testing.T) {
	big := `{"type":"job_stream_batch","data":{"source":"s","pad":"` + strings.Repeat("x", 64<<10) + `"}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = ws.Close(websocket.StatusNormalClosure, "") }()

		_, token, err := ws.Read(r.Context())
		if err != nil || string(token) != "e2e-token" {
			_ = ws.Close(websocket.StatusPolicyViolation, "bad token")
			return
		}
		_ = ws.Write(r.Context(), websocket.MessageText, []byte(`{"type":"connected","data":{}}`))
		_ = ws.Write(r.Context(), websocket.MessageText, []byte(big))
		_, _, _ = ws.Read(r.Context())
	}))
	defer srv.Close()

	client := New(Options{
		URL:    "ws" + strings.TrimPrefix(srv.URL, "http"),
		Dialer: WebSocketDialer{ReadLimit: 1 << 20},
	})
	client.SetCredential("e2e-token")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = client.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var types []string
	deadline := time.After(5 * time.Second)
	for len(types) < 2 {
		select {
		case d := <-client.Deliveries():
			if !d.IsState() {
				types = append(types, d.Envelope.Type)
			}
		case <-deadline:
			t.Fatalf("timed out; envelopes so far: %v", types)
		}
	}
	if types[0] != TypeConnected || types[1] != "job_stream_batch" {
		t.Errorf("envelopes = %v, want [connected job_stream_batch]", types)
	}
}
