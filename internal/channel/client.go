// Package channel implements the client side of the workflow event channel:
// connect, authenticate with the raw credential, heartbeat, decode inbound
// frames and reconnect after transport loss.
//
// Everything the client observes is published on a single ordered stream
// (Deliveries) so that a consumer never sees a state transition overtake the
// envelopes that preceded it.
package channel

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default timings.
const (
	DefaultReconnectDelay    = 3 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPingPayload       = "ping"
	deliveryBuffer           = 64
)

// Options configures a Client. Zero values select production defaults.
type Options struct {
	URL    string
	Dialer Dialer

	// BackOff supplies the delay before each reconnect. Defaults to a constant
	// DefaultReconnectDelay that never gives up. Returning backoff.Stop ends Run.
	BackOff backoff.BackOff

	HeartbeatInterval time.Duration
	PingPayload       string

	// After and NewTicker replace the time package in tests.
	After     func(time.Duration) <-chan time.Time
	NewTicker func(time.Duration) (<-chan time.Time, func())
}

// Client maintains one logical session with the event channel.
type Client struct {
	opts Options
	out  chan Delivery

	mu      sync.Mutex
	token   string
	state   State
	changed chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

type sessionEnd int

const (
	endTransport sessionEnd = iota
	endCredential
	endShutdown
)

// New creates a client. Nothing happens until Run is called.
func New(opts Options) *Client {
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer{}
	}
	if opts.BackOff == nil {
		opts.BackOff = backoff.NewConstantBackOff(DefaultReconnectDelay)
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if opts.PingPayload == "" {
		opts.PingPayload = DefaultPingPayload
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.NewTicker == nil {
		opts.NewTicker = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}
	return &Client{
		opts:    opts,
		out:     make(chan Delivery, deliveryBuffer),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Deliveries returns the ordered stream of envelopes and state transitions.
// It is closed when Run returns.
func (c *Client) Deliveries() <-chan Delivery {
	return c.out
}

// State returns the most recently published state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetCredential makes token the session credential. A different non-empty
// token replaces any live connection; an empty token drops the connection and
// parks the client in Idle until a credential returns.
func (c *Client) SetCredential(token string) {
	token = strings.TrimSpace(token)
	c.mu.Lock()
	if c.token == token {
		c.mu.Unlock()
		return
	}
	c.token = token
	c.mu.Unlock()

	select {
	case c.changed <- struct{}{}:
	default:
	}
}

func (c *Client) credential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Close tears the session down without scheduling a reconnect.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Run drives the connection loop until ctx is cancelled or Close is called.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.out)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		token := c.credential()
		if token == "" {
			if c.State() != Idle {
				c.publishState(ctx, Idle)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-c.changed:
				continue
			}
		}

		switch c.session(ctx, token) {
		case endShutdown:
			return nil
		case endCredential:
			continue
		}

		delay := c.opts.BackOff.NextBackOff()
		if delay == backoff.Stop {
			log.Printf("[channel] Reconnect policy gave up")
			return nil
		}
		log.Printf("[channel] Reconnecting in %s", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-c.changed:
		case <-c.opts.After(delay):
		}
	}
}

// session runs one connection from dial to close.
func (c *Client) session(ctx context.Context, token string) sessionEnd {
	connCtx, cancelConn := context.WithCancel(ctx)
	defer cancelConn()

	if !c.publishState(ctx, Connecting) {
		return endShutdown
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancelConn()

	// The watch runs from before the dial so a credential that changes while
	// the dial is in flight is never written.
	var replaced atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		if c.watchCredential(connCtx, token) {
			replaced.Store(true)
			cancelConn()
		}
	}()

	// ended stops the watch and classifies why the connection is going away.
	ended := func(err error) sessionEnd {
		if ctx.Err() != nil {
			return endShutdown
		}
		cancelConn()
		wg.Wait()
		if replaced.Load() || c.credential() != token {
			log.Printf("[channel] Credential changed, dropping connection")
			c.publishState(ctx, Closed)
			return endCredential
		}
		log.Printf("[channel] Connection lost: %v", err)
		c.publishState(ctx, Closed)
		return endTransport
	}

	conn, err := c.opts.Dialer.Dial(connCtx, c.opts.URL)
	if err != nil {
		return ended(err)
	}
	defer func() { _ = conn.Close() }()

	if c.credential() != token {
		return ended(nil)
	}
	if err := conn.Write(connCtx, []byte(token)); err != nil {
		return ended(err)
	}
	if !c.publishState(ctx, AwaitingAck) {
		return endShutdown
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.heartbeat(connCtx, conn)
	}()

	for {
		frame, err := conn.Read(connCtx)
		if err != nil {
			return ended(err)
		}

		env, err := Decode(frame)
		if err != nil {
			log.Printf("[channel] Dropping frame: %v", err)
			continue
		}
		if !c.publish(ctx, Delivery{Envelope: &env}) {
			return endShutdown
		}
		if env.Type == TypeConnected && c.State() != Connected {
			c.opts.BackOff.Reset()
			if !c.publishState(ctx, Connected) {
				return endShutdown
			}
		}
	}
}

// watchCredential blocks until the credential differs from token or ctx ends.
// Signals that leave the credential unchanged, such as the one left by a
// SetCredential call made before Run, are ignored.
func (c *Client) watchCredential(ctx context.Context, token string) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.changed:
			if c.credential() != token {
				return true
			}
		}
	}
}

// heartbeat writes the ping payload on every tick while the transport is open.
func (c *Client) heartbeat(ctx context.Context, conn Conn) {
	tick, stop := c.opts.NewTicker(c.opts.HeartbeatInterval)
	defer stop()
	ping := []byte(c.opts.PingPayload)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_ = conn.Write(ctx, ping)
		}
	}
}

func (c *Client) publishState(ctx context.Context, s State) bool {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	return c.publish(ctx, Delivery{State: s})
}

func (c *Client) publish(ctx context.Context, d Delivery) bool {
	select {
	case c.out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}
