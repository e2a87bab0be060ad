package replay

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"github.com/hirewire/hirewire/internal/channel"
)

const (
	authTimeout = 10 * time.Second
	pingFrame   = "ping"
)

// Server replays a scenario to every client that authenticates.
type Server struct {
	scenario *Scenario
	token    string
	after    func(time.Duration) <-chan time.Time

	sessions atomic.Int64
}

// NewServer creates a replay server. A non-empty token overrides the scenario's.
func NewServer(sc *Scenario, token string) *Server {
	if token == "" {
		token = sc.Token
	}
	return &Server{scenario: sc, token: token, after: time.After}
}

// Sessions returns how many clients have authenticated so far.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// ServeHTTP upgrades the request and runs one replay session.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[replay] Accept failed: %v", err)
		return
	}
	defer func() { _ = ws.Close(websocket.StatusNormalClosure, "") }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if !s.authenticate(ctx, ws) {
		_ = ws.Close(websocket.StatusPolicyViolation, "invalid credential")
		return
	}
	n := s.sessions.Add(1)
	log.Printf("[replay] Session %d authenticated from %s", n, r.RemoteAddr)

	if err := s.write(ctx, ws, channel.Envelope{Type: channel.TypeConnected}); err != nil {
		return
	}

	// Answer heartbeats until the client goes away.
	go func() {
		defer cancel()
		for {
			_, data, err := ws.Read(ctx)
			if err != nil {
				return
			}
			if string(data) == pingFrame {
				_ = ws.Write(ctx, websocket.MessageText, []byte(channel.PongFrame))
			}
		}
	}()

	for i, ev := range s.scenario.Events {
		if ev.Delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.after(ev.Delay):
			}
		}
		frame, err := ev.Frame()
		if err != nil {
			log.Printf("[replay] Skipping event %d: %v", i+1, err)
			continue
		}
		if err := ws.Write(ctx, websocket.MessageText, frame); err != nil {
			log.Printf("[replay] Session %d ended at event %d: %v", n, i+1, err)
			return
		}
	}
	log.Printf("[replay] Session %d finished %d events", n, len(s.scenario.Events))

	<-ctx.Done()
}

func (s *Server) authenticate(ctx context.Context, ws *websocket.Conn) bool {
	authCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	_, data, err := ws.Read(authCtx)
	if err != nil {
		log.Printf("[replay] No credential received: %v", err)
		return false
	}
	if s.token != "" && string(data) != s.token {
		log.Printf("[replay] Rejected credential")
		return false
	}
	return true
}

func (s *Server) write(ctx context.Context, ws *websocket.Conn, env channel.Envelope) error {
	data, err := channel.Encode(env)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
