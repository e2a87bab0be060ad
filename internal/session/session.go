// Package session wires the credential, the event channel, the dispatcher and
// the state store into one operator session.
//
// All store mutations happen on the goroutine running Run. Other goroutines
// read snapshots from Store and request resets through Reset.
package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/hirewire/hirewire/internal/buildinfo"
	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/config"
	"github.com/hirewire/hirewire/internal/dispatch"
	"github.com/hirewire/hirewire/internal/journal"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/notify"
	"github.com/hirewire/hirewire/internal/state"
	"github.com/hirewire/hirewire/internal/watcher"
)

// Options configures a Session.
type Options struct {
	Settings   *models.Settings
	Credential string

	// Journal, when set, mirrors the log feed into durable history.
	Journal *journal.Journal

	// WatchDir enables live credential reloads from that directory's token file.
	WatchDir string

	// Notify raises desktop notifications for approval requests.
	Notify bool
	Sender notify.Sender

	// Dialer replaces the WebSocket transport in tests.
	Dialer channel.Dialer

	// OnState observes channel transitions after they are applied.
	OnState func(channel.State)
}

// Session is one live connection to the workflow event channel.
type Session struct {
	ID    string
	Store *state.Store

	settings   *models.Settings
	client     *channel.Client
	dispatcher *dispatch.Dispatcher
	watchDir   string
	notifier   *notify.ApprovalNotifier
	onState    func(channel.State)

	resetCh chan struct{}

	mu    sync.RWMutex
	state channel.State
}

// New builds a session. Nothing connects until Run.
func New(opts Options) (*Session, error) {
	settings := opts.Settings
	if settings == nil {
		settings = models.NewSettings()
	}
	settings.ApplyDefaults()

	id := uuid.New().String()
	storeOpts := state.Options{MaxEntries: settings.Feed.MaxEntries}
	if opts.Journal != nil {
		if err := opts.Journal.StartSession(id, settings.Server.URL, time.Now()); err != nil {
			return nil, err
		}
		storeOpts.OnLog = opts.Journal.Hook(id)
	}
	store := state.New(storeOpts)

	dialer := opts.Dialer
	if dialer == nil {
		dialer = channel.WebSocketDialer{
			ReadLimit:  settings.Channel.ReadLimit,
			HTTPHeader: http.Header{"User-Agent": []string{buildinfo.UserAgent()}},
		}
	}

	s := &Session{
		ID:         id,
		Store:      store,
		settings:   settings,
		dispatcher: dispatch.New(store, dispatch.PolicyFromSettings(settings.Feed)),
		watchDir:   opts.WatchDir,
		onState:    opts.OnState,
		resetCh:    make(chan struct{}, 1),
		client: channel.New(channel.Options{
			URL:               settings.Server.URL,
			Dialer:            dialer,
			BackOff:           backoff.NewConstantBackOff(settings.Channel.ReconnectDelay),
			HeartbeatInterval: settings.Channel.HeartbeatInterval,
			PingPayload:       settings.Channel.PingPayload,
		}),
	}
	if opts.Notify {
		s.notifier = notify.New(store, opts.Sender)
	}
	s.client.SetCredential(opts.Credential)
	return s, nil
}

// Run connects and dispatches events until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var watchEvents <-chan watcher.Event
	if s.watchDir != "" {
		w, err := watcher.New(s.watchDir, 0)
		if err != nil {
			log.Printf("[session] Credential watcher unavailable: %v", err)
		} else if err := w.Start(); err != nil {
			log.Printf("[session] Credential watcher unavailable: %v", err)
			w.Stop()
		} else {
			defer w.Stop()
			watchEvents = w.Events()
		}
	}

	if s.notifier != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.notifier.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.client.Run(ctx); err != nil {
			log.Printf("[session] Channel stopped: %v", err)
		}
	}()

	log.Printf("[session] Session %s started against %s", s.ID, s.settings.Server.URL)
	deliveries := s.client.Deliveries()
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				s.applyState(channel.Idle)
				log.Printf("[session] Session %s ended", s.ID)
				return nil
			}
			if d.IsState() {
				s.applyState(d.State)
			} else {
				s.dispatcher.Dispatch(*d.Envelope)
			}
		case <-s.resetCh:
			s.Store.ResetAll()
		case ev := <-watchEvents:
			s.handleWatchEvent(ev)
		}
	}
}

func (s *Session) applyState(st channel.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.dispatcher.ChannelState(st)
	if s.onState != nil {
		s.onState(st)
	}
}

func (s *Session) handleWatchEvent(ev watcher.Event) {
	switch ev.Type {
	case watcher.EventCredentialRemoved:
		log.Printf("[session] Credential removed")
		s.client.SetCredential("")
	case watcher.EventCredentialChanged:
		tok, err := config.LoadCredential()
		if err != nil {
			log.Printf("[session] Failed to reload credential: %v", err)
			return
		}
		s.client.SetCredential(tok)
	case watcher.EventSettingsChanged:
		log.Printf("[session] Settings changed on disk; restart to apply")
	}
}

// SetCredential swaps the session credential.
func (s *Session) SetCredential(token string) {
	s.client.SetCredential(token)
}

// Reset asks the dispatch loop to restore every table to its defaults.
func (s *Session) Reset() {
	select {
	case s.resetCh <- struct{}{}:
	default:
	}
}

// ChannelState returns the last channel state applied by the dispatch loop.
func (s *Session) ChannelState() channel.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Settings returns the effective settings.
func (s *Session) Settings() *models.Settings {
	return s.settings
}

// Close stops the channel. Run returns once queued deliveries are drained.
func (s *Session) Close() {
	s.client.Close()
}
