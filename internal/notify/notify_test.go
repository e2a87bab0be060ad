package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

type recorder struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (r *recorder) send(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func waiting(appID string) models.AgentUpdate {
	return models.AgentUpdate{
		Status: models.StatusPtr(models.AgentStatusWaiting),
		Drafts: &models.Drafts{ApplicationID: appID},
	}
}

func TestCheckNotifiesOncePerRequest(t *testing.T) {
	store := state.New(state.Options{})
	rec := &recorder{}
	n := New(store, rec.send)

	if got := n.Check(); got != 0 {
		t.Fatalf("Check() on idle table = %d, want 0", got)
	}

	store.SetStatus(models.AgentEmailSender, waiting("app-1"))
	if got := n.Check(); got != 1 {
		t.Fatalf("Check() = %d, want 1", got)
	}
	if got := n.Check(); got != 0 {
		t.Errorf("repeat Check() = %d, want 0", got)
	}

	store.SetStatus(models.AgentEmailSender, waiting("app-2"))
	if got := n.Check(); got != 1 {
		t.Errorf("Check() after new application = %d, want 1", got)
	}

	store.SetStatus(models.AgentEmailSender, models.AgentUpdate{Status: models.StatusPtr(models.AgentStatusProcessing)})
	n.Check()
	store.SetStatus(models.AgentEmailSender, models.AgentUpdate{Status: models.StatusPtr(models.AgentStatusWaiting)})
	if got := n.Check(); got != 1 {
		t.Errorf("Check() after re-entering waiting = %d, want 1", got)
	}

	if !strings.Contains(rec.bodies[0], "Email Sender") || !strings.Contains(rec.bodies[0], "app-1") {
		t.Errorf("body = %q, want agent and application id", rec.bodies[0])
	}
}

func TestCheckSendFailureIsNotCounted(t *testing.T) {
	store := state.New(state.Options{})
	n := New(store, (&recorder{err: errors.New("no notification daemon")}).send)
	store.SetStatus(models.AgentCVTailor, waiting(""))
	if got := n.Check(); got != 0 {
		t.Errorf("Check() = %d, want 0 on send failure", got)
	}
}

func TestRunReactsToStoreChanges(t *testing.T) {
	store := state.New(state.Options{})
	rec := &recorder{}
	n := New(store, rec.send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		// Keep poking until the subscription is registered.
		store.SetStatus(models.AgentCVTailor, waiting("app-9"))
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Errorf("notifications = %d, want 1", rec.count())
	}
}

func TestRunAnnouncesWaitingBeforeStart(t *testing.T) {
	store := state.New(state.Options{})
	store.SetStatus(models.AgentEmailSender, waiting("app-3"))
	rec := &recorder{}
	n := New(store, rec.send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Fatalf("notifications = %d, want 1", rec.count())
	}
	time.Sleep(50 * time.Millisecond)
	if rec.count() != 1 {
		t.Errorf("notifications = %d after settling, want 1", rec.count())
	}
}
