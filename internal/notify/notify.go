// Package notify raises desktop notifications when an agent waits on the operator.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/gen2brain/beeep"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

// Sender delivers one notification.
type Sender func(title, body string) error

// Desktop sends an OS notification.
func Desktop(title, body string) error {
	return beeep.Notify(title, body, "")
}

// ApprovalNotifier notifies once per approval request: an agent entering the
// waiting state, or a waiting agent receiving drafts for a different application.
type ApprovalNotifier struct {
	store *state.Store
	send  Sender
	seen  map[models.AgentName]string
}

// New creates a notifier reading from store.
func New(store *state.Store, send Sender) *ApprovalNotifier {
	if send == nil {
		send = Desktop
	}
	return &ApprovalNotifier{
		store: store,
		send:  send,
		seen:  make(map[models.AgentName]string),
	}
}

// Check compares the status table against what was already announced and
// sends any new notifications. It returns how many were sent.
func (n *ApprovalNotifier) Check() int {
	sent := 0
	for _, rec := range n.store.Agents() {
		if rec.Status != models.AgentStatusWaiting {
			delete(n.seen, rec.Name)
			continue
		}
		key := "waiting"
		if rec.Drafts != nil {
			key += "|" + rec.Drafts.ApplicationID
		}
		if n.seen[rec.Name] == key {
			continue
		}
		n.seen[rec.Name] = key

		title, body := approvalMessage(rec)
		if err := n.send(title, body); err != nil {
			log.Printf("[notify] Failed to send notification: %v", err)
			continue
		}
		sent++
	}
	return sent
}

// Run checks once on start and again after every store change until ctx is
// cancelled.
func (n *ApprovalNotifier) Run(ctx context.Context) {
	const subID = "notify"
	changes := n.store.Subscribe(subID)
	defer n.store.Unsubscribe(subID)

	// Changes made before the subscription existed raised no signal.
	n.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			n.Check()
		}
	}
}

func approvalMessage(rec models.AgentStatusRecord) (title, body string) {
	title = "hirewire · Approval required"
	body = fmt.Sprintf("%s is waiting for your review", rec.Name.DisplayName())
	if rec.Drafts != nil && rec.Drafts.ApplicationID != "" {
		body += fmt.Sprintf(" (application %s)", rec.Drafts.ApplicationID)
	}
	return title, body
}
