// Package tui implements the interactive live view of a hirewire session.
package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hirewire/hirewire/internal/session"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

const subscriberID = "tui"

// Run drives s and renders it until the user quits or ctx is cancelled.
func Run(ctx context.Context, s *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	model := NewModel(s.Store, s, s.ID, s.Settings().Server.URL, ref)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	ref.Set(p)

	changes := s.Store.Subscribe(subscriberID)
	go func() {
		for range changes {
			ref.Send(SnapshotMsg{Snapshot: takeSnapshot(s.Store)})
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := s.Run(ctx)
		ref.Send(SessionEndedMsg{Err: err})
	}()

	_, err := p.Run()

	ref.Clear()
	s.Store.Unsubscribe(subscriberID)
	cancel()
	<-done
	return err
}
