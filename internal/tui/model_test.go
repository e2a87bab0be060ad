package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

type fakeController struct {
	resets int
	state  channel.State
}

func (f *fakeController) Reset()                      { f.resets++ }
func (f *fakeController) ChannelState() channel.State { return f.state }

func newTestModel(t *testing.T) (Model, *state.Store, *fakeController) {
	t.Helper()
	store := state.New(state.Options{})
	ctl := &fakeController{}
	m := NewModel(store, ctl, "session-1", "ws://localhost:8000/ws", &programRef{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store, ctl
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewRendersSnapshot(t *testing.T) {
	m, store, _ := newTestModel(t)

	store.SetStatus(models.AgentCVParser, models.AgentUpdate{
		Status: models.StatusPtr(models.AgentStatusProcessing),
		Plan:   models.StringPtr("Parsing resume"),
	})
	store.AppendLog(models.LogInput{
		Icon: "📄", Agent: models.AgentCVParser, Title: "Agent Started",
		Description: "Parsing resume", Status: models.LogStatusRunning,
	})
	store.SetConnected(true)

	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})
	view := m.View()

	for _, want := range []string{"Agents", "CV Parser", "Agent Started", "Parsing resume", "Connected", "1 entries"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("View() should warn about the terminal size")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantResets int
	}{
		{"confirmed", "y", 1},
		{"declined", "n", 0},
		{"cancelled", "esc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, ctl := newTestModel(t)
			m = update(t, m, keyPress("R"))
			if m.confirmMode != confirmReset {
				t.Fatalf("confirmMode = %d, want confirmReset", m.confirmMode)
			}
			if !strings.Contains(m.View(), "Reset all agents") {
				t.Error("status bar should ask for confirmation")
			}
			m = update(t, m, keyPress(tt.answer))
			if ctl.resets != tt.wantResets {
				t.Errorf("resets = %d, want %d", ctl.resets, tt.wantResets)
			}
			if m.confirmMode != confirmNone {
				t.Errorf("confirmMode = %d, want confirmNone", m.confirmMode)
			}
		})
	}
}

func TestDraftsOverlayJumpsToWaitingAgent(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = update(t, m, keyPress("d"))
	if m.activeOverlay != overlayNone || m.notice == "" {
		t.Fatalf("without drafts: overlay = %d notice = %q", m.activeOverlay, m.notice)
	}

	store.SetStatus(models.AgentEmailSender, models.AgentUpdate{
		Status: models.StatusPtr(models.AgentStatusWaiting),
		Drafts: &models.Drafts{
			Email:         map[string]any{"subject": "Application for Go Engineer"},
			ApplicationID: "app-1",
		},
	})
	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})
	m = update(t, m, keyPress("d"))

	if m.activeOverlay != overlayDrafts {
		t.Fatalf("activeOverlay = %d, want overlayDrafts", m.activeOverlay)
	}
	view := m.View()
	for _, want := range []string{"Email Sender · drafts", "app-1", "Application for Go Engineer"} {
		if !strings.Contains(view, want) {
			t.Errorf("drafts overlay missing %q", want)
		}
	}

	m = update(t, m, keyPress("esc"))
	if m.activeOverlay != overlayNone {
		t.Errorf("Esc should close the overlay")
	}
}

func TestEnterShowsFullThought(t *testing.T) {
	m, store, _ := newTestModel(t)
	long := strings.Repeat("considering the candidate's background ", 4)
	store.AppendLog(models.LogInput{
		Agent: models.AgentSupervisor, Title: "Thinking", Description: "considering...",
		Thought: long, Status: models.LogStatusDone,
	})
	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})

	m = update(t, m, keyPress("enter"))
	if m.activeOverlay != overlayThought || m.detail == nil {
		t.Fatalf("activeOverlay = %d, want overlayThought", m.activeOverlay)
	}
	if !strings.Contains(m.View(), "candidate's background") {
		t.Error("thought overlay should show the full text")
	}
}

func TestFeedCursorFollowsSelectedEntry(t *testing.T) {
	m, store, _ := newTestModel(t)
	for _, title := range []string{"first", "second"} {
		store.AppendLog(models.LogInput{Agent: models.AgentSupervisor, Title: title, Status: models.LogStatusDone})
	}
	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})
	m = update(t, m, keyPress("j"))
	if e, _ := m.logViewer.Selected(); e.Title != "first" {
		t.Fatalf("selected = %q, want first", e.Title)
	}

	store.AppendLog(models.LogInput{Agent: models.AgentSupervisor, Title: "third", Status: models.LogStatusDone})
	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})
	if e, _ := m.logViewer.Selected(); e.Title != "first" {
		t.Errorf("selected after new entry = %q, want first", e.Title)
	}

	m = update(t, m, keyPress("g"))
	if e, _ := m.logViewer.Selected(); e.Title != "third" {
		t.Errorf("selected after g = %q, want third", e.Title)
	}
}

func TestJobsTab(t *testing.T) {
	m, store, _ := newTestModel(t)
	store.JobStreamStart()
	store.JobStreamBatch("linkedin", "LinkedIn", []models.Job{{"title": "Go Engineer", "company": "Acme"}})
	store.JobStreamUniqueJobs([]models.Job{{"title": "Go Engineer", "company": "Acme"}})
	store.JobStreamHRStatus("Acme", "Go Engineer", "found", "hr@acme.test")
	m = update(t, m, SnapshotMsg{Snapshot: takeSnapshot(store)})

	m = update(t, m, keyPress("2"))
	view := m.View()
	for _, want := range []string{"LinkedIn", "Unique jobs (1)", "Go Engineer", "hr@acme.test"} {
		if !strings.Contains(view, want) {
			t.Errorf("jobs view missing %q", want)
		}
	}
}

func TestPollPicksUpChannelState(t *testing.T) {
	m, _, ctl := newTestModel(t)
	ctl.state = channel.AwaitingAck
	m = update(t, m, pollStateMsg{})
	if m.channelState != channel.AwaitingAck {
		t.Errorf("channelState = %s, want awaiting_ack", m.channelState)
	}
	if !strings.Contains(m.View(), "Authenticating") {
		t.Error("header should show the handshake in progress")
	}
}

func TestSessionEndedQuits(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(SessionEndedMsg{})
	if cmd == nil {
		t.Fatal("SessionEndedMsg should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("SessionEndedMsg should quit the program")
	}
}
