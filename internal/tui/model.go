package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/state"
)

// Panels and tabs.
const (
	panelAgents = 0
	panelMain   = 1

	tabFeed = 0
	tabJobs = 1
)

const statePollInterval = 500 * time.Millisecond

// Controller is the part of a session the view acts on.
type Controller interface {
	Reset()
	ChannelState() channel.State
}

// Model is the root Bubbletea model for the TUI.
type Model struct {
	store     *state.Store
	ctl       Controller
	sessionID string
	serverURL string

	snapshot     Snapshot
	channelState channel.State

	// UI state
	rightTab      int
	focusedPanel  int
	activeOverlay int
	confirmMode   int
	splitRatio    float64
	width         int
	height        int

	// Status display
	err    error
	notice string

	// Child components
	agentList *AgentList
	logViewer *LogViewer
	jobsView  *JobsView
	detail    *DetailView
	spinner   spinner.Model

	// Program reference for goroutine Send()
	program *programRef

	dragging bool
}

// NewModel creates the initial TUI model.
func NewModel(store *state.Store, ctl Controller, sessionID, serverURL string, program *programRef) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = agentProcessingStyle
	return Model{
		store:        store,
		ctl:          ctl,
		sessionID:    sessionID,
		serverURL:    serverURL,
		focusedPanel: panelMain,
		splitRatio:   0.38,
		agentList:    NewAgentList(),
		logViewer:    NewLogViewer(),
		jobsView:     NewJobsView(),
		spinner:      sp,
		program:      program,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshCmd(m.store),
		pollStateCmd(),
		m.spinner.Tick,
	)
}

type pollStateMsg struct{}

func pollStateCmd() tea.Cmd {
	return tea.Tick(statePollInterval, func(_ time.Time) tea.Msg {
		return pollStateMsg{}
	})
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	// ── Input ──────────────────────────────────────────────────────
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	// ── Session data ───────────────────────────────────────────────
	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil

	case pollStateMsg:
		if m.ctl != nil {
			m.channelState = m.ctl.ChannelState()
		}
		return m, pollStateCmd()

	case SessionEndedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, m.doQuit()

	// ── Status line ────────────────────────────────────────────────
	case ErrorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ExportedMsg:
		m.notice = "Feed exported to " + msg.Path
		return m, clearNoticeAfter(4 * time.Second)

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) applySnapshot(snap Snapshot) {
	m.snapshot = snap
	m.agentList.SetAgents(snap.Agents, snap.Active, snap.Completed)
	m.logViewer.SetEntries(snap.Feed)
	m.jobsView.SetStream(snap.Jobs)
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Confirm mode captures everything
	if m.confirmMode != confirmNone {
		return m.handleConfirmKey(msg)
	}

	if m.activeOverlay != overlayNone {
		m.handleOverlayKey(msg)
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, globalKeys.Tab):
		m.focusedPanel = 1 - m.focusedPanel
		return nil

	case key.Matches(msg, globalKeys.Reset):
		m.confirmMode = confirmReset
		return nil

	case key.Matches(msg, globalKeys.Drafts):
		return m.openDrafts(m.focusedPanel != panelAgents)

	case key.Matches(msg, globalKeys.Export):
		if len(m.snapshot.Feed) == 0 {
			m.notice = "Nothing to export yet"
			return clearNoticeAfter(3 * time.Second)
		}
		return exportFeedCmd(m.sessionID, m.snapshot)

	case key.Matches(msg, tabSwitchKeys.Feed):
		m.rightTab = tabFeed
		m.focusedPanel = panelMain
		return nil

	case key.Matches(msg, tabSwitchKeys.Jobs):
		m.rightTab = tabJobs
		m.focusedPanel = panelMain
		return nil
	}

	if m.focusedPanel == panelAgents {
		return m.handleAgentKey(msg)
	}
	m.handleMainKey(msg)
	return nil
}

func (m *Model) handleAgentKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, listKeys.Up):
		m.agentList.MoveUp()
	case key.Matches(msg, listKeys.Down):
		m.agentList.MoveDown()
	case key.Matches(msg, listKeys.Enter):
		return m.openDrafts(false)
	}
	return nil
}

func (m *Model) handleMainKey(msg tea.KeyMsg) {
	if m.rightTab == tabJobs {
		switch {
		case key.Matches(msg, listKeys.Up):
			m.jobsView.ScrollUp()
		case key.Matches(msg, listKeys.Down):
			m.jobsView.ScrollDown()
		}
		return
	}

	switch {
	case key.Matches(msg, listKeys.Up):
		m.logViewer.MoveUp()
	case key.Matches(msg, listKeys.Down):
		m.logViewer.MoveDown()
	case key.Matches(msg, listKeys.Top):
		m.logViewer.GotoTop()
	case key.Matches(msg, listKeys.Enter):
		if e, ok := m.logViewer.Selected(); ok {
			m.detail = NewDetailView(e.Title, thoughtContent(e), m.overlayWidth(), m.height)
			m.activeOverlay = overlayThought
		}
	}
}

// openDrafts shows the drafts of the selected agent. With preferWaiting, or when
// the selected agent has none, it jumps to the first agent awaiting approval.
func (m *Model) openDrafts(preferWaiting bool) tea.Cmd {
	rec, ok := m.agentList.Selected()
	if preferWaiting || !ok || rec.Drafts.Empty() {
		if !m.agentList.SelectWaiting() {
			m.notice = "No drafts awaiting review"
			return clearNoticeAfter(3 * time.Second)
		}
		rec, _ = m.agentList.Selected()
	}
	title := fmt.Sprintf("%s · drafts", rec.Name.DisplayName())
	m.detail = NewDetailView(title, draftsContent(rec), m.overlayWidth(), m.height)
	m.activeOverlay = overlayDrafts
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		m.confirmMode = confirmNone
		if m.ctl != nil {
			m.ctl.Reset()
		}
		m.notice = "Session reset"
		return clearNoticeAfter(3 * time.Second)
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
		m.confirmMode = confirmNone
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) {
	if m.activeOverlay == overlayHelp {
		if key.Matches(msg, overlayKeys.Close) || key.Matches(msg, globalKeys.Help) {
			m.activeOverlay = overlayNone
		}
		return
	}

	switch {
	case key.Matches(msg, overlayKeys.Close):
		m.activeOverlay = overlayNone
		m.detail = nil
	case m.detail == nil:
	case key.Matches(msg, overlayKeys.Up):
		m.detail.ScrollUp()
	case key.Matches(msg, overlayKeys.Down):
		m.detail.ScrollDown()
	case key.Matches(msg, overlayKeys.PageUp):
		m.detail.PageUp()
	case key.Matches(msg, overlayKeys.PageDown):
		m.detail.PageDown()
	}
}

// doQuit clears the program ref so late goroutine sends are dropped, then quits.
func (m *Model) doQuit() tea.Cmd {
	if m.program != nil {
		m.program.Clear()
	}
	return tea.Quit
}

// ── Mouse handling ───────────────────────────────────────────────

func (m *Model) handleMouse(msg tea.MouseMsg) {
	l := computeLayout(m.width, m.height, m.splitRatio)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(l.onLeft(msg.X), true)
			return
		case tea.MouseButtonWheelDown:
			m.scroll(l.onLeft(msg.X), false)
			return
		}
		if l.onDivider(msg.X) {
			m.dragging = true
			return
		}
		if l.onLeft(msg.X) {
			m.focusedPanel = panelAgents
		} else {
			m.focusedPanel = panelMain
		}

	case tea.MouseActionRelease:
		m.dragging = false

	case tea.MouseActionMotion:
		if m.dragging && m.width > 0 {
			m.splitRatio = min(max(float64(msg.X)/float64(m.width), 0.25), 0.6)
			m.updateDimensions()
		}
	}
}

func (m *Model) scroll(left, up bool) {
	switch {
	case left && up:
		m.agentList.MoveUp()
	case left:
		m.agentList.MoveDown()
	case m.rightTab == tabJobs && up:
		m.jobsView.ScrollUp()
	case m.rightTab == tabJobs:
		m.jobsView.ScrollDown()
	case up:
		m.logViewer.MoveUp()
	default:
		m.logViewer.MoveDown()
	}
}

// ── Dimension helpers ────────────────────────────────────────────

func (m *Model) updateDimensions() {
	l := computeLayout(m.width, m.height, m.splitRatio)
	m.logViewer.SetSize(l.rightInner, l.innerHeight)
	m.jobsView.SetSize(l.rightInner, l.innerHeight)
}

func (m *Model) overlayWidth() int {
	return min(max(m.width-10, 40), 100)
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	if m.width < 80 || m.height < 24 {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					"Need 80x24, have "+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	l := computeLayout(m.width, m.height, m.splitRatio)

	header := renderHeader(m.serverURL, m.rightTab, m.channelState, m.snapshot.Connected, m.width)
	left := m.agentList.View(l.leftInner, m.spinner.View())
	right := m.logViewer.View()
	if m.rightTab == tabJobs {
		right = m.jobsView.View()
	}
	panels := renderPanels(left, right, l, m.focusedPanel)
	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, panels, statusBar)

	var overlay string
	switch m.activeOverlay {
	case overlayHelp:
		overlay = renderHelp(m.width)
	case overlayThought, overlayDrafts:
		if m.detail != nil {
			overlay = m.detail.View()
		}
	}
	if overlay != "" {
		view = renderOverlay(view, overlay, m.width, m.height)
	}
	return view
}
