package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hirewire/hirewire/internal/config"
	"github.com/hirewire/hirewire/internal/state"
)

// takeSnapshot reads every table the view renders.
func takeSnapshot(store *state.Store) Snapshot {
	return Snapshot{
		Agents:    store.Agents(),
		Active:    store.ActiveAgent(),
		Completed: store.CompletedNodes(),
		Feed:      store.Feed(),
		Jobs:      store.JobStream(),
		Connected: store.Connected(),
	}
}

func refreshCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: takeSnapshot(store)}
	}
}

func exportFeedCmd(sessionID string, snap Snapshot) tea.Cmd {
	return func() tea.Msg {
		_, path, err := config.ExportFeed(sessionID, snap.Feed)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to export feed: %w", err)}
		}
		return ExportedMsg{Path: path}
	}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
