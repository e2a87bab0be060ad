package tui

import (
	"github.com/hirewire/hirewire/internal/models"
)

// SnapshotMsg carries a fresh copy of the observability tables.
type SnapshotMsg struct {
	Snapshot Snapshot
}

// SessionEndedMsg signals the session loop returned.
type SessionEndedMsg struct {
	Err error
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearNoticeMsg clears the transient notice in the status bar.
type ClearNoticeMsg struct{}

// ExportedMsg signals the feed was written to disk.
type ExportedMsg struct {
	Path string
}

// Snapshot is everything the view renders, read from the store in one pass.
type Snapshot struct {
	Agents    []models.AgentStatusRecord
	Active    models.AgentName
	Completed []models.AgentName
	Feed      []models.LogEntry
	Jobs      *models.JobStream
	Connected bool
}
