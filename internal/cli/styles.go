package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hirewire/hirewire/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Status badge styles.
var (
	badgeIdle       = lipgloss.NewStyle().Foreground(colorDim)
	badgeProcessing = lipgloss.NewStyle().Foreground(colorCyan)
	badgeDone       = lipgloss.NewStyle().Foreground(colorGreen)
	badgeWaiting    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	badgeError      = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

func statusStyle(s models.LogStatus) lipgloss.Style {
	switch s {
	case models.LogStatusRunning:
		return badgeProcessing
	case models.LogStatusDone:
		return badgeDone
	case models.LogStatusWaiting:
		return badgeWaiting
	case models.LogStatusError:
		return badgeError
	}
	return badgeIdle
}

func agentStyle(s models.AgentStatus) lipgloss.Style {
	switch s {
	case models.AgentStatusProcessing:
		return badgeProcessing
	case models.AgentStatusCompleted:
		return badgeDone
	case models.AgentStatusWaiting:
		return badgeWaiting
	case models.AgentStatusError:
		return badgeError
	}
	return badgeIdle
}
