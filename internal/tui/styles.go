package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hirewire/hirewire/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)
)

// Tab styles.
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorWhite)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Agent list styles.
var (
	agentIdleStyle       = lipgloss.NewStyle().Foreground(colorDim)
	agentProcessingStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	agentCompletedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	agentErrorStyle      = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	agentWaitingStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// Connection badge styles.
var (
	badgeIdleStyle       = lipgloss.NewStyle().Foreground(colorDim)
	badgeConnectingStyle = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	badgeConnectedStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgeClosedStyle     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Approval banner style.
var approvalBannerStyle = lipgloss.NewStyle().
	Background(colorYellow).
	Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
	Bold(true).
	Padding(0, 1)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

func agentStatusStyle(s models.AgentStatus) lipgloss.Style {
	switch s {
	case models.AgentStatusProcessing:
		return agentProcessingStyle
	case models.AgentStatusCompleted:
		return agentCompletedStyle
	case models.AgentStatusError:
		return agentErrorStyle
	case models.AgentStatusWaiting:
		return agentWaitingStyle
	}
	return agentIdleStyle
}

func logStatusStyle(s models.LogStatus) lipgloss.Style {
	switch s {
	case models.LogStatusRunning:
		return agentProcessingStyle
	case models.LogStatusDone:
		return agentCompletedStyle
	case models.LogStatusError:
		return agentErrorStyle
	case models.LogStatusWaiting:
		return agentWaitingStyle
	}
	return agentIdleStyle
}
