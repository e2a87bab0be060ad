package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// confirmMode values.
const (
	confirmNone  = 0
	confirmReset = 1
)

func renderStatusBar(m *Model, width int) string {
	if m.confirmMode == confirmReset {
		return renderConfirmBar("Reset all agents, the feed and the job search? (y/n)", width)
	}

	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	if m.notice != "" {
		return renderNoticeBar(m.notice, width)
	}

	left := " " + getKeyHints(m)

	right := hintStyle.Render(fmt.Sprintf("%d entries", len(m.snapshot.Feed))) + " "
	if waiting := m.agentList.Waiting(); len(waiting) > 0 {
		right = approvalBannerStyle.Render(fmt.Sprintf("🔔 %d awaiting approval", len(waiting))) + " " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.activeOverlay != overlayNone {
		return keyHint("Esc", "close") + "  " + keyHint("j/k", "scroll")
	}

	base := keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " + keyHint("Tab", "switch")
	if m.focusedPanel == panelAgents {
		return base + "  " + keyHint("j/k", "select") + "  " + keyHint("d", "drafts") + "  " + keyHint("R", "reset")
	}
	if m.rightTab == tabFeed {
		return base + "  " + keyHint("Enter", "thought") + "  " + keyHint("x", "export") + "  " + keyHint("R", "reset")
	}
	return base + "  " + keyHint("j/k", "scroll") + "  " + keyHint("R", "reset")
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderNoticeBar(msg string, width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render(msg))
}
