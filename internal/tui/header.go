package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hirewire/hirewire/internal/channel"
)

var rightTabNames = []string{"Feed", "Jobs"}

func renderHeader(serverURL string, rightTab int, state channel.State, connected bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorCyan).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("hirewire")
	server := hintStyle.Render(serverURL)

	tabs := renderTabs(rightTabNames, rightTab)
	badge := renderConnectionBadge(state, connected)

	left := fmt.Sprintf(" %s %s  %s", dot, name, server)
	right := fmt.Sprintf("%s  %s ", tabs, badge)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderTabs(tabs []string, active int) string {
	var parts []string
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, inactiveTabStyle.Render(tab))
		}
	}
	return strings.Join(parts, tabSepStyle.Render(" | "))
}

// renderConnectionBadge shows the transport state. Connected means the server
// acknowledged the session, not merely that the socket is open.
func renderConnectionBadge(state channel.State, connected bool) string {
	if connected || state == channel.Connected {
		return badgeConnectedStyle.Render("● Connected")
	}
	switch state {
	case channel.Connecting:
		return badgeConnectingStyle.Render("◌ Connecting")
	case channel.AwaitingAck:
		return badgeConnectingStyle.Render("◌ Authenticating")
	case channel.Closed:
		return badgeClosedStyle.Render("⚠ Reconnecting")
	}
	return badgeIdleStyle.Render("○ No credential")
}
