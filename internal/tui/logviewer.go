package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hirewire/hirewire/internal/models"
)

// LogViewer displays the log feed, newest entry first, with a selectable cursor.
type LogViewer struct {
	entries       []models.LogEntry
	selectedIndex int
	selectedID    string
	scrollOffset  int
	width         int
	height        int
}

// NewLogViewer creates a new log viewer.
func NewLogViewer() *LogViewer {
	return &LogViewer{}
}

// SetSize updates dimensions.
func (l *LogViewer) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// SetEntries replaces the feed. The cursor follows the selected entry while it
// is still in the feed, so new arrivals do not move it.
func (l *LogViewer) SetEntries(entries []models.LogEntry) {
	l.entries = entries
	idx := 0
	if l.selectedID != "" {
		for i, e := range entries {
			if e.ID == l.selectedID {
				idx = i
				break
			}
		}
	}
	l.selectedIndex = idx
	if e, ok := l.Selected(); ok {
		l.selectedID = e.ID
	} else {
		l.selectedID = ""
	}
	l.ensureVisible()
}

// Selected returns the entry under the cursor.
func (l *LogViewer) Selected() (models.LogEntry, bool) {
	if l.selectedIndex < 0 || l.selectedIndex >= len(l.entries) {
		return models.LogEntry{}, false
	}
	return l.entries[l.selectedIndex], true
}

// MoveUp moves the cursor towards newer entries.
func (l *LogViewer) MoveUp() {
	if l.selectedIndex > 0 {
		l.selectedIndex--
		l.selectedID = l.entries[l.selectedIndex].ID
		l.ensureVisible()
	}
}

// MoveDown moves the cursor towards older entries.
func (l *LogViewer) MoveDown() {
	if l.selectedIndex < len(l.entries)-1 {
		l.selectedIndex++
		l.selectedID = l.entries[l.selectedIndex].ID
		l.ensureVisible()
	}
}

// GotoTop selects the newest entry.
func (l *LogViewer) GotoTop() {
	l.selectedIndex = 0
	l.selectedID = ""
	if e, ok := l.Selected(); ok {
		l.selectedID = e.ID
	}
	l.ensureVisible()
}

// rowsPerEntry is the title line plus the description line.
const rowsPerEntry = 2

func (l *LogViewer) visibleEntries() int {
	n := (l.height - 1) / rowsPerEntry
	if n < 1 {
		n = 1
	}
	return n
}

func (l *LogViewer) ensureVisible() {
	visible := l.visibleEntries()
	if l.selectedIndex < l.scrollOffset {
		l.scrollOffset = l.selectedIndex
	}
	if l.selectedIndex >= l.scrollOffset+visible {
		l.scrollOffset = l.selectedIndex - visible + 1
	}
	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// View renders the feed.
func (l *LogViewer) View() string {
	if len(l.entries) == 0 {
		return lipgloss.NewStyle().Foreground(colorDim).Width(l.width).Align(lipgloss.Center).
			Render("\nWaiting for workflow events...")
	}

	var lines []string
	end := l.scrollOffset + l.visibleEntries()
	if end > len(l.entries) {
		end = len(l.entries)
	}

	if l.scrollOffset > 0 {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("  ▲ %d newer", l.scrollOffset)))
	}
	for i := l.scrollOffset; i < end; i++ {
		title, desc := l.formatEntry(l.entries[i])
		if i == l.selectedIndex {
			title = selectedItemStyle.Width(l.width).Render(title)
			desc = selectedItemStyle.Width(l.width).Render(desc)
		}
		lines = append(lines, title, desc)
	}
	if end < len(l.entries) {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("  ▼ %d older", len(l.entries)-end)))
	}

	return strings.Join(lines, "\n")
}

func (l *LogViewer) formatEntry(e models.LogEntry) (string, string) {
	ts := hintStyle.Render(e.Timestamp.Local().Format("15:04:05"))
	title := lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render(e.Title)
	status := logStatusStyle(e.Status).Render(string(e.Status))

	head := fmt.Sprintf(" %s %s %s %s", ts, e.Icon, title, status)
	var extras []string
	if e.Duration != "" {
		extras = append(extras, e.Duration)
	}
	if e.Tokens != "" {
		extras = append(extras, e.Tokens)
	}
	if len(extras) > 0 {
		head += hintStyle.Render(" · " + strings.Join(extras, " · "))
	}

	desc := "    " + hintStyle.Render(e.Agent.DisplayName()+":") + " " + e.Description
	if e.Thought != "" {
		desc += hintStyle.Render(" ↵")
	}

	return truncateLine(head, l.width), truncateLine(desc, l.width)
}

func truncateLine(line string, width int) string {
	if width > 0 && lipgloss.Width(line) > width {
		return ansi.Truncate(line, width, "…")
	}
	return line
}
