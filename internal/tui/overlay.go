package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay kinds.
const (
	overlayNone    = 0
	overlayHelp    = 1
	overlayThought = 2
	overlayDrafts  = 3
)

// renderOverlay dims base and composites box centered over it.
func renderOverlay(base, box string, width, height int) string {
	canvas := strings.Split(base, "\n")
	for i, line := range canvas {
		canvas[i] = overlayDimStyle.Render(ansi.Strip(line))
	}

	boxLines := strings.Split(box, "\n")
	top := max((height-len(boxLines))/2, 1)
	left := max((width-lipgloss.Width(box))/2, 1)

	for i, line := range boxLines {
		row := top + i
		if row >= len(canvas) {
			break
		}
		canvas[row] = splice(canvas[row], line, left)
	}
	return strings.Join(canvas, "\n")
}

// splice writes fg over bg starting at column col, keeping bg on both sides.
func splice(bg, fg string, col int) string {
	bgWidth := lipgloss.Width(bg)
	end := col + lipgloss.Width(fg)

	var sb strings.Builder
	sb.WriteString(ansi.Truncate(bg, col, ""))
	if pad := col - bgWidth; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString("\033[0m")
	sb.WriteString(fg)
	sb.WriteString("\033[0m")
	if end < bgWidth {
		sb.WriteString(ansi.Cut(bg, end, bgWidth))
	}
	return sb.String()
}
