package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const minPanelWidth = 24

// layout is the geometry of the agents panel, the divider and the main panel.
// Inner sizes exclude the panel borders.
type layout struct {
	leftWidth   int
	rightWidth  int
	height      int
	leftInner   int
	rightInner  int
	innerHeight int
	dividerCol  int
}

// computeLayout splits the rows between header and status bar at ratio.
func computeLayout(width, height int, ratio float64) layout {
	l := layout{height: max(height-2, 1)}

	usable := width - 1
	l.leftWidth = max(int(float64(usable)*ratio), minPanelWidth)
	l.rightWidth = max(usable-l.leftWidth, minPanelWidth)
	l.dividerCol = l.leftWidth

	l.leftInner = max(l.leftWidth-2, 1)
	l.rightInner = max(l.rightWidth-2, 1)
	l.innerHeight = max(l.height-2, 1)
	return l
}

// onLeft reports whether column x falls in the agents panel.
func (l layout) onLeft(x int) bool {
	return x < l.dividerCol
}

// onDivider reports whether column x is close enough to the divider to drag it.
func (l layout) onDivider(x int) bool {
	return x >= l.dividerCol-1 && x <= l.dividerCol+1
}

func renderPanels(left, right string, l layout, focused int) string {
	leftBox := panelBox(left, l.leftInner, l.innerHeight, focused == panelAgents)
	rightBox := panelBox(right, l.rightInner, l.innerHeight, focused == panelMain)

	rows := lipgloss.Height(leftBox)
	divider := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(strings.TrimSuffix(strings.Repeat("│\n", rows), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, divider, rightBox)
}

func panelBox(content string, width, height int, focused bool) string {
	style := unfocusedBorderStyle
	if focused {
		style = focusedBorderStyle
	}
	return style.Width(width).Height(height).Render(clip(content, width, height))
}

// clip cuts content to at most height lines of at most width cells.
func clip(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
