package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hirewire/hirewire/internal/dispatch"
	"github.com/hirewire/hirewire/internal/models"
)

// AgentList is the agent status table for the left panel.
type AgentList struct {
	agents    []models.AgentStatusRecord
	active    models.AgentName
	completed map[models.AgentName]bool
	cursor    int
}

// NewAgentList creates an empty agent list.
func NewAgentList() *AgentList {
	return &AgentList{completed: map[models.AgentName]bool{}}
}

// SetAgents replaces the records shown.
func (al *AgentList) SetAgents(agents []models.AgentStatusRecord, active models.AgentName, completed []models.AgentName) {
	al.agents = agents
	al.active = active
	al.completed = make(map[models.AgentName]bool, len(completed))
	for _, a := range completed {
		al.completed[a] = true
	}
	if al.cursor >= len(agents) {
		al.cursor = len(agents) - 1
	}
	if al.cursor < 0 {
		al.cursor = 0
	}
}

// Selected returns the record under the cursor.
func (al *AgentList) Selected() (models.AgentStatusRecord, bool) {
	if al.cursor < 0 || al.cursor >= len(al.agents) {
		return models.AgentStatusRecord{}, false
	}
	return al.agents[al.cursor], true
}

// SelectWaiting moves the cursor to the first agent awaiting approval.
func (al *AgentList) SelectWaiting() bool {
	for i, rec := range al.agents {
		if rec.Status == models.AgentStatusWaiting {
			al.cursor = i
			return true
		}
	}
	return false
}

// Waiting returns the agents currently awaiting approval.
func (al *AgentList) Waiting() []models.AgentStatusRecord {
	var out []models.AgentStatusRecord
	for _, rec := range al.agents {
		if rec.Status == models.AgentStatusWaiting {
			out = append(out, rec)
		}
	}
	return out
}

// MoveUp moves the cursor up.
func (al *AgentList) MoveUp() {
	if al.cursor > 0 {
		al.cursor--
	}
}

// MoveDown moves the cursor down.
func (al *AgentList) MoveDown() {
	if al.cursor < len(al.agents)-1 {
		al.cursor++
	}
}

// View renders the table followed by the selected agent's details.
func (al *AgentList) View(width int, spinnerFrame string) string {
	lines := []string{sectionHeaderStyle.Render("Agents")}
	for i, rec := range al.agents {
		line := al.formatRow(rec, spinnerFrame)
		if lipgloss.Width(line) > width-2 {
			line = ansi.Truncate(line, width-2, "…")
		}
		if i == al.cursor {
			line = selectedItemStyle.Width(width).Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	if rec, ok := al.Selected(); ok {
		lines = append(lines, "", sectionHeaderStyle.Render(rec.Name.DisplayName()))
		lines = append(lines, al.details(rec, width)...)
	}
	return strings.Join(lines, "\n")
}

func (al *AgentList) formatRow(rec models.AgentStatusRecord, spinnerFrame string) string {
	marker := " "
	switch {
	case rec.Status == models.AgentStatusProcessing:
		marker = spinnerFrame
	case al.completed[rec.Name]:
		marker = "✓"
	}
	if rec.Name == al.active && rec.Status != models.AgentStatusProcessing {
		marker = "●"
	}

	name := fmt.Sprintf("%-15s", rec.Name.DisplayName())
	status := agentStatusStyle(rec.Status).Render(string(rec.Status))
	row := fmt.Sprintf("%s %s %s %s", marker, dispatch.AgentIcon(rec.Name), name, status)
	if rec.CurrentStep != nil && rec.TotalSteps != nil && *rec.TotalSteps > 0 {
		row += hintStyle.Render(fmt.Sprintf(" %d/%d", *rec.CurrentStep, *rec.TotalSteps))
	}
	return row
}

func (al *AgentList) details(rec models.AgentStatusRecord, width int) []string {
	label := lipgloss.NewStyle().Foreground(colorDim).Width(9)
	wrap := lipgloss.NewStyle().Width(max(width-11, 10))
	field := func(name, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, "  ", label.Render(name), wrap.Render(value))
	}

	var out []string
	if rec.Plan != nil && *rec.Plan != "" {
		out = append(out, field("Plan", *rec.Plan))
	}
	if rec.CurrentAction != nil && *rec.CurrentAction != "" {
		out = append(out, field("Action", *rec.CurrentAction))
	}
	if rec.CurrentStep != nil {
		step := fmt.Sprintf("%d", *rec.CurrentStep)
		if rec.TotalSteps != nil {
			step += fmt.Sprintf(" of %d", *rec.TotalSteps)
		}
		out = append(out, field("Step", step))
	}
	if !rec.Drafts.Empty() {
		out = append(out, field("Drafts", agentWaitingStyle.Render("ready for review (d)")))
	}
	if len(out) == 0 {
		out = append(out, "  "+hintStyle.Render("No activity yet"))
	}
	return out
}
