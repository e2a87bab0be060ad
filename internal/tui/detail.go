package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/hirewire/hirewire/internal/models"
)

// DetailView is a scrollable overlay body used for full thoughts and draft review.
type DetailView struct {
	title    string
	viewport viewport.Model
	width    int
}

// NewDetailView creates a detail overlay of the given outer size.
func NewDetailView(title, content string, width, height int) *DetailView {
	inner := max(width-6, 20)
	vp := viewport.New(inner, max(height-8, 3))
	vp.SetContent(lipgloss.NewStyle().Width(inner).Render(content))
	return &DetailView{title: title, viewport: vp, width: width}
}

// ScrollUp scrolls one line up.
func (d *DetailView) ScrollUp() { d.viewport.LineUp(1) }

// ScrollDown scrolls one line down.
func (d *DetailView) ScrollDown() { d.viewport.LineDown(1) }

// PageUp scrolls half a page up.
func (d *DetailView) PageUp() { d.viewport.HalfViewUp() }

// PageDown scrolls half a page down.
func (d *DetailView) PageDown() { d.viewport.HalfViewDown() }

// View renders the overlay.
func (d *DetailView) View() string {
	hint := overlayDimStyle.Render("Esc to close · j/k PgUp/PgDn to scroll")
	body := overlayTitleStyle.Render(d.title) + "\n" + d.viewport.View() + "\n\n" + hint
	return overlayStyle.Width(d.width - 4).Render(body)
}

// thoughtContent renders a log entry with its untruncated text.
func thoughtContent(e models.LogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s · %s\n", e.Icon, e.Agent.DisplayName(), e.Timestamp.Local().Format("15:04:05"))
	if e.Duration != "" || e.Tokens != "" {
		sb.WriteString(overlayDimStyle.Render(strings.TrimSpace(e.Duration+" "+e.Tokens)) + "\n")
	}
	sb.WriteString("\n")
	if e.Thought != "" {
		sb.WriteString(e.Thought)
	} else {
		sb.WriteString(e.Description)
	}
	return sb.String()
}

// draftsContent renders the documents an agent is waiting on approval for.
func draftsContent(rec models.AgentStatusRecord) string {
	if rec.Drafts.Empty() {
		return overlayDimStyle.Render("No drafts.")
	}
	d := rec.Drafts

	var sections []string
	if d.ApplicationID != "" {
		sections = append(sections, overlayDimStyle.Render("Application ")+d.ApplicationID)
	}
	for _, part := range []struct {
		label string
		value any
	}{
		{"CV", d.CV},
		{"Cover letter", d.CoverLetter},
		{"Email", d.Email},
	} {
		if part.value == nil {
			continue
		}
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(part.label)
		sections = append(sections, header+"\n"+renderDraftValue(part.value))
	}
	return strings.Join(sections, "\n\n")
}

// renderDraftValue prints strings as-is and structured drafts as indented JSON.
func renderDraftValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
