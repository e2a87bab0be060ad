package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hirewire/hirewire/internal/models"
)

// JobsView renders the aggregated job search stream.
type JobsView struct {
	stream       *models.JobStream
	scrollOffset int
	width        int
	height       int
}

// NewJobsView creates an empty jobs view.
func NewJobsView() *JobsView {
	return &JobsView{}
}

// SetSize updates dimensions.
func (j *JobsView) SetSize(width, height int) {
	j.width = width
	j.height = height
}

// SetStream replaces the stream snapshot.
func (j *JobsView) SetStream(stream *models.JobStream) {
	j.stream = stream
}

// ScrollUp scrolls the job list up.
func (j *JobsView) ScrollUp() {
	if j.scrollOffset > 0 {
		j.scrollOffset--
	}
}

// ScrollDown scrolls the job list down.
func (j *JobsView) ScrollDown() {
	j.scrollOffset++
}

// View renders sources, the deduplication result and the unique jobs with their HR lookups.
func (j *JobsView) View() string {
	if j.stream == nil {
		return lipgloss.NewStyle().Foreground(colorDim).Width(j.width).Align(lipgloss.Center).
			Render("\nNo job search running.")
	}
	s := j.stream

	state := agentCompletedStyle.Render("finished")
	if s.Active {
		state = agentProcessingStyle.Render("searching")
	}
	lines := []string{
		sectionHeaderStyle.Render("Job search") + " " + state +
			hintStyle.Render(fmt.Sprintf("  %d results", s.TotalJobs())),
	}

	for _, src := range s.Sources {
		mark := "✓"
		if src.Searching {
			mark = "…"
		}
		lines = append(lines, fmt.Sprintf("  %s %-18s %s", mark, src.Label, hintStyle.Render(fmt.Sprintf("%d jobs", len(src.Jobs)))))
	}

	switch {
	case s.Deduplicating:
		lines = append(lines, "  "+agentProcessingStyle.Render("Removing duplicates..."))
	case s.DedupResult != nil:
		d := s.DedupResult
		lines = append(lines, "  "+hintStyle.Render(fmt.Sprintf("Deduplicated %d → %d (%d removed)", d.Before, d.After, d.Removed)))
	}

	if len(s.UniqueJobs) > 0 {
		lines = append(lines, "", sectionHeaderStyle.Render(fmt.Sprintf("Unique jobs (%d)", len(s.UniqueJobs))))
		jobLines := j.jobLines()
		budget := j.height - len(lines)
		if budget < 1 {
			budget = 1
		}
		if j.scrollOffset > len(jobLines)-budget {
			j.scrollOffset = max(len(jobLines)-budget, 0)
		}
		end := min(j.scrollOffset+budget, len(jobLines))
		lines = append(lines, jobLines[j.scrollOffset:end]...)
	}

	return strings.Join(lines, "\n")
}

func (j *JobsView) jobLines() []string {
	out := make([]string, 0, len(j.stream.UniqueJobs))
	for _, job := range j.stream.UniqueJobs {
		line := fmt.Sprintf("  • %s %s", job.Title(), hintStyle.Render("@ "+job.Company()))
		if loc := job.Location(); loc != "" {
			line += hintStyle.Render(" · " + loc)
		}
		if hr, ok := j.stream.HRStatuses[models.HRKey(job.Company(), job.Title())]; ok {
			line += " " + hrStatusLabel(hr)
		}
		out = append(out, truncateLine(line, j.width))
	}
	return out
}

func hrStatusLabel(hr models.HRStatus) string {
	switch hr.Status {
	case "found":
		label := "HR found"
		if hr.Email != "" {
			label += " " + hr.Email
		}
		return agentCompletedStyle.Render(label)
	case "searching":
		return agentProcessingStyle.Render("HR searching")
	case "not_found":
		return agentIdleStyle.Render("HR not found")
	}
	return hintStyle.Render("HR " + hr.Status)
}
