package dispatch

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/hirewire/hirewire/internal/models"
)

// TextPolicy holds the description lengths above which the full text is
// also kept as the entry's expandable thought.
type TextPolicy struct {
	Plan     int
	Progress int
	Log      int
	Error    int
}

// DefaultTextPolicy returns the stock thresholds.
func DefaultTextPolicy() TextPolicy {
	return TextPolicy{Plan: 60, Progress: 80, Log: 60, Error: 60}
}

// PolicyFromSettings builds a TextPolicy from the feed section of settings.
func PolicyFromSettings(cfg models.FeedConfig) TextPolicy {
	p := DefaultTextPolicy()
	if cfg.PlanThreshold > 0 {
		p.Plan = cfg.PlanThreshold
	}
	if cfg.ProgressThreshold > 0 {
		p.Progress = cfg.ProgressThreshold
	}
	if cfg.LogThreshold > 0 {
		p.Log = cfg.LogThreshold
	}
	if cfg.ErrorThreshold > 0 {
		p.Error = cfg.ErrorThreshold
	}
	return p
}

// Shorten truncates text to at most limit runes, marking the cut with "...".
func Shorten(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit <= 3 {
		return string([]rune(text)[:limit])
	}
	return strings.TrimRight(string([]rune(text)[:limit-3]), " ") + "..."
}

// thought returns text when it is longer than limit runes, otherwise "".
func thought(text string, limit int) string {
	if utf8.RuneCountInString(text) > limit {
		return text
	}
	return ""
}

// FormatDuration renders a duration given in seconds: "850ms", "4.2s", "1m 05s".
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return ""
	}
	// Units are chosen after rounding so 0.9996 reads "1.0s", not "1000ms".
	if ms := math.Round(seconds * 1000); ms < 1000 {
		return fmt.Sprintf("%dms", int(ms))
	}
	if tenths := math.Round(seconds * 10); tenths < 600 {
		return fmt.Sprintf("%.1fs", tenths/10)
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}

// FormatTokens renders a token count with thousands separators.
func FormatTokens(n int) string {
	if n == 1 {
		return "1 token"
	}
	return humanize.Comma(int64(n)) + " tokens"
}

// Status icons.
const (
	IconCompleted = "✅"
	IconError     = "❌"
	IconApproval  = "🔔"
	IconInfo      = "•"
)

var agentIcons = map[models.AgentName]string{
	models.AgentSupervisor:    "🧭",
	models.AgentCVParser:      "📄",
	models.AgentJobHunter:     "🔎",
	models.AgentCVTailor:      "✂️",
	models.AgentHRFinder:      "👤",
	models.AgentEmailSender:   "✉️",
	models.AgentInterviewPrep: "🎤",
	models.AgentDocGenerator:  "📝",
}

// AgentIcon returns the feed icon for an agent.
func AgentIcon(agent models.AgentName) string {
	if icon, ok := agentIcons[agent]; ok {
		return icon
	}
	return IconInfo
}
