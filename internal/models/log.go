package models

import "time"

// LogStatus is the display state of a log feed entry.
type LogStatus string

const (
	LogStatusRunning LogStatus = "running"
	LogStatusWaiting LogStatus = "waiting"
	LogStatusDone    LogStatus = "done"
	LogStatusError   LogStatus = "error"
)

// ParseLogStatus validates a wire log status.
func ParseLogStatus(s string) (LogStatus, bool) {
	switch st := LogStatus(s); st {
	case LogStatusRunning, LogStatusWaiting, LogStatusDone, LogStatusError:
		return st, true
	}
	return "", false
}

// LogEntry is one human-readable line of the progress feed.
// Only Status may change after creation.
type LogEntry struct {
	ID          string    `yaml:"id"`
	Timestamp   time.Time `yaml:"timestamp"`
	Icon        string    `yaml:"icon"`
	Agent       AgentName `yaml:"agent"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Thought     string    `yaml:"thought,omitempty"` // full text behind a shortened description
	Status      LogStatus `yaml:"status"`
	Duration    string    `yaml:"duration,omitempty"` // formatted, e.g. "4.2s"
	Tokens      string    `yaml:"tokens,omitempty"`   // formatted, e.g. "1,204 tokens"
}

// LogInput carries the caller-supplied fields of a new entry; the store assigns ID and Timestamp.
type LogInput struct {
	Icon        string
	Agent       AgentName
	Title       string
	Description string
	Thought     string
	Status      LogStatus
	Duration    string
	Tokens      string
}
