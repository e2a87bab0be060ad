package models

import (
	"fmt"
	"time"
)

// ReplayInfo advertises a running local replay server.
// This corresponds to ~/.hirewire/replay.yaml.
type ReplayInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	Path      string    `yaml:"path"`
	PID       int       `yaml:"pid"`
	Scenario  string    `yaml:"scenario"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewReplayInfo creates replay info stamped with the current time.
func NewReplayInfo(host string, port int, path string, pid int, scenario string) *ReplayInfo {
	return &ReplayInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		Path:      path,
		PID:       pid,
		Scenario:  scenario,
		StartedAt: time.Now().UTC(),
	}
}

// URL returns the event channel endpoint the replay server listens on.
func (r *ReplayInfo) URL() string {
	return fmt.Sprintf("ws://%s:%d%s", r.Host, r.Port, r.Path)
}
