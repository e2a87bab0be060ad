// Package replay serves a scripted sequence of workflow events over the event
// channel protocol. It backs the hirewire-replay development server and the
// end-to-end tests.
package replay

import (
	"fmt"
	"time"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/config"
)

// Scenario is a scripted event sequence loaded from YAML:
//
//	name: cv parse
//	events:
//	  - delay: 500ms
//	    type: agent_started
//	    data: {agent_name: cv_parser, plan: Parsing resume}
//	  - raw: "{broken"
type Scenario struct {
	Name   string  `yaml:"name"`
	Token  string  `yaml:"token,omitempty"` // expected credential; empty accepts any
	Events []Event `yaml:"events"`
}

// Event is one scripted frame. Raw, when set, is sent verbatim instead of an envelope.
type Event struct {
	Delay time.Duration  `yaml:"delay,omitempty"`
	Type  string         `yaml:"type,omitempty"`
	Data  map[string]any `yaml:"data,omitempty"`
	Raw   string         `yaml:"raw,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	if err := config.LoadYAML(path, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks that every event is sendable.
func (sc *Scenario) Validate() error {
	for i, ev := range sc.Events {
		if ev.Type == "" && ev.Raw == "" {
			return fmt.Errorf("event %d has neither type nor raw", i+1)
		}
		if ev.Type != "" && ev.Raw != "" {
			return fmt.Errorf("event %d sets both type and raw", i+1)
		}
		if ev.Delay < 0 {
			return fmt.Errorf("event %d has a negative delay", i+1)
		}
	}
	return nil
}

// Frame renders the event as it goes on the wire.
func (ev Event) Frame() ([]byte, error) {
	if ev.Raw != "" {
		return []byte(ev.Raw), nil
	}
	return channel.Encode(channel.Envelope{Type: ev.Type, Data: ev.Data})
}

// Duration is the total scripted delay.
func (sc *Scenario) Duration() time.Duration {
	var d time.Duration
	for _, ev := range sc.Events {
		d += ev.Delay
	}
	return d
}
