package models

import "time"

// ServerConfig describes where the workflow event channel lives.
type ServerConfig struct {
	URL string `yaml:"url"` // ws:// or wss:// endpoint of the event channel
}

// ChannelConfig holds event channel timings.
type ChannelConfig struct {
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	PingPayload       string        `yaml:"ping_payload"`
	ReadLimit         int64         `yaml:"read_limit"` // max inbound frame size in bytes
}

// FeedConfig holds log feed presentation policy.
type FeedConfig struct {
	MaxEntries int `yaml:"max_entries"` // 0 = unbounded

	// Descriptions longer than these thresholds are also kept in full as the entry's thought.
	PlanThreshold     int `yaml:"plan_threshold"`
	ProgressThreshold int `yaml:"progress_threshold"`
	LogThreshold      int `yaml:"log_threshold"`
	ErrorThreshold    int `yaml:"error_threshold"`
}

// JournalConfig controls the durable feed history.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	Approvals bool `yaml:"approvals"`
}

// Settings represents global application settings.
// This corresponds to ~/.hirewire/settings.yaml.
type Settings struct {
	Version       int                 `yaml:"version"`
	Server        ServerConfig        `yaml:"server"`
	Channel       ChannelConfig       `yaml:"channel"`
	Feed          FeedConfig          `yaml:"feed"`
	Journal       JournalConfig       `yaml:"journal"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// Default channel timings.
const (
	DefaultReconnectDelay    = 3 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPingPayload       = "ping"
	DefaultReadLimit         = 4 << 20
	DefaultMaxLogEntries     = 500
)

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: ServerConfig{
			URL: "ws://localhost:8000/ws",
		},
		Channel: ChannelConfig{
			ReconnectDelay:    DefaultReconnectDelay,
			HeartbeatInterval: DefaultHeartbeatInterval,
			PingPayload:       DefaultPingPayload,
			ReadLimit:         DefaultReadLimit,
		},
		Feed: FeedConfig{
			MaxEntries:        DefaultMaxLogEntries,
			PlanThreshold:     60,
			ProgressThreshold: 80,
			LogThreshold:      60,
			ErrorThreshold:    60,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Notifications: NotificationsConfig{
			Approvals: true,
		},
	}
}

// ApplyDefaults fills zero values left by a partial settings file.
func (s *Settings) ApplyDefaults() {
	d := NewSettings()
	if s.Version == 0 {
		s.Version = d.Version
	}
	if s.Server.URL == "" {
		s.Server.URL = d.Server.URL
	}
	if s.Channel.ReconnectDelay <= 0 {
		s.Channel.ReconnectDelay = d.Channel.ReconnectDelay
	}
	if s.Channel.HeartbeatInterval <= 0 {
		s.Channel.HeartbeatInterval = d.Channel.HeartbeatInterval
	}
	if s.Channel.PingPayload == "" {
		s.Channel.PingPayload = d.Channel.PingPayload
	}
	if s.Channel.ReadLimit <= 0 {
		s.Channel.ReadLimit = d.Channel.ReadLimit
	}
	if s.Feed.MaxEntries < 0 {
		s.Feed.MaxEntries = 0
	}
	if s.Feed.PlanThreshold <= 0 {
		s.Feed.PlanThreshold = d.Feed.PlanThreshold
	}
	if s.Feed.ProgressThreshold <= 0 {
		s.Feed.ProgressThreshold = d.Feed.ProgressThreshold
	}
	if s.Feed.LogThreshold <= 0 {
		s.Feed.LogThreshold = d.Feed.LogThreshold
	}
	if s.Feed.ErrorThreshold <= 0 {
		s.Feed.ErrorThreshold = d.Feed.ErrorThreshold
	}
}
