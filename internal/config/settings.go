package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hirewire/hirewire/internal/models"
)

// URLEnv overrides the configured event channel URL.
const URLEnv = "HIREWIRE_URL"

// LoadSettings loads the global settings from ~/.hirewire/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	settings, err := LoadStoredSettings()
	if err != nil {
		return nil, err
	}
	if u := os.Getenv(URLEnv); u != "" {
		settings.Server.URL = u
	}
	return settings, nil
}

// LoadStoredSettings loads settings.yaml without environment overrides,
// for callers that write the result back.
func LoadStoredSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

// SaveSettings saves the global settings to ~/.hirewire/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// SettingKeys lists the keys accepted by SetSetting.
var SettingKeys = []string{
	"server.url",
	"channel.reconnect_delay",
	"channel.heartbeat_interval",
	"channel.ping_payload",
	"channel.read_limit",
	"feed.max_entries",
	"feed.plan_threshold",
	"feed.progress_threshold",
	"feed.log_threshold",
	"feed.error_threshold",
	"journal.enabled",
	"notifications.approvals",
}

// SetSetting updates a single dotted key on settings from its string form.
func SetSetting(s *models.Settings, key, value string) error {
	switch key {
	case "server.url":
		if !strings.HasPrefix(value, "ws://") && !strings.HasPrefix(value, "wss://") {
			return fmt.Errorf("invalid server url %q: expected ws:// or wss://", value)
		}
		s.Server.URL = value
	case "channel.reconnect_delay":
		return setDuration(&s.Channel.ReconnectDelay, key, value)
	case "channel.heartbeat_interval":
		return setDuration(&s.Channel.HeartbeatInterval, key, value)
	case "channel.ping_payload":
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		s.Channel.PingPayload = value
	case "channel.read_limit":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s: %q", key, value)
		}
		s.Channel.ReadLimit = n
	case "feed.max_entries":
		return setInt(&s.Feed.MaxEntries, key, value, 0)
	case "feed.plan_threshold":
		return setInt(&s.Feed.PlanThreshold, key, value, 1)
	case "feed.progress_threshold":
		return setInt(&s.Feed.ProgressThreshold, key, value, 1)
	case "feed.log_threshold":
		return setInt(&s.Feed.LogThreshold, key, value, 1)
	case "feed.error_threshold":
		return setInt(&s.Feed.ErrorThreshold, key, value, 1)
	case "journal.enabled":
		return setBool(&s.Journal.Enabled, key, value)
	case "notifications.approvals":
		return setBool(&s.Notifications.Approvals, key, value)
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(SettingKeys, ", "))
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key, value string, min int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < min {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*dst = b
	return nil
}

// GetSetting returns the string form of a single dotted key.
func GetSetting(s *models.Settings, key string) (string, error) {
	switch key {
	case "server.url":
		return s.Server.URL, nil
	case "channel.reconnect_delay":
		return s.Channel.ReconnectDelay.String(), nil
	case "channel.heartbeat_interval":
		return s.Channel.HeartbeatInterval.String(), nil
	case "channel.ping_payload":
		return s.Channel.PingPayload, nil
	case "channel.read_limit":
		return strconv.FormatInt(s.Channel.ReadLimit, 10), nil
	case "feed.max_entries":
		return strconv.Itoa(s.Feed.MaxEntries), nil
	case "feed.plan_threshold":
		return strconv.Itoa(s.Feed.PlanThreshold), nil
	case "feed.progress_threshold":
		return strconv.Itoa(s.Feed.ProgressThreshold), nil
	case "feed.log_threshold":
		return strconv.Itoa(s.Feed.LogThreshold), nil
	case "feed.error_threshold":
		return strconv.Itoa(s.Feed.ErrorThreshold), nil
	case "journal.enabled":
		return strconv.FormatBool(s.Journal.Enabled), nil
	case "notifications.approvals":
		return strconv.FormatBool(s.Notifications.Approvals), nil
	}
	return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(SettingKeys, ", "))
}
