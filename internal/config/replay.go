package config

import (
	"os"
	"syscall"

	"github.com/hirewire/hirewire/internal/models"
)

// ReplayFileName is written by hirewire-replay while it serves.
const ReplayFileName = "replay.yaml"

// ReplayFile returns the path to the replay server info file.
func ReplayFile() (string, error) {
	return globalPath(ReplayFileName)
}

// LoadReplayInfo loads the replay server info from ~/.hirewire/replay.yaml.
// Returns nil if the file doesn't exist.
func LoadReplayInfo() (*models.ReplayInfo, error) {
	path, err := ReplayFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}

	var info models.ReplayInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveReplayInfo saves the replay server info to ~/.hirewire/replay.yaml.
func SaveReplayInfo(info *models.ReplayInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := ReplayFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveReplayInfo removes replay.yaml. A missing file is not an error.
func RemoveReplayInfo() error {
	path, err := ReplayFile()
	if err != nil {
		return err
	}
	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsReplayRunning reports whether replay.yaml exists and its process is alive.
// A stale file is removed.
func IsReplayRunning() (bool, *models.ReplayInfo, error) {
	info, err := LoadReplayInfo()
	if err != nil || info == nil {
		return false, nil, err
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return false, info, nil
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemoveReplayInfo()
		return false, info, nil
	}
	return true, info, nil
}
