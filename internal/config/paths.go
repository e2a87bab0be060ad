// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global hirewire directory.
	GlobalDirName = ".hirewire"

	// HomeEnv overrides the global directory location.
	HomeEnv = "HIREWIRE_HOME"

	// ExportsDirName is the name of the directory holding exported feeds.
	ExportsDirName = "exports"
)

// File names
const (
	SettingsFileName   = "settings.yaml"
	CredentialFileName = "token"
	JournalFileName    = "journal.db"
	LogFileName        = "hirewire.log"
)

// GlobalDir returns the path to the global directory (~/.hirewire/ unless HIREWIRE_HOME is set).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalPath(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalPath(SettingsFileName)
}

// CredentialFile returns the path to the stored bearer token.
func CredentialFile() (string, error) {
	return globalPath(CredentialFileName)
}

// JournalFile returns the path to the SQLite feed journal.
func JournalFile() (string, error) {
	return globalPath(JournalFileName)
}

// LogFile returns the path the TUI redirects process logging to.
func LogFile() (string, error) {
	return globalPath(LogFileName)
}

// ExportsDir returns the path to the exported feeds directory.
func ExportsDir() (string, error) {
	return globalPath(ExportsDirName)
}

// EnsureGlobalDir creates the global directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}
