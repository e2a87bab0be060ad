package cli

import (
	"fmt"
	"log"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/config"
	"github.com/hirewire/hirewire/internal/journal"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/session"
)

// connectOptions selects the optional parts of a CLI session.
type connectOptions struct {
	notify    bool
	watch     bool
	noJournal bool
	onState   func(channel.State)
}

// openSession builds a session from the global settings, credential and journal.
// The returned cleanup closes the journal.
func openSession(opts connectOptions) (*session.Session, func(), error) {
	if err := config.EnsureGlobalDir(); err != nil {
		return nil, nil, fmt.Errorf("failed to create global directory: %w", err)
	}

	settings, err := loadEffectiveSettings()
	if err != nil {
		return nil, nil, err
	}

	token, err := config.LoadCredential()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var j *journal.Journal
	if settings.Journal.Enabled && !flagNoJournal && !opts.noJournal {
		path, err := config.JournalFile()
		if err != nil {
			return nil, nil, err
		}
		j, err = journal.Open(path)
		if err != nil {
			// History is optional; the live view still works without it.
			log.Printf("[cli] Journal unavailable: %v", err)
			j = nil
		} else {
			cleanup = func() { _ = j.Close() }
		}
	}

	var watchDir string
	if opts.watch {
		if watchDir, err = config.GlobalDir(); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	s, err := session.New(session.Options{
		Settings:   settings,
		Credential: token,
		Journal:    j,
		WatchDir:   watchDir,
		Notify:     opts.notify && settings.Notifications.Approvals,
		OnState:    opts.onState,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to start session: %w", err)
	}
	return s, cleanup, nil
}

// loadEffectiveSettings applies --url or --replay on top of settings.yaml and the environment.
func loadEffectiveSettings() (*models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	url := flagURL
	if flagReplay {
		if url != "" {
			return nil, fmt.Errorf("--url and --replay cannot be used together")
		}
		running, info, err := config.IsReplayRunning()
		if err != nil {
			return nil, fmt.Errorf("failed to check replay server: %w", err)
		}
		if !running {
			return nil, fmt.Errorf("no replay server running; start hirewire-replay first")
		}
		url = info.URL()
	}
	if url != "" {
		if err := config.SetSetting(settings, "server.url", url); err != nil {
			return nil, err
		}
	}
	return settings, nil
}
