// Package watcher watches the hirewire home directory for credential and settings changes.
package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hirewire/hirewire/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventCredentialChanged EventType = iota
	EventCredentialRemoved
	EventSettingsChanged
)

func (t EventType) String() string {
	switch t {
	case EventCredentialChanged:
		return "credential_changed"
	case EventCredentialRemoved:
		return "credential_removed"
	case EventSettingsChanged:
		return "settings_changed"
	}
	return "unknown"
}

// DefaultDebounce is the quiet period before a burst of events on one path is reported.
const DefaultDebounce = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the hirewire home directory.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dir        string
	delay      time.Duration
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher for dir. A zero delay selects DefaultDebounce.
func New(dir string, delay time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		dir:        filepath.Clean(dir),
		delay:      delay,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start begins watching. The directory must exist.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}
	log.Printf("[watcher] Watching %s", w.dir)
	go w.processEvents()
	return nil
}

// Stop stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] Error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Atomic saves land as a Rename onto the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if filepath.Dir(event.Name) != w.dir {
		return
	}
	switch filepath.Base(event.Name) {
	case config.CredentialFileName, config.SettingsFileName:
	default:
		return
	}

	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange classifies a settled path by its current state on disk,
// since the last raw op in a burst is not reliable (rename-then-create).
func (w *Watcher) processFileChange(path string) {
	var ev Event
	switch filepath.Base(path) {
	case config.CredentialFileName:
		ev = Event{Type: EventCredentialChanged, Path: path}
		if !config.FileExists(path) {
			ev.Type = EventCredentialRemoved
		}
	case config.SettingsFileName:
		ev = Event{Type: EventSettingsChanged, Path: path}
	default:
		return
	}

	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}
