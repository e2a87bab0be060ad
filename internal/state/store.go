// Package state holds the observability tables derived from workflow events:
// the agent status table, the log feed, workflow tracking and the job stream.
//
// The dispatcher is the only writer. Readers get deep-copied snapshots and may
// observe a newer mutation on every read.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hirewire/hirewire/internal/models"
)

// LogEventKind identifies a change to the log feed reported through Options.OnLog.
type LogEventKind int

const (
	LogAppended LogEventKind = iota
	LogPatched
	LogCleared
)

// LogEvent describes one log feed mutation.
type LogEvent struct {
	Kind  LogEventKind
	Entry models.LogEntry // zero for LogCleared
}

// Options configures a Store.
type Options struct {
	// MaxEntries caps the log feed; the oldest entries are evicted first. 0 = unbounded.
	MaxEntries int

	// OnLog is called after every log feed mutation, outside the store lock.
	OnLog func(LogEvent)

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Store owns the agent status table, log feed, workflow tracking and job stream.
type Store struct {
	mu         sync.RWMutex
	agents     map[models.AgentName]models.AgentStatusRecord
	feed       []models.LogEntry // index 0 is the newest
	maxEntries int
	active     models.AgentName
	completed  []models.AgentName
	connected  bool
	jobs       *models.JobStream

	onLog func(LogEvent)
	now   func() time.Time
	newID func() string

	subsMu sync.Mutex
	subs   map[string]chan struct{}
}

// New creates a store with every agent at its default record.
func New(opts Options) *Store {
	s := &Store{
		maxEntries: opts.MaxEntries,
		onLog:      opts.OnLog,
		now:        opts.Now,
		newID:      opts.NewID,
		subs:       make(map[string]chan struct{}),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if s.maxEntries < 0 {
		s.maxEntries = 0
	}
	s.agents = defaultAgents()
	return s
}

func defaultAgents() map[models.AgentName]models.AgentStatusRecord {
	agents := make(map[models.AgentName]models.AgentStatusRecord)
	for _, name := range models.AllAgents() {
		agents[name] = models.NewAgentStatusRecord(name)
	}
	return agents
}

// SetStatus shallow-merges update into the agent's record.
func (s *Store) SetStatus(agent models.AgentName, update models.AgentUpdate) {
	s.mu.Lock()
	rec, ok := s.agents[agent]
	if !ok {
		rec = models.NewAgentStatusRecord(agent)
	}
	rec.Merge(update)
	s.agents[agent] = rec
	s.mu.Unlock()
	s.notify()
}

// SetActiveAgent records which agent the workflow is currently running.
func (s *Store) SetActiveAgent(agent models.AgentName) {
	s.mu.Lock()
	s.active = agent
	s.mu.Unlock()
	s.notify()
}

// MarkCompleted adds agent to the completed-node collection. Repeats are ignored.
func (s *Store) MarkCompleted(agent models.AgentName) {
	s.mu.Lock()
	for _, a := range s.completed {
		if a == agent {
			s.mu.Unlock()
			return
		}
	}
	s.completed = append(s.completed, agent)
	s.mu.Unlock()
	s.notify()
}

// SetConnected sets the logical session flag shown to the operator.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	changed := s.connected != connected
	s.connected = connected
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// ResetAll restores every agent to its default record and clears the log feed,
// workflow tracking and the job stream.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.agents = defaultAgents()
	s.feed = nil
	s.active = ""
	s.completed = nil
	s.jobs = nil
	s.mu.Unlock()

	if s.onLog != nil {
		s.onLog(LogEvent{Kind: LogCleared})
	}
	s.notify()
}

// Agent returns a snapshot of one agent's record.
func (s *Store) Agent(agent models.AgentName) models.AgentStatusRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.agents[agent]
	if !ok {
		return models.NewAgentStatusRecord(agent)
	}
	return rec.Clone()
}

// Agents returns snapshots of all records in display order.
func (s *Store) Agents() []models.AgentStatusRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AgentStatusRecord, 0, len(s.agents))
	for _, name := range models.AllAgents() {
		out = append(out, s.agents[name].Clone())
	}
	return out
}

// ActiveAgent returns the agent most recently marked active, or "".
func (s *Store) ActiveAgent() models.AgentName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// CompletedNodes returns the agents marked completed, in the order they completed.
func (s *Store) CompletedNodes() []models.AgentName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AgentName(nil), s.completed...)
}

// IsCompleted reports whether agent is in the completed-node collection.
func (s *Store) IsCompleted(agent models.AgentName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.completed {
		if a == agent {
			return true
		}
	}
	return false
}

// Connected reports whether the server has acknowledged the current session.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Subscribe registers a change listener. The returned channel receives a value after
// mutations; bursts are coalesced into a single notification.
func (s *Store) Subscribe(id string) <-chan struct{} {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch
}

// Unsubscribe removes a change listener and closes its channel.
func (s *Store) Unsubscribe(id string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
