package state

import "github.com/hirewire/hirewire/internal/models"

// AppendLog stamps in with a fresh id and the current time and inserts it at the head of the feed.
func (s *Store) AppendLog(in models.LogInput) models.LogEntry {
	entry := models.LogEntry{
		ID:          s.newID(),
		Timestamp:   s.now(),
		Icon:        in.Icon,
		Agent:       in.Agent,
		Title:       in.Title,
		Description: in.Description,
		Thought:     in.Thought,
		Status:      in.Status,
		Duration:    in.Duration,
		Tokens:      in.Tokens,
	}

	s.mu.Lock()
	// Keep the head monotonic even if the wall clock steps backwards.
	if len(s.feed) > 0 && entry.Timestamp.Before(s.feed[0].Timestamp) {
		entry.Timestamp = s.feed[0].Timestamp
	}
	feed := make([]models.LogEntry, 0, len(s.feed)+1)
	feed = append(feed, entry)
	feed = append(feed, s.feed...)
	if s.maxEntries > 0 && len(feed) > s.maxEntries {
		feed = feed[:s.maxEntries]
	}
	s.feed = feed
	s.mu.Unlock()

	if s.onLog != nil {
		s.onLog(LogEvent{Kind: LogAppended, Entry: entry})
	}
	s.notify()
	return entry
}

// PatchLastLogForAgent sets the status of the newest entry belonging to agent.
// It reports whether an entry was found; a miss is not an error.
func (s *Store) PatchLastLogForAgent(agent models.AgentName, status models.LogStatus) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.feed {
		if s.feed[i].Agent == agent {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.feed[idx].Status = status
	patched := s.feed[idx]
	s.mu.Unlock()

	if s.onLog != nil {
		s.onLog(LogEvent{Kind: LogPatched, Entry: patched})
	}
	s.notify()
	return true
}

// Feed returns a copy of the log feed, newest first.
func (s *Store) Feed() []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LogEntry(nil), s.feed...)
}

// FeedLen returns the number of entries in the log feed.
func (s *Store) FeedLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feed)
}
