// Package journal keeps a durable history of log feed entries across sessions.
package journal

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	server_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entries (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	ts          INTEGER NOT NULL,
	icon        TEXT NOT NULL DEFAULT '',
	agent       TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	thought     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	duration    TEXT NOT NULL DEFAULT '',
	tokens      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts);
CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id, ts);
`

// Session is one recorded operator session.
type Session struct {
	ID        string
	StartedAt time.Time
	ServerURL string
	Entries   int
}

// Entry is a journaled log entry with the session it belongs to.
type Entry struct {
	SessionID string
	models.LogEntry
}

// Journal is a SQLite-backed store of log feed history.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// A single connection keeps PRAGMAs and writes on one handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure journal (%s): %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartSession records a new session.
func (j *Journal) StartSession(id, serverURL string, at time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO sessions (id, started_at, server_url) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, at.UnixMilli(), serverURL,
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// Append stores a new entry.
func (j *Journal) Append(sessionID string, e models.LogEntry) error {
	_, err := j.db.Exec(
		`INSERT INTO entries (id, session_id, ts, icon, agent, title, description, thought, status, duration, tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, sessionID, e.Timestamp.UnixMilli(), e.Icon, string(e.Agent), e.Title,
		e.Description, e.Thought, string(e.Status), e.Duration, e.Tokens,
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// UpdateStatus patches the status of a stored entry. A missing id is not an error.
func (j *Journal) UpdateStatus(id string, status models.LogStatus) error {
	if _, err := j.db.Exec(`UPDATE entries SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	return nil
}

// Recent returns up to limit entries across all sessions, newest first.
// A limit of 0 or less returns everything.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	query := `SELECT id, session_id, ts, icon, agent, title, description, thought, status, duration, tokens
		FROM entries ORDER BY ts DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return j.queryEntries(query, args...)
}

// SessionEntries returns every entry of one session, newest first.
func (j *Journal) SessionEntries(sessionID string) ([]Entry, error) {
	return j.queryEntries(
		`SELECT id, session_id, ts, icon, agent, title, description, thought, status, duration, tokens
		 FROM entries WHERE session_id = ? ORDER BY ts DESC, rowid DESC`,
		sessionID,
	)
}

func (j *Journal) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e             Entry
			ts            int64
			agent, status string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &ts, &e.Icon, &agent, &e.Title,
			&e.Description, &e.Thought, &status, &e.Duration, &e.Tokens); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Agent = models.AgentName(agent)
		e.Status = models.LogStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return out, nil
}

// Sessions returns up to limit sessions, newest first, with their entry counts.
func (j *Journal) Sessions(limit int) ([]Session, error) {
	query := `SELECT s.id, s.started_at, s.server_url, COUNT(e.id)
		FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Session
	for rows.Next() {
		var (
			s  Session
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.ServerURL, &s.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartedAt = time.UnixMilli(ts)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return out, nil
}

// Hook returns a state.Options.OnLog callback that mirrors feed mutations of
// one session into the journal. Resets clear the live feed only; history is kept.
func (j *Journal) Hook(sessionID string) func(state.LogEvent) {
	return func(ev state.LogEvent) {
		var err error
		switch ev.Kind {
		case state.LogAppended:
			err = j.Append(sessionID, ev.Entry)
		case state.LogPatched:
			err = j.UpdateStatus(ev.Entry.ID, ev.Entry.Status)
		}
		if err != nil {
			log.Printf("[journal] %v", err)
		}
	}
}
