// Package eventlog records tally activity in an append-only SQLite log
// (events.db in the patterns directory): outcomes recorded, suggestions and
// predictions served, migrations run. The CLI's logs command and the
// dashboard's activity pane read it back through Reader.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBName is the event log file inside the patterns directory.
const DBName = "events.db"

// Event type constants.
const (
	TypeOutcome    = "outcome_recorded"
	TypeSuggestion = "suggestion_served"
	TypePrediction = "prediction_served"
	TypeFeedback   = "feedback_recorded"
	TypeAssessment = "assessment_recorded"
	TypeMigration  = "migration_run"
)

// schemaDDL creates the events table. Idempotent.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	type        TEXT NOT NULL,
	agent       TEXT NOT NULL DEFAULT '',
	task_type   TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
CREATE INDEX IF NOT EXISTS idx_events_agent ON events(agent);
`

// Event is a single row from the log.
type Event struct {
	ID          int64
	Type        string
	Agent       string
	TaskType    string
	Fingerprint string
	Payload     string
	CreatedAt   time.Time
}

// Log is an append handle on the event database.
type Log struct {
	db *sql.DB
}

// DBPath returns the event database path for a patterns directory.
func DBPath(patternsDir string) string {
	return filepath.Join(patternsDir, DBName)
}

// Open opens (creating if needed) the event database with WAL journal mode
// and a 5-second busy timeout, then ensures the schema exists.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create events schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close releases the database connection. Safe to call multiple times.
func (l *Log) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// AppendParams describes one event to record.
type AppendParams struct {
	Type        string
	Agent       string
	TaskType    string
	Fingerprint string
	Payload     string
}

// Append inserts one event. Returns the event ID.
func (l *Log) Append(ctx context.Context, p AppendParams) (int64, error) {
	if p.Type == "" {
		return 0, fmt.Errorf("append event: empty type")
	}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO events (type, agent, task_type, fingerprint, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Type, p.Agent, p.TaskType, p.Fingerprint, p.Payload,
	)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event id: %w", err)
	}
	return id, nil
}

// Count returns the total number of logged events.
func (l *Log) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
