// Package history persists an append-only record of dispatches to
// sqlite so operators can review what the dispatcher routed and how each
// agent responded.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/hxcode/nativeos/pkg/dispatch"
)

// maxBodyBytes caps the stored body excerpt; agent output can be large
// and the history exists for review, not replay.
const maxBodyBytes = 4096

// Entry is one recorded dispatch.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	AgentID   string    `json:"agent_id"`
	Rule      string    `json:"rule"`
	ExitCode  int       `json:"exit_code"`
	Succeeded bool      `json:"succeeded"`
	Body      string    `json:"body"`
}

// Store is a sqlite-backed dispatch history. It implements
// dispatch.Recorder.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Config holds store configuration.
type Config struct {
	// DBPath is the sqlite database file
	DBPath string

	Logger zerolog.Logger
}

// New opens (or creates) the history database.
func New(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode so concurrent sessions can append without blocking reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{
		db:     db,
		logger: cfg.Logger.With().Str("component", "history").Logger(),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS dispatches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts INTEGER NOT NULL,
			input TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			rule TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			body TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_dispatches_ts ON dispatches(ts);
		CREATE INDEX IF NOT EXISTS idx_dispatches_agent ON dispatches(agent_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record appends one dispatch record.
func (s *Store) Record(ctx context.Context, rec dispatch.Record) error {
	body := rec.Body
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dispatches (ts, input, agent_id, rule, exit_code, succeeded, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UnixMilli(), rec.Input, rec.AgentID, rec.Rule,
		rec.ExitCode, boolToInt(rec.Succeeded), body)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}

	s.logger.Debug().
		Str("agent_id", rec.AgentID).
		Bool("succeeded", rec.Succeeded).
		Msg("Dispatch recorded")

	return nil
}

// Recent returns the latest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, input, agent_id, rule, exit_code, succeeded, body
		 FROM dispatches ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var succeeded int
		if err := rows.Scan(&e.ID, &ts, &e.Input, &e.AgentID, &e.Rule, &e.ExitCode, &succeeded, &e.Body); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Succeeded = succeeded != 0
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
