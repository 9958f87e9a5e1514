// Package storage provides SQLite-based persistence for the local run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run outcomes.
const (
	OutcomeFinished = "finished" // the authority sent a goal message
	OutcomeQuit     = "quit"
)

// Store manages the SQLite database connection for the run history.
type Store struct {
	db *sql.DB
}

// Run is one client session against an authority. It is a record for the
// player only; nothing in it is ever fed back into a session.
type Run struct {
	ID          string
	Server      string
	User        string
	StartedAt   time.Time
	EndedAt     time.Time
	Outcome     string
	GoalMessage string
	Polls       int
	Dropped     int
	Failures    int
	Commands    int
}

// Duration returns how long the run lasted.
func (r Run) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			server TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			goal_message TEXT NOT NULL DEFAULT '',
			polls INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			commands INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_server ON runs(server);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run. Saving the same ID again replaces the record.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	if r.ID == "" {
		return fmt.Errorf("storage: run has no id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
		 (id, server, username, started_at, ended_at, outcome, goal_message, polls, dropped, failures, commands)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Server, r.User,
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(),
		r.Outcome, r.GoalMessage,
		r.Polls, r.Dropped, r.Failures, r.Commands,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, server, username, started_at, ended_at, outcome, goal_message,
		        polls, dropped, failures, commands
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			started, ended int64
		)
		if err := rows.Scan(
			&r.ID, &r.Server, &r.User, &started, &ended, &r.Outcome, &r.GoalMessage,
			&r.Polls, &r.Dropped, &r.Failures, &r.Commands,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		if ended > 0 {
			r.EndedAt = time.UnixMilli(ended)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunStats contains aggregated statistics for one server.
type RunStats struct {
	Server   string
	Runs     int
	Finished int
	Polls    int64
	Failures int64
}

// StatsByServer aggregates the history per authority address.
func (s *Store) StatsByServer(ctx context.Context) ([]RunStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT server, COUNT(*), COALESCE(SUM(outcome = ?), 0), COALESCE(SUM(polls), 0), COALESCE(SUM(failures), 0)
		 FROM runs
		 GROUP BY server
		 ORDER BY server`,
		OutcomeFinished,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	defer rows.Close()

	var stats []RunStats
	for rows.Next() {
		var st RunStats
		if err := rows.Scan(&st.Server, &st.Runs, &st.Finished, &st.Polls, &st.Failures); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes the whole history.
func (s *Store) ClearRuns(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
