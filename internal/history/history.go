// Package history keeps a local SQLite record of bundle sizes reported by
// past runs, so that size trends can be inspected with "bundlestats history".
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Filename is the database file created in the history directory.
const Filename = "bundle-stats.db"

// DefaultLimit is the number of entries List returns for a non-positive limit.
const DefaultLimit = 20

// timeLayout stores created_at with a fixed-width fraction so that the text
// column sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrInvalidEntry is returned by Record for an entry without run id.
var ErrInvalidEntry = errors.New("history entry has no run id")

// Entry is one recorded run.
type Entry struct {
	ID         int64
	RunID      string
	Repository string
	SHA        string

	// TotalSize is the total bundle size in bytes.
	TotalSize int64

	// Summary is the text summary posted as commit status.
	Summary string

	CreatedAt time.Time
}

// Store is the history database.
//
// Design decision: one database per machine (or runner cache) with a single
// table keyed by run id. Different actions in a repository are told apart
// by their run id, the same value used as commit status context.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	path := filepath.Join(dir, Filename)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		repository TEXT NOT NULL DEFAULT '',
		sha TEXT NOT NULL DEFAULT '',
		total_size INTEGER NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id, created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Record stores e and returns its id. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.RunID == "" {
		return 0, ErrInvalidEntry
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO runs (run_id, repository, sha, total_size, summary, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.RunID,
		e.Repository,
		e.SHA,
		e.TotalSize,
		e.Summary,
		e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the latest entries, newest first. An empty runID lists all
// runs.
func (s *Store) List(ctx context.Context, runID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
	SELECT id, run_id, repository, sha, total_size, summary, created_at
	FROM runs
	WHERE (? = '' OR run_id = ?)
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, runID, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Repository, &e.SHA, &e.TotalSize, &e.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}
