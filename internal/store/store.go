package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	start_time TEXT,
	end_time TEXT,
	activity_name TEXT
)`

// ErrNotEmpty is returned by Restore when the store already holds rows.
var ErrNotEmpty = errors.New("store is not empty")

// Store is the append-only activity log backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	log  logrus.FieldLogger

	// mu serializes inserts from concurrent trackers in one process.
	mu sync.Mutex
}

// ReadResult is the outcome of a full-table scan.
type ReadResult struct {
	Events  []activity.Event
	Skipped int // rows whose timestamps could not be parsed
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path, log: log.WithField("store", path)}, nil
}

// WithStore opens the store, runs fn and closes the store on every path.
func WithStore(ctx context.Context, path string, log logrus.FieldLogger, fn func(*Store) error) (err error) {
	s, err := Open(ctx, path, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Append writes one completed interval. Inverted intervals and empty
// labels are rejected.
func (s *Store) Append(ctx context.Context, e activity.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("append: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities (start_time, end_time, activity_name) VALUES (?, ?, ?)",
		activity.FormatTime(e.Start), activity.FormatTime(e.End), e.Label)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// All returns every row in insertion order. Rows with unparseable
// timestamps are skipped and counted rather than failing the scan.
func (s *Store) All(ctx context.Context) (ReadResult, error) {
	var res ReadResult

	rows, err := s.db.QueryContext(ctx,
		"SELECT start_time, end_time, activity_name FROM activities ORDER BY rowid")
	if err != nil {
		return res, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var start, end, label sql.NullString
		if err := rows.Scan(&start, &end, &label); err != nil {
			return res, fmt.Errorf("scan activity: %w", err)
		}

		st, serr := activity.ParseTime(start.String)
		et, eerr := activity.ParseTime(end.String)
		if serr != nil || eerr != nil {
			res.Skipped++
			s.log.WithFields(logrus.Fields{
				"start_time": start.String,
				"end_time":   end.String,
				"label":      label.String,
			}).Warn("skipping malformed activity row")
			continue
		}

		res.Events = append(res.Events, activity.Event{Start: st, End: et, Label: label.String})
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("read activities: %w", err)
	}

	return res, nil
}

// Count returns the number of stored rows, malformed ones included.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return n, nil
}

// Restore bulk-loads events from a backup into an empty store inside one
// transaction. Rows are written as-is, so legacy inverted intervals survive
// a backup round trip.
func (s *Store) Restore(ctx context.Context, events []activity.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return 0, fmt.Errorf("restore into %s: %w (%d rows)", s.path, ErrNotEmpty, n)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO activities (start_time, end_time, activity_name) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare restore: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, activity.FormatTime(e.Start), activity.FormatTime(e.End), e.Label); err != nil {
			return 0, fmt.Errorf("restore activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit restore: %w", err)
	}
	return len(events), nil
}
