// Package stats keeps a history of exports in SQLite.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		build TEXT NOT NULL DEFAULT '',
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		encoder TEXT NOT NULL DEFAULT '',
		steps INTEGER NOT NULL,
		frames INTEGER NOT NULL,
		mediaSeconds REAL NOT NULL,
		elapsedSeconds REAL NOT NULL,
		peakRSS INTEGER NOT NULL,
		createdAt REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_created ON runs(createdAt);
`

// Kind names the export that produced a run.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Run is one finished export.
type Run struct {
	ID        string
	Kind      Kind
	Build     string
	Input     string
	Output    string
	Encoder   string
	Steps     int
	Frames    int
	Media     time.Duration // length of the produced media; zero for images
	Elapsed   time.Duration // wall time of the export
	PeakRSS   uint64
	CreatedAt time.Time
}

// FPS is the effective render rate of the run.
func (r Run) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Store records runs.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the history database under the user config dir.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "table2video", "history.sqlite")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, build, input, output, encoder, steps, frames,
			mediaSeconds, elapsedSeconds, peakRSS, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.Kind), r.Build, r.Input, r.Output, r.Encoder, r.Steps, r.Frames,
		r.Media.Seconds(), r.Elapsed.Seconds(), int64(r.PeakRSS), unixSeconds(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, build, input, output, encoder, steps, frames,
			mediaSeconds, elapsedSeconds, peakRSS, createdAt
		FROM runs
		ORDER BY createdAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var kind string
		var media, elapsed, createdAt float64
		var rss int64
		if err := rows.Scan(&r.ID, &kind, &r.Build, &r.Input, &r.Output, &r.Encoder,
			&r.Steps, &r.Frames, &media, &elapsed, &rss, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Kind = Kind(kind)
		r.Media = secondsToDuration(media)
		r.Elapsed = secondsToDuration(elapsed)
		r.PeakRSS = uint64(rss)
		r.CreatedAt = timeFromUnix(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
