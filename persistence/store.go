// Package persistence provides SQLite-based run history for TikTok automation.
// Only run settings and counters are stored, never the harvested links.
package persistence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBPath = "tiktok_automation.db"
)

// Store handles all persistence operations using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new persistence store
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initTables creates all required tables
func (s *Store) initTables() error {
	tables := []string{
		// One row per run
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search_query TEXT NOT NULL,
			skip_percent INTEGER NOT NULL,
			max_videos INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'in_progress',
			total INTEGER DEFAULT 0,
			watched INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			error_message TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)`,

		// Daily stats table
		`CREATE TABLE IF NOT EXISTS daily_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date DATE UNIQUE NOT NULL,
			runs INTEGER DEFAULT 0,
			videos_watched INTEGER DEFAULT 0,
			videos_skipped INTEGER DEFAULT 0,
			videos_failed INTEGER DEFAULT 0
		)`,
	}

	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
	}

	for _, idx := range indexes {
		if _, err := s.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Transaction executes a function within a database transaction
func (s *Store) Transaction(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// dateOf returns the day of t in YYYY-MM-DD format
func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
