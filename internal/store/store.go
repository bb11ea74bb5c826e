// Package store persists above-threshold noise events in a local SQLite
// database so loud intervals survive restarts and can be inspected later.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sweeney/noise-meter/internal/logic"
)

// Event is one stored noise event.
type Event struct {
	ID        int64
	Timestamp time.Time
	Decibels  float64
}

// Store records window peaks that reached the minimum noise level.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and runs the
// schema migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open events db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate events db: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS noise_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			decibels    REAL NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records one noise event.
func (s *Store) Insert(peak logic.Peak) error {
	_, err := s.db.Exec(
		"INSERT INTO noise_events (recorded_at, decibels) VALUES (?, ?)",
		peak.Timestamp.UTC().Format(time.RFC3339Nano), peak.Decibels,
	)
	if err != nil {
		return fmt.Errorf("insert noise event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	rows, err := s.db.Query(
		"SELECT id, recorded_at, decibels FROM noise_events ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query noise events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Decibels); err != nil {
			return nil, fmt.Errorf("scan noise event: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the total number of stored events.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM noise_events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count noise events: %w", err)
	}
	return n, nil
}
