package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/noise-meter/internal/logic"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreInsertAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, db := range []float64{48.2, 55.0, 71.3} {
		err := s.Insert(logic.Peak{
			Timestamp: base.Add(time.Duration(i) * 10 * time.Second),
			Decibels:  db,
		})
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	events, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events: got %d, want 3", len(events))
	}

	// Newest first.
	if events[0].Decibels != 71.3 {
		t.Errorf("events[0]: got %v dB, want 71.3", events[0].Decibels)
	}
	if events[2].Decibels != 48.2 {
		t.Errorf("events[2]: got %v dB, want 48.2", events[2].Decibels)
	}
	if !events[2].Timestamp.Equal(base) {
		t.Errorf("events[2] timestamp: got %v, want %v", events[2].Timestamp, base)
	}
}

func TestStoreRecentLimit(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		if err := s.Insert(logic.Peak{Timestamp: now, Decibels: float64(i)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	events, err := s.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events: got %d, want 2", len(events))
	}
}

func TestStoreRecentEmpty(t *testing.T) {
	s := openTestStore(t)

	events, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events: got %d, want 0", len(events))
	}
}

func TestStoreCount(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count: got %d, want 0", n)
	}

	s.Insert(logic.Peak{Timestamp: time.Now(), Decibels: 50})
	s.Insert(logic.Peak{Timestamp: time.Now(), Decibels: 60})

	n, err = s.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestStoreReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Insert(logic.Peak{Timestamp: time.Now(), Decibels: 66.6}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	n, err := s.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count after reopen: got %d, want 1", n)
	}
}
