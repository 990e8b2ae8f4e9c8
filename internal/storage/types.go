package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// LoadEntry records one playlist load and its validation outcome.
// Keep it compact and schema-stable.
type LoadEntry struct {
	At       time.Time
	Date     string
	Source   string
	Modified string
	Items    int
	Filler   bool
	Length   float64 // seconds of effective program time
	Errors   int
	Warnings int
	TookMS   int64
}
