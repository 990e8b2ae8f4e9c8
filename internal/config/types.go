package config

import (
	"playout/internal/clock"
)

type Config struct {
	Channel  ChannelConfig  `json:"channel"`
	Playlist PlaylistConfig `json:"playlist"`
	Logging  LoggingConfig  `json:"logging"`

	// Validator controls the background validation worker pool.
	Validator ValidatorConfig `json:"validator"`

	// Watcher controls reload-on-change for the current playlist file.
	Watcher WatcherConfig `json:"watcher"`

	Storage *StorageConfig `json:"storage,omitempty"`

	Pprof *PprofConfig `json:"pprof,omitempty"`
}

type ChannelConfig struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"` // IANA TZ; empty = local
}

// PlaylistConfig points at the playlist source and fixes the broadcast day.
//
// Path may be:
//   - a directory: per-day files are expected at path/YYYY/MM/YYYY-MM-DD.json
//   - a single file: used for every day
//   - an http(s) URL: fetched per load
type PlaylistConfig struct {
	Path string `json:"path"`

	// DayStart is "HH:MM:SS"; the absolute time of day at which the
	// program begins. Empty means midnight.
	DayStart string `json:"day_start,omitempty"`

	// Length is "HH:MM:SS"; the expected program length of one day.
	// Empty means 24:00:00.
	Length string `json:"length,omitempty"`
}

// StartSec returns DayStart as seconds since midnight.
func (p PlaylistConfig) StartSec() (float64, error) {
	if p.DayStart == "" {
		return 0, nil
	}
	return clock.TimeToSeconds(p.DayStart)
}

// LengthSec returns Length as seconds; the default is a full day.
func (p PlaylistConfig) LengthSec() (float64, error) {
	if p.Length == "" {
		return clock.SecondsPerDay, nil
	}
	return clock.TimeToSeconds(p.Length)
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// ValidatorConfig controls the background validation service.
//
// Defaults (when fields are omitted/zero):
//   - workers: 1
//   - queue_size: 8
type ValidatorConfig struct {
	Enabled   bool `json:"enabled"`
	Workers   int  `json:"workers,omitempty"`
	QueueSize int  `json:"queue_size,omitempty"`
}

// WatcherConfig controls reload-on-change.
//
// Debounce is a Go duration string (e.g. "250ms").
type WatcherConfig struct {
	Enabled   bool   `json:"enabled"`
	Debounce  string `json:"debounce,omitempty"`
	MaxPerMin int    `json:"max_per_min,omitempty"`
}

// StorageConfig controls the optional load-history store.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./playout_history" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// PprofConfig controls the optional profiling HTTP server.
// A non-loopback addr requires token.
type PprofConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"`
	Token   string `json:"token,omitempty"`
}
