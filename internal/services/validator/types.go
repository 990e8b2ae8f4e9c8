package validator

import (
	"time"

	"playout/internal/playlist"
)

// Config controls the validator service.
type Config struct {
	Enabled   bool
	Workers   int
	QueueSize int
	// DayLength is the expected program length in seconds (from
	// playlist.length in the config).
	DayLength float64
}

type job struct {
	pl         *playlist.Playlist
	enqueuedAt time.Time
}
