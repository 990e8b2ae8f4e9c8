// Package validate runs the structural and timing checks over a loaded
// playlist. It always operates on an owned copy handed over by the
// dispatcher, so it never touches the playlist the player is walking.
package validate

import (
	"context"
	"os"

	"playout/internal/clock"
	"playout/internal/playlist"
	logx "playout/pkg/logx"
)

type Config struct {
	// DayLength is the expected program length in seconds.
	DayLength float64
}

// Report summarizes one validation run.
type Report struct {
	Date     string
	Errors   int
	Warnings int
	Length   float64
	Canceled bool
}

// Playlist checks every item for playable content and consistent timing.
// Cancellation is observed between items; a canceled run returns a partial
// report with Canceled set.
func Playlist(ctx context.Context, pl *playlist.Playlist, cfg Config, log logx.Logger) Report {
	if log.IsZero() {
		log = logx.Nop()
	}
	rep := Report{Date: pl.Date}

	if len(pl.Program) == 0 {
		log.Error("playlist has no program", logx.String("date", pl.Date))
		rep.Errors++
		return rep
	}
	if pl.Filler {
		log.Warn("validating filler playlist; real source was unavailable",
			logx.String("date", pl.Date), logx.String("source", pl.CurrentFile))
		rep.Warnings++
	}

	begin := pl.StartSec
	for i := range pl.Program {
		select {
		case <-ctx.Done():
			rep.Canceled = true
			log.Debug("playlist validation canceled",
				logx.String("date", pl.Date), logx.Int("checked", i))
			return rep
		default:
		}

		item := &pl.Program[i]
		pos := clock.SecondsToTime(item.Begin)

		if item.Source == "" && !pl.Filler {
			log.Error("item has no source", logx.String("date", pl.Date),
				logx.Int("index", i), logx.String("begin", pos))
			rep.Errors++
		} else if item.Source != "" && !playlist.IsRemote(item.Source) {
			if _, err := os.Stat(item.Source); err != nil {
				log.Error("item source missing", logx.String("date", pl.Date),
					logx.Int("index", i), logx.String("source", item.Source))
				rep.Errors++
			}
		}

		if item.Seek >= item.Out {
			log.Error("item plays nothing (seek >= out)", logx.String("date", pl.Date),
				logx.Int("index", i), logx.Float64("seek", item.Seek), logx.Float64("out", item.Out))
			rep.Errors++
		}
		if item.Duration > 0 && item.Out > item.Duration {
			log.Warn("item out point past clip duration", logx.String("date", pl.Date),
				logx.Int("index", i), logx.Float64("out", item.Out), logx.Float64("duration", item.Duration))
			rep.Warnings++
		}
		if item.Begin != begin {
			log.Error("item begin breaks timing continuity", logx.String("date", pl.Date),
				logx.Int("index", i), logx.Float64("begin", item.Begin), logx.Float64("expected", begin))
			rep.Errors++
		}

		begin += item.Out - item.Seek
		rep.Length += item.Out - item.Seek
	}

	if cfg.DayLength > 0 && rep.Length < cfg.DayLength && !pl.Filler {
		log.Warn("playlist is shorter than the broadcast day",
			logx.String("date", pl.Date),
			logx.String("length", clock.SecondsToTime(rep.Length)),
			logx.String("expected", clock.SecondsToTime(cfg.DayLength)),
		)
		rep.Warnings++
	}

	if rep.Errors == 0 {
		log.Info("playlist validated", logx.String("date", pl.Date),
			logx.String("length", clock.SecondsToTime(rep.Length)), logx.Int("warnings", rep.Warnings))
	}
	return rep
}
