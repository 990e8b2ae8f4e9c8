package app

import (
	"context"
	"strings"

	"playout/internal/config"
	"playout/internal/playlist"
	"playout/internal/services/scheduler"
	"playout/internal/services/validator"
	logx "playout/pkg/logx"
)

// configLoop applies hot config reloads published by the config manager.
func (a *App) configLoop(ctx context.Context, sub chan *config.Config) {
	// Track last applied config to generate a safe diff summary for logging.
	lastApplied := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config in the channel.
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
				default:
					goto APPLY
				}
			}
		APPLY:
			sections, attrs := config.SummarizeConfigChange(lastApplied, newCfg)
			if len(sections) > 0 {
				a.log.Debug("config change summary",
					append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)...)
			} else {
				a.log.Debug("config reload received, but no effective changes detected")
			}
			lastApplied = newCfg

			a.applyConfig(ctx, newCfg)
		}
	}
}

func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	// Values were validated before publish; errors here cannot happen.
	startSec, err := cfg.Playlist.StartSec()
	if err != nil {
		return
	}
	lengthSec, err := cfg.Playlist.LengthSec()
	if err != nil {
		return
	}

	// The loader is immutable; swap in a fresh one bound to the new source.
	a.mu.Lock()
	a.loader = playlist.NewLoader(cfg.Playlist.Path, startSec,
		a.logs.Logger().With(logx.String("comp", "playlist")), a.val)
	a.mu.Unlock()

	a.val.Apply(ctx, validator.Config{
		Enabled:   cfg.Validator.Enabled,
		Workers:   cfg.Validator.Workers,
		QueueSize: cfg.Validator.QueueSize,
		DayLength: lengthSec,
	})
	a.sched.Apply(ctx, scheduler.Config{
		Enabled:  true,
		DayStart: dayStartOrMidnight(cfg.Playlist.DayStart),
		Timezone: cfg.Channel.Timezone,
	})
	a.prof.Apply(ctx, mapPprof(cfg.Pprof))
}
