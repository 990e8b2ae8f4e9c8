package config

import (
	"strings"

	logx "playout/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections and
// (2) safe structured attrs for logging.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 6)
	attrs := make([]logx.Field, 0, 12)

	if oldCfg.Channel != newCfg.Channel {
		changed = append(changed, "channel")
		attrs = append(attrs,
			logx.String("channel.name", newCfg.Channel.Name),
			logx.String("channel.timezone", strings.TrimSpace(newCfg.Channel.Timezone)),
		)
	}

	if oldCfg.Playlist != newCfg.Playlist {
		changed = append(changed, "playlist")
		attrs = append(attrs,
			logx.String("playlist.path", newCfg.Playlist.Path),
			logx.String("playlist.day_start", newCfg.Playlist.DayStart),
			logx.String("playlist.length", newCfg.Playlist.Length),
		)
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Validator != newCfg.Validator {
		changed = append(changed, "validator")
		attrs = append(attrs,
			logx.Bool("validator.enabled", newCfg.Validator.Enabled),
			logx.Int("validator.workers", newCfg.Validator.Workers),
		)
	}

	if oldCfg.Watcher != newCfg.Watcher {
		changed = append(changed, "watcher")
		attrs = append(attrs, logx.Bool("watcher.enabled", newCfg.Watcher.Enabled))
	}

	oldStorage := StorageConfig{}
	if oldCfg.Storage != nil {
		oldStorage = *oldCfg.Storage
	}
	newStorage := StorageConfig{}
	if newCfg.Storage != nil {
		newStorage = *newCfg.Storage
	}
	if oldStorage != newStorage {
		changed = append(changed, "storage")
		attrs = append(attrs, logx.String("storage.driver", newStorage.Driver))
	}

	oldPprof := PprofConfig{}
	if oldCfg.Pprof != nil {
		oldPprof = *oldCfg.Pprof
	}
	newPprof := PprofConfig{}
	if newCfg.Pprof != nil {
		newPprof = *newCfg.Pprof
	}
	if oldPprof != newPprof {
		changed = append(changed, "pprof")
		attrs = append(attrs, logx.Bool("pprof.enabled", newPprof.Enabled))
	}

	return changed, attrs
}
