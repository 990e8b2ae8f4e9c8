package app

import (
	"strings"
	"testing"

	"playout/internal/config"
)

func validTestConfig() *config.Config {
	return &config.Config{
		Playlist: config.PlaylistConfig{
			Path:     "/var/lib/playlists",
			DayStart: "06:00:00",
			Length:   "24:00:00",
		},
	}
}

func TestValidateConfigOK(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("validateConfig: %v", err)
	}
}

func TestValidateConfigRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"nil config", nil, "nil"},
		{"missing path", func(c *config.Config) { c.Playlist.Path = " " }, "playlist.path"},
		{"bad day start", func(c *config.Config) { c.Playlist.DayStart = "25:00" }, "day_start"},
		{"bad length", func(c *config.Config) { c.Playlist.Length = "nope" }, "length"},
		{"negative workers", func(c *config.Config) { c.Validator.Workers = -1 }, "workers"},
		{"bad debounce", func(c *config.Config) { c.Watcher.Debounce = "soon" }, "debounce"},
		{"bad busy timeout", func(c *config.Config) {
			c.Storage = &config.StorageConfig{Driver: "sqlite", Path: "/db", BusyTimeout: "-1s"}
		}, "busy_timeout"},
		{"bad timezone", func(c *config.Config) { c.Channel.Timezone = "Mars/Olympus" }, "timezone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg *config.Config
			if tc.mutate != nil {
				cfg = validTestConfig()
				tc.mutate(cfg)
			}
			err := validateConfig(cfg)
			if err == nil {
				t.Fatalf("validateConfig accepted %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestDayStartOrMidnight(t *testing.T) {
	if got := dayStartOrMidnight(""); got != "00:00:00" {
		t.Fatalf("empty = %q", got)
	}
	if got := dayStartOrMidnight("06:00:00"); got != "06:00:00" {
		t.Fatalf("set = %q", got)
	}
}
