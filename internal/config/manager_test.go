package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	path := writeConfig(t, "playout.yml", `
channel:
  name: main
  timezone: Europe/Berlin
playlist:
  path: /var/lib/playlists
  day_start: "06:00:00"
  length: "24:00:00"
logging:
  level: debug
  console: true
validator:
  enabled: true
  workers: 2
watcher:
  enabled: true
  debounce: 300ms
storage:
  driver: file
  path: ./history
`)
	m := NewConfigManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Channel.Name != "main" || cfg.Channel.Timezone != "Europe/Berlin" {
		t.Fatalf("channel = %+v", cfg.Channel)
	}
	if cfg.Playlist.Path != "/var/lib/playlists" || cfg.Playlist.DayStart != "06:00:00" {
		t.Fatalf("playlist = %+v", cfg.Playlist)
	}
	if !cfg.Validator.Enabled || cfg.Validator.Workers != 2 {
		t.Fatalf("validator = %+v", cfg.Validator)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.Pprof != nil {
		t.Fatalf("pprof should default to nil")
	}
}

func TestParseJSON(t *testing.T) {
	path := writeConfig(t, "playout.json", `{"playlist":{"path":"/p"},"logging":{"level":"info","console":true}}`)
	cfg, err := NewConfigManager(path).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Playlist.Path != "/p" {
		t.Fatalf("playlist.path = %q", cfg.Playlist.Path)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "playout.yml", "playlist:\n  path: /p\n  no_such_key: 1\n")
	if _, err := NewConfigManager(path).Parse(); err == nil {
		t.Fatalf("unknown field accepted")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	path := writeConfig(t, "playout.json", `{"playlist":{"path":"/p"}}{"x":1}`)
	if _, err := NewConfigManager(path).Parse(); err == nil {
		t.Fatalf("trailing data accepted")
	}
}

func TestParseMissingFile(t *testing.T) {
	m := NewConfigManager(filepath.Join(t.TempDir(), "nope.yml"))
	if _, err := m.Parse(); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestPlaylistConfigSeconds(t *testing.T) {
	p := PlaylistConfig{DayStart: "06:00:00", Length: "24:00:00"}
	start, err := p.StartSec()
	if err != nil || start != 21600 {
		t.Fatalf("StartSec = %v, %v", start, err)
	}
	length, err := p.LengthSec()
	if err != nil || length != 86400 {
		t.Fatalf("LengthSec = %v, %v", length, err)
	}

	empty := PlaylistConfig{}
	if s, _ := empty.StartSec(); s != 0 {
		t.Fatalf("empty StartSec = %v", s)
	}
	if l, _ := empty.LengthSec(); l != 86400 {
		t.Fatalf("empty LengthSec = %v", l)
	}
}

func TestParseDurationField(t *testing.T) {
	if d, err := ParseDurationField("x", "250ms"); err != nil || d != 250*time.Millisecond {
		t.Fatalf("got %v, %v", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty: got %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-1s"); err == nil {
		t.Fatalf("negative accepted")
	}
	if _, err := ParseDurationField("x", "soon"); err == nil {
		t.Fatalf("garbage accepted")
	}
	if d, err := ParseDurationOrDefault("x", "", time.Second); err != nil || d != time.Second {
		t.Fatalf("default: got %v, %v", d, err)
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	oldCfg := &Config{
		Playlist: PlaylistConfig{Path: "/a"},
		Logging:  LoggingConfig{Level: "info"},
	}
	newCfg := &Config{
		Playlist: PlaylistConfig{Path: "/b"},
		Logging:  LoggingConfig{Level: "debug"},
		Storage:  &StorageConfig{Driver: "file", Path: "/h"},
	}

	sections, attrs := SummarizeConfigChange(oldCfg, newCfg)
	want := []string{"playlist", "logging", "storage"}
	if len(sections) != len(want) {
		t.Fatalf("sections = %v, want %v", sections, want)
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Fatalf("sections = %v, want %v", sections, want)
		}
	}
	if len(attrs) == 0 {
		t.Fatalf("no attrs for changed config")
	}
}

func TestSummarizeConfigChangeNoop(t *testing.T) {
	cfg := &Config{Playlist: PlaylistConfig{Path: "/a"}}
	sections, _ := SummarizeConfigChange(cfg, cfg)
	if len(sections) != 0 {
		t.Fatalf("sections = %v for identical config", sections)
	}
}

func TestCommitAndGet(t *testing.T) {
	m := NewConfigManager("")
	if m.Get() != nil {
		t.Fatalf("Get before Commit != nil")
	}
	cfg := &Config{Playlist: PlaylistConfig{Path: "/p"}}
	m.Commit(cfg)
	if m.Get() != cfg {
		t.Fatalf("Get after Commit returned different pointer")
	}
}
