package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"playout/internal/playlist"
	logx "playout/pkg/logx"
)

// mediaFile creates a stand-in clip so source existence checks pass.
func mediaFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestPlaylistClean(t *testing.T) {
	dir := t.TempDir()
	a := mediaFile(t, dir, "a.mp4")
	b := mediaFile(t, dir, "b.mp4")

	pl := &playlist.Playlist{
		Date: "2024-01-01",
		Program: []playlist.Media{
			{Source: a, Out: 30, Duration: 30},
			{Source: b, Out: 50, Seek: 5, Duration: 60},
		},
	}
	playlist.Annotate(pl, 0)

	rep := Playlist(context.Background(), pl, Config{DayLength: 75}, logx.Nop())
	if rep.Errors != 0 || rep.Warnings != 0 {
		t.Fatalf("errors/warnings = %d/%d, want 0/0", rep.Errors, rep.Warnings)
	}
	if rep.Length != 75 {
		t.Fatalf("Length = %v, want 75", rep.Length)
	}
}

func TestPlaylistEmptyProgram(t *testing.T) {
	rep := Playlist(context.Background(), &playlist.Playlist{Date: "2024-01-01"}, Config{}, logx.Nop())
	if rep.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", rep.Errors)
	}
}

func TestPlaylistFillerWarns(t *testing.T) {
	pl := playlist.NewFiller("2024-01-01", 0)
	playlist.Annotate(pl, 0)

	rep := Playlist(context.Background(), pl, Config{DayLength: 86400}, logx.Nop())
	if rep.Errors != 0 {
		t.Fatalf("Errors = %d, want 0", rep.Errors)
	}
	// One warning for the filler itself; no short-day warning on top.
	if rep.Warnings != 1 {
		t.Fatalf("Warnings = %d, want 1", rep.Warnings)
	}
}

func TestPlaylistItemChecks(t *testing.T) {
	dir := t.TempDir()
	ok := mediaFile(t, dir, "ok.mp4")

	cases := []struct {
		name         string
		item         playlist.Media
		wantErrors   int
		wantWarnings int
	}{
		{"missing source file", playlist.Media{Source: filepath.Join(dir, "gone.mp4"), Out: 10, Duration: 10}, 1, 0},
		{"empty source", playlist.Media{Out: 10, Duration: 10}, 1, 0},
		{"seek past out", playlist.Media{Source: ok, Seek: 10, Out: 10, Duration: 20}, 1, 0},
		{"out past duration", playlist.Media{Source: ok, Out: 30, Duration: 20}, 0, 1},
		{"remote source skips stat", playlist.Media{Source: "https://cdn.example.com/clip.mp4", Out: 10, Duration: 10}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pl := &playlist.Playlist{Date: "2024-01-01", Program: []playlist.Media{tc.item}}
			playlist.Annotate(pl, 0)

			rep := Playlist(context.Background(), pl, Config{}, logx.Nop())
			if rep.Errors != tc.wantErrors || rep.Warnings != tc.wantWarnings {
				t.Fatalf("errors/warnings = %d/%d, want %d/%d",
					rep.Errors, rep.Warnings, tc.wantErrors, tc.wantWarnings)
			}
		})
	}
}

func TestPlaylistBeginContinuity(t *testing.T) {
	dir := t.TempDir()
	src := mediaFile(t, dir, "a.mp4")

	pl := &playlist.Playlist{
		Date: "2024-01-01",
		Program: []playlist.Media{
			{Source: src, Out: 30, Duration: 30, Begin: 0},
			// Gap: should begin at 30.
			{Source: src, Out: 30, Duration: 30, Begin: 45, Index: 1},
		},
	}

	rep := Playlist(context.Background(), pl, Config{}, logx.Nop())
	if rep.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", rep.Errors)
	}
}

func TestPlaylistShortDayWarns(t *testing.T) {
	dir := t.TempDir()
	src := mediaFile(t, dir, "a.mp4")

	pl := &playlist.Playlist{
		Date:    "2024-01-01",
		Program: []playlist.Media{{Source: src, Out: 30, Duration: 30}},
	}
	playlist.Annotate(pl, 0)

	rep := Playlist(context.Background(), pl, Config{DayLength: 86400}, logx.Nop())
	if rep.Warnings != 1 {
		t.Fatalf("Warnings = %d, want 1", rep.Warnings)
	}
}

func TestPlaylistCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pl := &playlist.Playlist{
		Date:    "2024-01-01",
		Program: []playlist.Media{{Out: 10}, {Out: 10}},
	}
	rep := Playlist(ctx, pl, Config{}, logx.Nop())
	if !rep.Canceled {
		t.Fatalf("Canceled = false")
	}
	if rep.Errors != 0 {
		t.Fatalf("Errors = %d after immediate cancel", rep.Errors)
	}
}
