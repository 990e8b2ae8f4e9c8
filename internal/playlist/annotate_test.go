package playlist

import "testing"

func TestAnnotateBeginRecurrence(t *testing.T) {
	pl := &Playlist{
		Date: "2024-01-01",
		Program: []Media{
			{Out: 30, Seek: 0},
			{Out: 50, Seek: 5},
			{Out: 10, Seek: 0},
		},
	}
	Annotate(pl, 21600)

	wantBegin := []float64{21600, 21630, 21675}
	for i, want := range wantBegin {
		if got := pl.Program[i].Begin; got != want {
			t.Errorf("item %d: Begin = %v, want %v", i, got, want)
		}
		if pl.Program[i].Index != i {
			t.Errorf("item %d: Index = %d", i, pl.Program[i].Index)
		}
	}
}

func TestAnnotateResetsFlags(t *testing.T) {
	pl := &Playlist{
		Program: []Media{
			// Pre-populated scheduling state must not survive annotation.
			{Out: 10, Begin: 999, Index: 42, LastAd: true, NextAd: true, Process: false, Filter: []string{"stale"}},
		},
	}
	Annotate(pl, 0)

	m := pl.Program[0]
	if m.Begin != 0 || m.Index != 0 {
		t.Fatalf("Begin/Index not reset: %v/%d", m.Begin, m.Index)
	}
	if m.LastAd || m.NextAd {
		t.Fatalf("ad flags not cleared")
	}
	if !m.Process {
		t.Fatalf("Process = false, want true")
	}
	if m.Filter == nil || len(m.Filter) != 0 {
		t.Fatalf("Filter = %v, want empty non-nil", m.Filter)
	}
}

func TestAnnotateEmptyProgram(t *testing.T) {
	pl := &Playlist{}
	Annotate(pl, 100) // must not panic
	if len(pl.Program) != 0 {
		t.Fatalf("program grew: %d", len(pl.Program))
	}
}

func TestNewFiller(t *testing.T) {
	pl := NewFiller("2024-01-01", 21600)
	if !pl.Filler {
		t.Fatalf("Filler = false")
	}
	if pl.Date != "2024-01-01" || pl.StartSec != 21600 {
		t.Fatalf("Date/StartSec = %q/%v", pl.Date, pl.StartSec)
	}
	if len(pl.Program) != 1 {
		t.Fatalf("program length = %d, want 1", len(pl.Program))
	}
	m := pl.Program[0]
	if m.Out != DummyLen || m.Duration != DummyLen || m.Seek != 0 {
		t.Fatalf("filler item = %+v", m)
	}
}

func TestCloneIsolation(t *testing.T) {
	pl := &Playlist{
		Date:    "2024-01-01",
		Program: []Media{{Out: 30, Filter: []string{"a"}}},
	}
	cp := pl.Clone()

	cp.Program[0].Out = 999
	cp.Program[0].Filter[0] = "mutated"
	cp.Program = append(cp.Program, Media{})

	if pl.Program[0].Out != 30 {
		t.Fatalf("original Out mutated: %v", pl.Program[0].Out)
	}
	if pl.Program[0].Filter[0] != "a" {
		t.Fatalf("original Filter mutated: %v", pl.Program[0].Filter)
	}
	if len(pl.Program) != 1 {
		t.Fatalf("original program grew: %d", len(pl.Program))
	}
}

func TestCloneNil(t *testing.T) {
	var pl *Playlist
	if pl.Clone() != nil {
		t.Fatalf("Clone(nil) != nil")
	}
}

func TestLength(t *testing.T) {
	pl := &Playlist{Program: []Media{{Out: 30}, {Out: 50, Seek: 5}}}
	if got := pl.Length(); got != 75 {
		t.Fatalf("Length = %v, want 75", got)
	}
}
