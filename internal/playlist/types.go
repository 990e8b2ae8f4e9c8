package playlist

// DummyLen is the length in seconds of the placeholder clip used when no
// real playlist can be loaded for a day.
const DummyLen = 60.0

// Playlist holds one broadcast day's ordered program.
//
// Only Date and Program travel over the wire (JSON file or HTTP body); the
// remaining fields are runtime state filled in by the loader.
type Playlist struct {
	Date string `json:"date"`

	// StartSec is the absolute time of day, in seconds, at which
	// Program[0] begins. Set once per load.
	StartSec float64 `json:"-"`

	// CurrentFile is the resolved path or URL this playlist was loaded
	// from. Informational only; no further I/O happens against it.
	CurrentFile string `json:"-"`

	// Modified is a best-effort provenance timestamp: the Last-Modified
	// response header for remote sources, the file mtime for local ones.
	Modified string `json:"-"`

	// Filler is true when this playlist is the one-clip placeholder
	// substituted because the real source was missing or unreachable.
	Filler bool `json:"-"`

	Program []Media `json:"program"`
}

// Media is a single program entry.
type Media struct {
	Seek     float64 `json:"seek"`
	Out      float64 `json:"out"`
	Duration float64 `json:"duration"`
	Source   string  `json:"source"`
	Category string  `json:"category,omitempty"`

	// Assigned by Annotate; meaningless before that.
	Begin   float64  `json:"-"`
	Index   int      `json:"-"`
	LastAd  bool     `json:"-"`
	NextAd  bool     `json:"-"`
	Process bool     `json:"-"`
	Filter  []string `json:"-"`
}

// NewFiller builds the graceful-degradation playlist: a single silent
// placeholder long enough for the player to keep running while operators
// fix the missing source.
func NewFiller(date string, start float64) *Playlist {
	m := Media{
		Out:      DummyLen,
		Duration: DummyLen,
		Begin:    start,
	}
	return &Playlist{
		Date:     date,
		StartSec: start,
		Filler:   true,
		Program:  []Media{m},
	}
}

// Clone returns a fully independent copy. The validator runs on a clone so
// it can never race with the caller's playlist.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Program = make([]Media, len(p.Program))
	copy(cp.Program, p.Program)
	for i := range cp.Program {
		if p.Program[i].Filter != nil {
			cp.Program[i].Filter = append([]string(nil), p.Program[i].Filter...)
		}
	}
	return &cp
}

// Length is the summed effective play time (out - seek) of all items.
func (p *Playlist) Length() float64 {
	var total float64
	for i := range p.Program {
		total += p.Program[i].Out - p.Program[i].Seek
	}
	return total
}
