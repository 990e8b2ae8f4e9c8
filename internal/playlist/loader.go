package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"playout/internal/clock"
	logx "playout/pkg/logx"
)

// ErrMalformed marks playlist content that exists but does not decode into
// the expected shape. Unlike a missing source, this is an authoring bug:
// the load aborts instead of degrading, because playing a wrongly parsed
// program is worse than stopping.
var ErrMalformed = errors.New("malformed playlist")

// Dispatcher receives an owned playlist copy for background validation.
// Submit must never block; a full queue drops the snapshot.
type Dispatcher interface {
	Submit(pl *Playlist) bool
}

// Loader resolves, fetches and annotates one day's playlist.
type Loader struct {
	path     string  // playlist root: directory, single file, or URL
	startSec float64 // configured day start, seconds since midnight

	log    logx.Logger
	disp   Dispatcher
	client *http.Client
}

func NewLoader(path string, startSec float64, log logx.Logger, disp Dispatcher) *Loader {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loader{
		path:     path,
		startSec: startSec,
		log:      log,
		disp:     disp,
		client:   &http.Client{},
	}
}

// StartSec reports the configured day start offset.
func (l *Loader) StartSec() float64 { return l.startSec }

// Load produces the playlist that should be playing for the current
// broadcast day and hands a clone of it to the validator dispatcher.
//
// Missing or unreachable sources are expected operating states: they are
// logged and answered with a one-clip filler playlist and a nil error.
// Content that exists but does not parse returns an ErrMalformed-wrapped
// error and no playlist.
func (l *Loader) Load(ctx context.Context, override string, seek bool, nextStart float64) (*Playlist, error) {
	date := clock.CurrentDate(seek, l.startSec, nextStart)
	source := Resolve(l.path, date, override)

	var (
		pl  *Playlist
		err error
	)
	if IsRemote(source) {
		pl, err = l.loadRemote(ctx, source, date)
	} else {
		pl, err = l.loadLocal(source, date)
	}
	if err != nil {
		return nil, err
	}

	pl.CurrentFile = source
	pl.StartSec = l.startSec
	Annotate(pl, l.startSec)

	// Fire-and-forget: the validator gets its own copy and is never awaited.
	if l.disp != nil {
		l.disp.Submit(pl.Clone())
	}

	return pl, nil
}

func (l *Loader) loadRemote(ctx context.Context, source, date string) (*Playlist, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bad source %q: %v", ErrMalformed, source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.log.Error("remote playlist unreachable", logx.String("source", source), logx.Err(err))
		return NewFiller(date, l.startSec), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		l.log.Error("remote playlist request not successful",
			logx.String("source", source),
			logx.Int("status", resp.StatusCode),
			logx.String("body", string(body)),
		)
		return NewFiller(date, l.startSec), nil
	}

	l.log.Info("read remote playlist", logx.String("source", source))

	var pl Playlist
	if err := json.NewDecoder(resp.Body).Decode(&pl); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformed, source, err)
	}
	pl.Modified = resp.Header.Get("Last-Modified")
	return &pl, nil
}

func (l *Loader) loadLocal(source, date string) (*Playlist, error) {
	st, err := os.Stat(source)
	if err != nil || !st.Mode().IsRegular() {
		l.log.Error("playlist does not exist", logx.String("source", source))
		return NewFiller(date, l.startSec), nil
	}

	l.log.Info("read playlist", logx.String("source", source))

	f, err := os.Open(source)
	if err != nil {
		l.log.Error("playlist not readable", logx.String("source", source), logx.Err(err))
		return NewFiller(date, l.startSec), nil
	}
	defer f.Close()

	var pl Playlist
	if err := json.NewDecoder(f).Decode(&pl); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformed, source, err)
	}
	pl.Modified = ModifiedTime(source)
	return &pl, nil
}
