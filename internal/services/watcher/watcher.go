package watcher

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	logx "playout/pkg/logx"
)

// Config controls the playlist file watcher.
type Config struct {
	Enabled   bool
	Debounce  time.Duration // settle time after a write burst; default 250ms
	MaxPerMin int           // reload rate cap; default 6
}

// ReloadFunc is invoked when the watched playlist file changes on disk.
type ReloadFunc func(ctx context.Context)

// Service watches the current day's playlist file and triggers a reload when
// an editor or sync job rewrites it. Remote sources are not watchable; with
// a remote target the service just idles.
type Service struct {
	mu     sync.Mutex
	cfg    Config
	log    logx.Logger
	reload ReloadFunc

	target   string
	retarget chan string

	limiter *rate.Limiter
}

func New(cfg Config, log logx.Logger) *Service {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.MaxPerMin <= 0 {
		cfg.MaxPerMin = 6
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		retarget: make(chan string, 1),
		limiter:  rate.NewLimiter(rate.Limit(float64(cfg.MaxPerMin)/60.0), 1),
	}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

// SetReload installs the change callback. Must be called before Run.
func (s *Service) SetReload(fn ReloadFunc) {
	s.mu.Lock()
	s.reload = fn
	s.mu.Unlock()
}

// SetTarget points the watcher at the current playlist file. Safe to call
// while Run is active; the watch loop re-arms on the new path.
func (s *Service) SetTarget(path string) {
	s.mu.Lock()
	if s.target == path {
		s.mu.Unlock()
		return
	}
	s.target = path
	s.mu.Unlock()

	// Coalesce: only the latest target matters.
	select {
	case s.retarget <- path:
	default:
		select {
		case <-s.retarget:
		default:
		}
		select {
		case s.retarget <- path:
		default:
		}
	}
}

// Run watches the target playlist file until ctx is canceled. The watcher
// self-heals with a small jittered backoff when fsnotify breaks.
func (s *Service) Run(ctx context.Context) error {
	const (
		restartBackoffBase = 250 * time.Millisecond
		restartBackoffMax  = 5 * time.Second
	)
	backoff := restartBackoffBase
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	wait := func() bool {
		d := backoff + time.Duration(rng.Int63n(int64(backoff/2)+1))
		if backoff < restartBackoffMax {
			backoff *= 2
			if backoff > restartBackoffMax {
				backoff = restartBackoffMax
			}
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(d):
			return true
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.mu.Lock()
		target := s.target
		debounce := s.cfg.Debounce
		s.mu.Unlock()

		// Nothing watchable yet (no target, or a remote URL): idle until
		// the target changes.
		if target == "" || strings.Contains(target, "://") {
			select {
			case <-ctx.Done():
				return nil
			case <-s.retarget:
				continue
			}
		}

		dir := filepath.Dir(target)
		file := filepath.Base(target)

		w, err := fsnotify.NewWatcher()
		if err != nil {
			s.log.Warn("playlist watch init failed", logx.Err(err), logx.String("dir", dir))
			if !wait() {
				return nil
			}
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			s.log.Warn("playlist watch add failed", logx.Err(err), logx.String("dir", dir))
			if !wait() {
				return nil
			}
			continue
		}

		backoff = restartBackoffBase
		s.log.Debug("playlist watcher armed", logx.String("dir", dir), logx.String("file", file))

		var (
			timerMu sync.Mutex
			timer   *time.Timer
		)
		trigger := func() {
			timerMu.Lock()
			defer timerMu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { s.fire(ctx) })
		}

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = w.Close()
				return nil
			case <-s.retarget:
				broken = true
			case ev, ok := <-w.Events:
				if !ok {
					broken = true
					break
				}
				if strings.EqualFold(filepath.Base(ev.Name), file) {
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
						trigger()
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					broken = true
					break
				}
				if err == nil {
					continue
				}
				s.log.Warn("playlist watch error", logx.Err(err), logx.String("dir", dir))
				if strings.Contains(strings.ToLower(err.Error()), "closed") {
					broken = true
				}
			}
		}

		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
		_ = w.Close()
	}
}

func (s *Service) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	fn := s.reload
	target := s.target
	lim := s.limiter
	s.mu.Unlock()

	if fn == nil {
		return
	}
	if !lim.Allow() {
		s.log.Warn("playlist changing too fast; reload skipped", logx.String("source", target))
		return
	}
	s.log.Info("playlist changed on disk; reloading", logx.String("source", target))
	fn(ctx)
}
