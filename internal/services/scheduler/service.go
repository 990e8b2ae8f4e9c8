package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"playout/internal/clock"
	logx "playout/pkg/logx"
)

// Config controls the day-rollover trigger.
type Config struct {
	Enabled  bool
	DayStart string // "HH:MM:SS", the channel's broadcast day start
	Timezone string // IANA TZ, e.g. "Europe/Berlin"; empty = local
}

// ReloadFunc is invoked at every day rollover to load the new day's playlist.
type ReloadFunc func(ctx context.Context)

// Service fires the playlist reload at the configured day start. It is a
// trigger only; the actual load runs in the callback.
type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	parser cron.Parser
	c      *cron.Cron
	loc    *time.Location

	reload  ReloadFunc
	running bool // overlap guard for the reload callback

	stopCh    chan struct{}
	runCtx    context.Context
	runCancel context.CancelFunc
}

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg: cfg,
		log: log,
		// SecondOptional allows both 5-field and 6-field (with seconds) cron specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// SetReload installs the rollover callback. Must be called before Start.
func (s *Service) SetReload(fn ReloadFunc) {
	s.mu.Lock()
	s.reload = fn
	s.mu.Unlock()
}

// Enabled reports the current config flag. (Thread-safe; Apply() may run concurrently.)
func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

func (s *Service) Apply(ctx context.Context, cfg Config) {
	s.mu.Lock()
	prev := s.cfg
	s.cfg = cfg
	running := s.stopCh != nil
	s.mu.Unlock()

	if !running {
		return
	}
	if prev.DayStart != cfg.DayStart || strings.TrimSpace(prev.Timezone) != strings.TrimSpace(cfg.Timezone) || prev.Enabled != cfg.Enabled {
		s.Stop(ctx)
		if cfg.Enabled {
			s.Start(ctx)
		}
	}
}

// DayStartSpec converts "HH:MM:SS" into a 6-field cron spec firing once a day.
func DayStartSpec(dayStart string) (string, error) {
	sec, err := clock.TimeToSeconds(dayStart)
	if err != nil {
		return "", err
	}
	v := int(sec)
	return fmt.Sprintf("%d %d %d * * *", v%60, (v/60)%60, v/3600), nil
}

func (s *Service) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Enabled || s.stopCh != nil {
		return
	}

	spec, err := DayStartSpec(s.cfg.DayStart)
	if err != nil {
		s.log.Error("invalid day start; rollover disabled", logx.String("day_start", s.cfg.DayStart), logx.Err(err))
		return
	}

	loc := time.Local
	if tz := strings.TrimSpace(s.cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			s.log.Warn("invalid timezone; using local", logx.String("tz", tz), logx.Err(err))
		} else {
			loc = l
		}
	}
	s.loc = loc

	s.stopCh = make(chan struct{})
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	runCtx := s.runCtx

	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	if _, err := s.c.AddFunc(spec, func() { s.fire(runCtx) }); err != nil {
		s.log.Error("cron registration failed", logx.String("spec", spec), logx.Err(err))
		s.c = nil
		close(s.stopCh)
		s.stopCh = nil
		s.runCancel()
		return
	}
	s.c.Start()
	s.log.Debug("day rollover scheduled", logx.String("spec", spec), logx.String("tz", loc.String()))
}

func (s *Service) fire(ctx context.Context) {
	s.mu.Lock()
	fn := s.reload
	if fn == nil || s.running {
		busy := s.running
		s.mu.Unlock()
		if busy {
			s.log.Warn("previous rollover reload still running; skipping")
		}
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.log.Info("day rollover; reloading playlist")
	fn(ctx)
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	stopCh := s.stopCh
	cancel := s.runCancel
	s.c = nil
	s.stopCh = nil
	s.runCtx = nil
	s.runCancel = nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	if cancel != nil {
		cancel()
	}
	if c != nil {
		stopped := c.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
	}
}
