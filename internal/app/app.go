package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"playout/internal/config"
	"playout/internal/playlist"
	"playout/internal/runtime/supervisor"
	"playout/internal/services/pprof"
	"playout/internal/services/scheduler"
	"playout/internal/services/validator"
	"playout/internal/services/watcher"
	"playout/internal/storage"
	"playout/pkg/sdnotify"
	logx "playout/pkg/logx"
)

// App wires the playout daemon together: config, logging, the playlist
// loader and the services around it (validator pool, day-rollover trigger,
// file watcher, load-history store).
type App struct {
	cfgPath string

	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service

	store storage.Store
	val   *validator.Service
	sched *scheduler.Service
	watch *watcher.Service
	prof  *pprof.Service

	mu      sync.Mutex
	loader  *playlist.Loader
	current *playlist.Playlist
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewConfigManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	if cfg.Channel.Name != "" {
		log = log.With(logx.String("channel", cfg.Channel.Name))
	}

	startSec, err := cfg.Playlist.StartSec()
	if err != nil {
		return nil, fmt.Errorf("playlist.day_start: %w", err)
	}
	lengthSec, err := cfg.Playlist.LengthSec()
	if err != nil {
		return nil, fmt.Errorf("playlist.length: %w", err)
	}
	if strings.TrimSpace(cfg.Playlist.Path) == "" {
		return nil, fmt.Errorf("playlist.path is required")
	}

	store, err := storage.Open(mapStorage(cfg.Storage), logSvc.Logger().With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	valSvc := validator.New(validator.Config{
		Enabled:   cfg.Validator.Enabled,
		Workers:   cfg.Validator.Workers,
		QueueSize: cfg.Validator.QueueSize,
		DayLength: lengthSec,
	}, logSvc.Logger().With(logx.String("comp", "validator")), store)

	loader := playlist.NewLoader(cfg.Playlist.Path, startSec,
		logSvc.Logger().With(logx.String("comp", "playlist")), valSvc)

	schedSvc := scheduler.New(scheduler.Config{
		Enabled:  true,
		DayStart: dayStartOrMidnight(cfg.Playlist.DayStart),
		Timezone: cfg.Channel.Timezone,
	}, logSvc.Logger().With(logx.String("comp", "scheduler")))

	debounce, err := config.ParseDurationOrDefault("watcher.debounce", cfg.Watcher.Debounce, 250*time.Millisecond)
	if err != nil {
		return nil, err
	}
	watchSvc := watcher.New(watcher.Config{
		Enabled:   cfg.Watcher.Enabled,
		Debounce:  debounce,
		MaxPerMin: cfg.Watcher.MaxPerMin,
	}, logSvc.Logger().With(logx.String("comp", "watcher")))

	profSvc := pprof.New(mapPprof(cfg.Pprof), logSvc.Logger().With(logx.String("comp", "pprof")))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		val:     valSvc,
		sched:   schedSvc,
		watch:   watchSvc,
		prof:    profSvc,
		loader:  loader,
	}, nil
}

func dayStartOrMidnight(s string) string {
	if strings.TrimSpace(s) == "" {
		return "00:00:00"
	}
	return s
}

func mapPprof(pc *config.PprofConfig) pprof.Config {
	if pc == nil {
		return pprof.Config{}
	}
	return pprof.Config{
		Enabled: pc.Enabled,
		Addr:    pc.Addr,
		Token:   pc.Token,
	}
}

func mapStorage(sc *config.StorageConfig) storage.Config {
	if sc == nil {
		return storage.Config{}
	}
	busy, _ := config.ParseDurationField("storage.busy_timeout", sc.BusyTimeout)
	return storage.Config{
		Driver:      sc.Driver,
		Path:        sc.Path,
		BusyTimeout: busy,
	}
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// Current returns the playlist loaded most recently. It is safe to read from
// other goroutines; the app only ever replaces it wholesale.
func (a *App) Current() *playlist.Playlist {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.NewSupervisor(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	// transactional config reload: validate before commit/publish
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return validateConfig(cfg)
	})

	a.sched.SetReload(func(c context.Context) { _ = a.Reload(c, false) })
	a.watch.SetReload(func(c context.Context) { _ = a.Reload(c, false) })

	if a.val.Enabled() {
		a.val.Start(a.sup.Context())
	}
	a.sched.Start(a.sup.Context())
	if a.prof.Enabled() {
		a.prof.Start()
	}
	if a.watch.Enabled() {
		a.sup.Go("playlist.watch", a.watch.Run)
	}

	a.sup.Go("config.watch", a.cfgm.Watch)

	// hot reload config fan-out
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.configLoop(c, sub)
	})

	// Startup load joins the running broadcast day (seek), so a playlist
	// that is already half-played gets its real timing.
	if err := a.Reload(a.sup.Context(), true); err != nil {
		return err
	}

	a.logRecentLoads(a.sup.Context())

	if sdnotify.Ready() {
		a.log.Debug("systemd notified: ready")
	}
	return nil
}

// Reload loads the current broadcast day's playlist and swaps it in.
//
// A missing or unreachable source has already degraded to the filler inside
// the loader and is not an error here. Malformed content is: the current
// program (if any) stays in place and the error is returned for the caller
// to decide whether it is fatal.
func (a *App) Reload(ctx context.Context, seek bool) error {
	a.mu.Lock()
	loader := a.loader
	a.mu.Unlock()

	start := time.Now()
	pl, err := loader.Load(ctx, "", seek, 0)
	if err != nil {
		a.log.Error("playlist load aborted; keeping current program", logx.Err(err))
		return err
	}

	a.mu.Lock()
	a.current = pl
	a.mu.Unlock()

	if !playlist.IsRemote(pl.CurrentFile) {
		a.watch.SetTarget(pl.CurrentFile)
	}

	a.log.Info("playlist loaded",
		logx.String("date", pl.Date),
		logx.String("source", pl.CurrentFile),
		logx.Int("items", len(pl.Program)),
		logx.Bool("filler", pl.Filler),
		logx.Duration("took", time.Since(start)),
	)
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if sdnotify.Stopping() {
		a.log.Debug("systemd notified: stopping")
	}

	a.sched.Stop(ctx)
	a.val.Stop(ctx)
	a.prof.Stop(ctx)

	var err error
	if a.sup != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = a.sup.Stop(stopCtx)
		cancel()
	}

	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.logs.Close()
	return err
}

func (a *App) logRecentLoads(ctx context.Context) {
	if a.store == nil {
		return
	}
	loads, err := a.store.RecentLoads(ctx, 1)
	if err != nil || len(loads) == 0 {
		return
	}
	last := loads[len(loads)-1]
	a.log.Debug("previous playlist load",
		logx.String("date", last.Date),
		logx.String("source", last.Source),
		logx.Bool("filler", last.Filler),
		logx.Int("errors", last.Errors),
	)
}

func validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.Playlist.Path) == "" {
		return fmt.Errorf("playlist.path is required")
	}
	if _, err := cfg.Playlist.StartSec(); err != nil {
		return fmt.Errorf("playlist.day_start: %w", err)
	}
	if _, err := cfg.Playlist.LengthSec(); err != nil {
		return fmt.Errorf("playlist.length: %w", err)
	}
	if cfg.Validator.Workers < 0 {
		return fmt.Errorf("validator.workers must be >= 0")
	}
	if _, err := config.ParseDurationField("watcher.debounce", cfg.Watcher.Debounce); err != nil {
		return err
	}
	if cfg.Storage != nil {
		if _, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	if tz := strings.TrimSpace(cfg.Channel.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("channel.timezone: invalid %q: %w", tz, err)
		}
	}
	return nil
}
