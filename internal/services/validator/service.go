package validator

import (
	"context"
	"runtime/debug"
	"sync"

	"playout/internal/playlist"
	"playout/internal/storage"
	logx "playout/pkg/logx"
)

// Service runs playlist validation off the load path. Every load hands it an
// owned playlist clone; workers check it in the background and record the
// outcome in the load-history store.
type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	store storage.Store

	queue     chan job
	stopCh    chan struct{}
	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
}

func New(cfg Config, log logx.Logger, store storage.Store) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 8
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, log: log, store: store}
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
	if cfg.Workers <= 0 {
		cfg.Workers = prev.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = prev.QueueSize
	}
	s.cfg = cfg
	running := s.stopCh != nil
	s.mu.Unlock()

	if !running {
		return
	}
	// Restart workers when pool shape changed.
	if prev.Workers != cfg.Workers || prev.QueueSize != cfg.QueueSize || prev.Enabled != cfg.Enabled {
		s.Stop(ctx)
		if cfg.Enabled {
			s.Start(ctx)
		}
	}
}

func (s *Service) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if !s.cfg.Enabled || s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	cfg := s.cfg
	s.stopCh = make(chan struct{})
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	// Fresh queue per run so stale snapshots don't survive a stop/start toggle.
	s.queue = make(chan job, cfg.QueueSize)

	runCtx := s.runCtx
	stopCh := s.stopCh
	queue := s.queue
	s.mu.Unlock()

	s.workerWG.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		idx := i
		go func() {
			defer s.workerWG.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("panic in validator worker",
						logx.Int("worker", idx), logx.Any("panic", r),
						logx.Stack(string(debug.Stack())))
				}
			}()
			s.worker(runCtx, stopCh, queue)
		}()
	}
	s.log.Debug("validator started", logx.Int("workers", cfg.Workers), logx.Int("queue_cap", cfg.QueueSize))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	stopCh := s.stopCh
	cancel := s.runCancel
	s.stopCh = nil
	s.runCtx = nil
	s.runCancel = nil
	s.queue = nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Submit hands an owned playlist clone to the background workers. It never
// blocks: when the service is down or the queue is full the snapshot is
// dropped with a diagnostic and false is returned.
func (s *Service) Submit(pl *playlist.Playlist) bool {
	if pl == nil {
		return false
	}
	s.mu.Lock()
	q := s.queue
	enabled := s.cfg.Enabled
	s.mu.Unlock()

	if !enabled || q == nil {
		s.log.Debug("validator not running; dropping snapshot", logx.String("date", pl.Date))
		return false
	}
	select {
	case q <- job{pl: pl, enqueuedAt: now()}:
		return true
	default:
		s.log.Warn("validator queue full; dropping snapshot",
			logx.String("date", pl.Date), logx.Int("queue_len", len(q)), logx.Int("queue_cap", cap(q)))
		return false
	}
}
