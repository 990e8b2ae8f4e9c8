package validator

import (
	"context"
	"time"

	"playout/internal/storage"
	"playout/internal/validate"
	logx "playout/pkg/logx"
)

func now() time.Time { return time.Now() }

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan job) {
	for {
		// Fast-exit check so a closed stopCh wins over queued work.
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case j := <-queue:
			s.execOne(ctx, j)
		}
	}
}

func (s *Service) execOne(ctx context.Context, j job) {
	start := now()

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	rep := validate.Playlist(ctx, j.pl, validate.Config{DayLength: cfg.DayLength}, s.log)
	took := time.Since(start)

	if rep.Canceled {
		return
	}
	if s.store == nil {
		return
	}

	entry := storage.LoadEntry{
		At:       j.enqueuedAt,
		Date:     j.pl.Date,
		Source:   j.pl.CurrentFile,
		Modified: j.pl.Modified,
		Items:    len(j.pl.Program),
		Filler:   j.pl.Filler,
		Length:   rep.Length,
		Errors:   rep.Errors,
		Warnings: rep.Warnings,
		TookMS:   took.Milliseconds(),
	}
	wctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.AppendLoad(wctx, entry); err != nil {
		s.log.Debug("load history append failed", logx.Err(err))
	}
}
