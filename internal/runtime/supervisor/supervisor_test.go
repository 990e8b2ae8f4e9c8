package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStopWaitsForGoroutines(t *testing.T) {
	s := NewSupervisor(context.Background())

	done := make(chan struct{})
	s.Go("worker", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-done:
	default:
		t.Fatalf("Stop returned before goroutine exited")
	}
}

func TestCancelOnError(t *testing.T) {
	s := NewSupervisor(context.Background(), WithCancelOnError(true))

	boom := errors.New("boom")
	s.Go("failing", func(context.Context) error { return boom })

	select {
	case <-s.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("context not canceled after goroutine error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); !errors.Is(err, boom) {
		t.Fatalf("Wait = %v, want %v", err, boom)
	}
}

func TestContextCanceledIsNotAnError(t *testing.T) {
	s := NewSupervisor(context.Background(), WithCancelOnError(true))
	s.Go("clean", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	s.Cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait = %v, want nil for context.Canceled", err)
	}
}

func TestPanicRecovered(t *testing.T) {
	s := NewSupervisor(context.Background(), WithCancelOnError(true))
	s.Go("panicky", func(context.Context) error { panic("oops") })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Wait(ctx)
	if err == nil {
		t.Fatalf("Wait = nil after panic")
	}
}

func TestCounters(t *testing.T) {
	s := NewSupervisor(context.Background())

	block := make(chan struct{})
	s.Go("a", func(context.Context) error { <-block; return nil })
	s.Go("b", func(context.Context) error { <-block; return nil })

	c := s.Counters()
	if c.Started != 2 || c.Active != 2 {
		t.Fatalf("counters = %+v", c)
	}
	close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Stop(ctx)
	if c := s.Counters(); c.Active != 0 {
		t.Fatalf("active = %d after Stop", c.Active)
	}
}
