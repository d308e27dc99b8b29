package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"airwatch/internal/logging"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger, err := logging.New("", "error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return New(logger)
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int64
	s.Add(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	s.Start(ctx, &wg)

	time.Sleep(100 * time.Millisecond)
	cancel()
	wg.Wait()

	if runs.Load() < 2 {
		t.Errorf("job runs = %d, want at least 2", runs.Load())
	}
}

func TestSchedulerSurvivesJobFailure(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int64
	s.Add(Job{
		Name:     "failing",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	s.Start(ctx, &wg)

	time.Sleep(100 * time.Millisecond)
	cancel()
	wg.Wait()

	if runs.Load() < 2 {
		t.Errorf("job runs = %d, want the job retried after failure", runs.Load())
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	s := newTestScheduler(t)
	s.Add(Job{
		Name:     "idle",
		Interval: time.Hour,
		Run:      func(ctx context.Context) error { return nil },
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	s.Start(ctx, &wg)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
