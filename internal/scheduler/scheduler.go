package scheduler

import (
	"context"
	"sync"
	"time"

	"airwatch/internal/logging"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each registered job on its own ticker until the
// context is cancelled.
type Scheduler struct {
	jobs   []Job
	logger *logging.Logger
}

func New(logger *logging.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start launches one goroutine per job.
func (s *Scheduler) Start(ctx context.Context, wg *sync.WaitGroup) {
	for _, job := range s.jobs {
		wg.Add(1)
		go s.runJob(ctx, wg, job)
	}
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobs))
}

func (s *Scheduler) runJob(ctx context.Context, wg *sync.WaitGroup, job Job) {
	defer wg.Done()
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Scheduler job %s stopped", job.Name)
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				s.logger.Errorf("Scheduler job %s failed: %v", job.Name, err)
			}
		}
	}
}
