package scheduler

import (
	"context"
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

// Scheduler runs a job on a fixed interval
type Scheduler struct {
	name       string
	interval   time.Duration
	runOnStart bool
	job        Job
	log        *logging.Logger
}

// New creates a scheduler for job
func New(name string, interval time.Duration, runOnStart bool, job Job, log *logging.Logger) *Scheduler {
	return &Scheduler{name: name, interval: interval, runOnStart: runOnStart, job: job, log: log}
}

// Run blocks until ctx is done. Job failures are logged and the schedule goes on;
// a run that overlaps the next tick delays it instead of stacking.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler %s started, every %s", s.name, s.interval)
	defer s.log.Info("scheduler %s stopped", s.name)

	if s.runOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.log.Error("scheduler %s: run failed after %s: %v", s.name, time.Since(start).Round(time.Millisecond), err)
		return
	}
	s.log.Debug("scheduler %s: run finished in %s", s.name, time.Since(start).Round(time.Millisecond))
}
