package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler invokes the pipeline on a cron calendar.
type Scheduler struct {
	pipeline *Pipeline
	spec     string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that runs pipeline per the cron spec.
//
// Common cron expressions:
//   - "0 9 * * *"    - Daily at 9 AM
//   - "*/30 * * * *" - Every 30 minutes
func NewScheduler(pipeline *Pipeline, spec string) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		spec:     spec,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "schedule"),
	}
}

// Start begins scheduled pipeline runs. An empty cron spec disables the
// scheduler without error; an invalid one is a configuration fault.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" {
		s.logger.Info("schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		s.runPipeline(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pipeline: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPipeline executes one scheduled pass.
func (s *Scheduler) runPipeline(ctx context.Context) {
	s.logger.Info("starting scheduled pipeline run")

	rec, err := s.pipeline.RunOnce(ctx)
	if err != nil {
		s.logger.Error("scheduled pipeline run failed", "error", err)
		return
	}

	s.logger.Info("scheduled pipeline run completed",
		"race_id", rec.ID,
		"status", rec.Status,
		"winner", rec.Winner,
	)
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run time, nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
