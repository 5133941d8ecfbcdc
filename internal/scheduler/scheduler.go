// Package scheduler triggers sync runs on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

// Config contains schedule settings.
type Config struct {
	Enabled    bool          `env:"SCHEDULE_ENABLED"      envDefault:"true"`
	Interval   time.Duration `env:"SCHEDULE_INTERVAL"     envDefault:"24h"`
	RunOnStart bool          `env:"SCHEDULE_RUN_ON_START" envDefault:"false"`
}

// Runner executes one pipeline run.
type Runner interface {
	RunOnce(ctx context.Context) (*domain.RunResult, error)
}

// Scheduler runs the pipeline, waits for the interval, and repeats.
// The timer is only re-armed after a run has finished, so runs never overlap
// and a slow run pushes the next one back.
type Scheduler struct {
	runner   Runner
	state    *domain.State
	interval time.Duration
	onStart  bool
}

// New creates a scheduler. state may be nil.
func New(config Config, runner Runner, state *domain.State) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	if config.Interval <= 0 {
		return nil, errors.New("schedule interval must be positive")
	}

	return &Scheduler{
		runner:   runner,
		state:    state,
		interval: config.Interval,
		onStart:  config.RunOnStart,
	}, nil
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	logger := observability.FromContext(ctx)
	logger.Info("scheduler started",
		observability.Duration("interval", s.interval),
		observability.Bool("run_on_start", s.onStart))

	if s.onStart {
		s.run(ctx)
	}

	for {
		timer := time.NewTimer(s.interval)
		s.markNext()

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("scheduler stopped")
			return
		case <-timer.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) markNext() {
	if s.state == nil {
		return
	}
	s.state.SetSchedule(time.Now().Add(s.interval).UTC(), s.interval)
}

// run never propagates errors; the next tick is scheduled regardless.
func (s *Scheduler) run(ctx context.Context) {
	logger := observability.FromContext(ctx)
	logger.Info("scheduled sync run starting")

	result, err := s.runner.RunOnce(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		logger.Warn("scheduled sync run skipped, another run is in progress")
	case err != nil:
		logger.Error("scheduled sync run failed", observability.Error(err))
	case result != nil:
		logger.Info("scheduled sync run finished",
			observability.String("message", result.Message),
			observability.String("pr_url", result.PRURL))
	}
}
