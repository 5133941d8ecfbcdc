package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/scheduler"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func (r *countingRunner) RunOnce(_ context.Context) (*domain.RunResult, error) {
	r.calls.Add(1)
	select {
	case r.ran <- struct{}{}:
	default:
	}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RunResult{Success: true, Message: "ok"}, nil
}

func TestNew_Validation(t *testing.T) {
	_, err := scheduler.New(scheduler.Config{Interval: time.Hour}, nil, nil)
	require.Error(t, err)

	_, err = scheduler.New(scheduler.Config{Interval: 0}, &countingRunner{}, nil)
	require.Error(t, err)
}

func TestScheduler_RunsOnIntervalAndStops(t *testing.T) {
	runner := &countingRunner{ran: make(chan struct{}, 1)}
	state := domain.NewState()

	s, err := scheduler.New(scheduler.Config{Interval: 10 * time.Millisecond}, runner, state)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	<-runner.ran
	<-runner.ran
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	require.GreaterOrEqual(t, runner.calls.Load(), int32(2))

	snap := state.Snapshot()
	require.NotNil(t, snap.NextRun)
	require.Equal(t, 10*time.Millisecond, snap.Interval)
}

func TestScheduler_RunOnStartAndSurvivesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected", domain.ErrRunInProgress},
		{"failed", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &countingRunner{err: tt.err, ran: make(chan struct{}, 1)}

			s, err := scheduler.New(scheduler.Config{Interval: time.Hour, RunOnStart: true}, runner, nil)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				s.Start(ctx)
				close(done)
			}()

			<-runner.ran
			cancel()
			<-done

			require.Equal(t, int32(1), runner.calls.Load())
		})
	}
}

type span struct {
	start, end time.Time
	nextRun    *time.Time
}

// slowRunner takes longer than the schedule interval on every run.
type slowRunner struct {
	mu      sync.Mutex
	spans   []span
	active  atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
	state   *domain.State
	done    chan struct{}
	want    int
}

func (r *slowRunner) RunOnce(_ context.Context) (*domain.RunResult, error) {
	if r.active.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.active.Add(-1)

	current := span{start: time.Now(), nextRun: r.state.Snapshot().NextRun}
	time.Sleep(r.delay)
	current.end = time.Now()

	r.mu.Lock()
	r.spans = append(r.spans, current)
	if len(r.spans) == r.want {
		close(r.done)
	}
	r.mu.Unlock()

	return &domain.RunResult{Success: true}, nil
}

func TestScheduler_ReArmsOnlyAfterRunFinishes(t *testing.T) {
	const interval = 20 * time.Millisecond

	state := domain.NewState()
	runner := &slowRunner{delay: 3 * interval, state: state, done: make(chan struct{}), want: 3}

	s, err := scheduler.New(scheduler.Config{Interval: interval}, runner, state)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(stopped)
	}()

	select {
	case <-runner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not complete three runs")
	}
	cancel()
	<-stopped

	require.False(t, runner.overlap.Load(), "runs overlapped")

	runner.mu.Lock()
	defer runner.mu.Unlock()

	for i := 1; i < len(runner.spans); i++ {
		prev, next := runner.spans[i-1], runner.spans[i]
		require.GreaterOrEqual(t, next.start.Sub(prev.end), interval)

		// The next run was scheduled from the end of the previous one.
		require.NotNil(t, next.nextRun)
		require.False(t, next.nextRun.Before(prev.end.Add(interval)))
	}

	last := runner.spans[len(runner.spans)-1]
	snap := state.Snapshot()
	require.NotNil(t, snap.NextRun)
	require.False(t, snap.NextRun.Before(last.end.Add(interval)))
}
