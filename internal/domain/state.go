package domain

import (
	"sync"
	"time"
)

// Status values reported by the status surface.
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
)

// StateSnapshot is a point-in-time copy of State.
type StateSnapshot struct {
	Running    bool
	LastRun    *time.Time
	LastResult *RunResult
	NextRun    *time.Time
	Interval   time.Duration
}

// Status returns idle or running.
func (s StateSnapshot) Status() string {
	if s.Running {
		return StatusRunning
	}
	return StatusIdle
}

// State is the run state shared between the orchestrator, the scheduler and
// the status surface.
type State struct {
	mu         sync.RWMutex
	running    bool
	lastRun    time.Time
	lastResult *RunResult
	nextRun    time.Time
	interval   time.Duration
}

// NewState creates an idle state.
func NewState() *State {
	return &State{}
}

func (s *State) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
}

func (s *State) finish(result *RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if result != nil {
		copied := *result
		s.lastResult = &copied
		s.lastRun = result.StartedAt
	}
}

// SetSchedule records the next scheduled run and the interval between runs.
func (s *State) SetSchedule(next time.Time, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun = next
	s.interval = interval
}

// Snapshot returns a copy safe to hand to other goroutines.
func (s *State) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := StateSnapshot{
		Running:  s.running,
		Interval: s.interval,
	}

	if !s.lastRun.IsZero() {
		lastRun := s.lastRun
		snap.LastRun = &lastRun
	}
	if s.lastResult != nil {
		result := *s.lastResult
		snap.LastResult = &result
	}
	if !s.nextRun.IsZero() {
		nextRun := s.nextRun
		snap.NextRun = &nextRun
	}

	return snap
}
