package health

import (
	"context"
	"time"
)

// CheckType identifies how a check reaches the service
type CheckType string

const (
	CheckTypeHTTP CheckType = "http"
	CheckTypeTCP  CheckType = "tcp"
	CheckTypeExec CheckType = "exec"
)

// Result is the outcome of a single check
type Result struct {
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Checker probes one service one way. Implementations carry their own
// timeout; ctx cancels an in-flight probe.
type Checker interface {
	Check(ctx context.Context) Result
	Type() CheckType
}

// Config shapes a probe sequence
type Config struct {
	// Interval spaces consecutive checks
	Interval time.Duration

	// Timeout bounds a single check
	Timeout time.Duration

	// Retries is how many consecutive failures flip a status unhealthy
	Retries int

	// StartPeriod is a grace window for slow-starting services during
	// which failures do not count against the status
	StartPeriod time.Duration
}

// DefaultConfig returns the probe defaults used when a command carries
// no health parameters
func DefaultConfig() Config {
	return Config{
		Interval: 2 * time.Second,
		Timeout:  10 * time.Second,
		Retries:  3,
	}
}

// Status accumulates check results into a health verdict
type Status struct {
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastCheck            time.Time
	LastResult           Result
	Healthy              bool
	StartedAt            time.Time
}

// NewStatus starts optimistic: healthy until failures accumulate
func NewStatus() *Status {
	return &Status{
		Healthy:   true,
		StartedAt: time.Now(),
	}
}

// Update folds a result into the status. A single success resets the
// failure streak; unhealthy requires Retries consecutive failures.
func (s *Status) Update(result Result, cfg Config) {
	s.LastCheck = result.CheckedAt
	s.LastResult = result

	if result.Healthy {
		s.ConsecutiveSuccesses++
		s.ConsecutiveFailures = 0
		s.Healthy = true
		return
	}

	s.ConsecutiveSuccesses = 0
	if s.InStartPeriod(cfg) {
		return
	}
	s.ConsecutiveFailures++
	if s.ConsecutiveFailures >= cfg.Retries {
		s.Healthy = false
	}
}

// InStartPeriod reports whether failures are still forgiven
func (s *Status) InStartPeriod(cfg Config) bool {
	if cfg.StartPeriod == 0 {
		return false
	}
	return time.Since(s.StartedAt) < cfg.StartPeriod
}

// Probe runs the checker until it succeeds once or the failure budget
// is spent. The last result is returned either way; ctx cuts the
// probe short.
func Probe(ctx context.Context, checker Checker, cfg Config) Result {
	status := NewStatus()
	for {
		result := checker.Check(ctx)
		status.Update(result, cfg)

		if result.Healthy || !status.Healthy {
			return result
		}
		select {
		case <-ctx.Done():
			return result
		case <-time.After(cfg.Interval):
		}
	}
}
