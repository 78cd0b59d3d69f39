package memory

import (
	"context"
	"sync"
	"time"

	"github.com/campusverein/member-portal/internal/core/ports"
)

const (
	// DefaultWindow and DefaultThreshold implement the at-most-5-failures-
	// per-15-minutes login policy.
	DefaultWindow    = 900 * time.Second
	DefaultThreshold = 5
)

// RateLimiter tracks failed login timestamps per client address in a
// sliding window. Each address has its own slice; pruning happens per
// address on write, so unrelated addresses never contend beyond the map
// lock itself.
type RateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	threshold int
	clock     ports.Clock
	failures  map[string][]time.Time
}

// NewRateLimiter builds a limiter; non-positive window or threshold fall
// back to the defaults.
func NewRateLimiter(window time.Duration, threshold int, clock ports.Clock) *RateLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &RateLimiter{
		window:    window,
		threshold: threshold,
		clock:     clock,
		failures:  make(map[string][]time.Time),
	}
}

// IsLimited is a read-only classification: it counts in-window failures
// for the address without mutating the record.
func (l *RateLimiter) IsLimited(_ context.Context, address string) (bool, error) {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, ts := range l.failures[address] {
		if !ts.Before(cutoff) {
			count++
		}
	}
	return count >= l.threshold, nil
}

// RecordFailure appends the current time to the address's record and
// prunes entries that have left the window. An address whose entries all
// expire disappears from the map entirely.
func (l *RateLimiter) RecordFailure(_ context.Context, address string) error {
	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.failures[address][:0]
	for _, ts := range l.failures[address] {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.failures[address] = append(kept, now)
	return nil
}
