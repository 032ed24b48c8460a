package testutil

import (
	"sync"
	"time"
)

// DefaultStart is the instant a DeterministicClock starts at when none is given.
var DefaultStart = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

// DeterministicClock is a fake wall clock for tests.
//
// Every call to Now returns the previous instant plus a fixed step, so report
// timestamps and durations are identical across runs and golden snapshots
// stay stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	ticks int64
}

// NewDeterministicClock creates a clock starting at start and advancing by
// step on every Now. A zero start uses DefaultStart.
//
// The first call to Now() returns start itself.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultStart
	}
	return &DeterministicClock{start: start, step: step}
}

// Now returns the current instant and advances the clock by one step.
//
// Monotonic: never returns an instant earlier than a previous call.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return t
}
