package llm

import (
	"sync"
	"time"
)

// Clock returns the current wall-clock time. Tests substitute a fixed clock.
type Clock func() time.Time

// RateLimitState is the governor's view of the last attempted call.
type RateLimitState struct {
	LastRequest     *time.Time
	MinimumInterval time.Duration
}

// Governor enforces a fixed minimum interval between the starts of
// consecutive remote calls. It never blocks or queues: callers ask and are
// told yes or no.
type Governor struct {
	now      Clock
	last     time.Time
	interval time.Duration
	mu       sync.Mutex
}

// NewGovernor creates a governor with the given minimum interval.
func NewGovernor(minInterval time.Duration, clock Clock) *Governor {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if clock == nil {
		clock = time.Now
	}

	return &Governor{
		now:      clock,
		interval: minInterval,
	}
}

// IsRateLimited reports whether a call started now would come too soon
// after the previous call start.
func (g *Governor) IsRateLimited() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked(g.now()) > 0
}

// UntilNextRequest returns how long until a call would be permitted, or zero
// if one is permitted now.
func (g *Governor) UntilNextRequest() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked(g.now())
}

// TryAcquire checks the governor and, if permitted, stamps the call start
// in the same critical section. Denied attempts leave the state untouched.
func (g *Governor) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.remainingLocked(now) > 0 {
		return false
	}
	g.last = now
	return true
}

// State returns a copy of the governor state.
func (g *Governor) State() RateLimitState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := RateLimitState{MinimumInterval: g.interval}
	if !g.last.IsZero() {
		last := g.last
		state.LastRequest = &last
	}
	return state
}

// Restore sets the last call start, typically from persisted state.
func (g *Governor) Restore(last *time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if last == nil {
		g.last = time.Time{}
		return
	}
	g.last = *last
}

// Reset forgets the last call start.
func (g *Governor) Reset() {
	g.Restore(nil)
}

func (g *Governor) remainingLocked(now time.Time) time.Duration {
	if g.last.IsZero() {
		return 0
	}

	elapsed := now.Sub(g.last)
	if elapsed < 0 {
		// Clock moved backwards: wait one full interval, never longer.
		elapsed = 0
	}

	if remaining := g.interval - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}
