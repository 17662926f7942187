package llm

import (
	"sync"
	"time"

	"github.com/Veraticus/conchis/internal/model"
)

// Ledger accumulates usage counters for completed remote calls. Counters
// roll over lazily: every access compares the current day and month to the
// markers the counters were recorded under.
type Ledger struct {
	now   Clock
	day   string
	month string
	stats model.UsageStats
	mu    sync.Mutex
}

// NewLedger creates an empty ledger.
func NewLedger(clock Clock) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{now: clock}
}

// RecordCompletion applies the outcome of one attempted remote call.
func (l *Ledger) RecordCompletion(result model.ClassificationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.rollLocked(now)

	l.stats.RequestsToday++
	l.stats.RequestsThisMonth++

	if result.Success {
		if result.EstimatedCost > 0 {
			l.stats.CostThisMonth += result.EstimatedCost
		}
	} else {
		l.stats.ErrorsToday++
		l.stats.LastError = result.ErrorMessage
	}

	completed := now
	l.stats.LastRequestTime = &completed
}

// Stats returns a copy of the current counters after applying rollover.
func (l *Ledger) Stats() model.UsageStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollLocked(l.now())
	return copyStats(l.stats)
}

// Reset zeroes all counters and clears timestamps and errors. It is never
// called automatically.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats = model.UsageStats{}
	l.day = ""
	l.month = ""
}

// Snapshot returns the counters with their period markers, without rolling
// them over, for persistence.
func (l *Ledger) Snapshot() model.UsageSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return model.UsageSnapshot{
		Stats: copyStats(l.stats),
		Day:   l.day,
		Month: l.month,
	}
}

// Restore replaces the ledger contents with a persisted snapshot. Rollover
// is applied on the next access.
func (l *Ledger) Restore(snapshot model.UsageSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats = copyStats(snapshot.Stats)
	l.day = snapshot.Day
	l.month = snapshot.Month
}

func (l *Ledger) rollLocked(now time.Time) {
	day := now.Format(model.DayLayout)
	month := now.Format(model.MonthLayout)

	if l.day != day {
		l.stats.RequestsToday = 0
		l.stats.ErrorsToday = 0
		l.day = day
	}
	if l.month != month {
		l.stats.RequestsThisMonth = 0
		l.stats.CostThisMonth = 0
		l.month = month
	}
}

func copyStats(stats model.UsageStats) model.UsageStats {
	out := stats
	if stats.LastRequestTime != nil {
		t := *stats.LastRequestTime
		out.LastRequestTime = &t
	}
	return out
}
