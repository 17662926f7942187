package llm

import (
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/conchis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successResult(cost float64) model.ClassificationResult {
	category := model.CategoryText
	return model.NewSuccessResult(model.OperationClassify, &category, "", time.Millisecond, cost)
}

func failureResult(message string) model.ClassificationResult {
	return model.NewFailureResult(model.OperationClassify, message, time.Millisecond)
}

func TestLedger_RecordCompletion(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("successes add requests and cost", func(t *testing.T) {
		clock := newFakeClock(now)
		l := NewLedger(clock.Now)

		const n = 7
		const cost = 0.0125
		for i := 0; i < n; i++ {
			l.RecordCompletion(successResult(cost))
		}

		stats := l.Stats()
		assert.Equal(t, n, stats.RequestsToday)
		assert.Equal(t, n, stats.RequestsThisMonth)
		assert.Equal(t, 0, stats.ErrorsToday)
		assert.InDelta(t, n*cost, stats.CostThisMonth, 1e-9)
		assert.Empty(t, stats.LastError)
		require.NotNil(t, stats.LastRequestTime)
		assert.Equal(t, now, *stats.LastRequestTime)
	})

	t.Run("failures count as errors and carry no cost", func(t *testing.T) {
		clock := newFakeClock(now)
		l := NewLedger(clock.Now)

		l.RecordCompletion(successResult(0.5))
		l.RecordCompletion(failureResult("transport failure: timeout"))
		clock.Advance(time.Minute)
		l.RecordCompletion(failureResult("malformed reply: not json"))

		stats := l.Stats()
		assert.Equal(t, 3, stats.RequestsToday)
		assert.Equal(t, 2, stats.ErrorsToday)
		assert.InDelta(t, 0.5, stats.CostThisMonth, 1e-9)
		assert.Equal(t, "malformed reply: not json", stats.LastError)
		require.NotNil(t, stats.LastRequestTime)
		assert.Equal(t, now.Add(time.Minute), *stats.LastRequestTime)
	})

	t.Run("stats are a copy", func(t *testing.T) {
		clock := newFakeClock(now)
		l := NewLedger(clock.Now)
		l.RecordCompletion(successResult(0))

		stats := l.Stats()
		*stats.LastRequestTime = time.Time{}
		stats.RequestsToday = 100

		again := l.Stats()
		assert.Equal(t, 1, again.RequestsToday)
		assert.Equal(t, now, *again.LastRequestTime)
	})
}

func TestLedger_Rollover(t *testing.T) {
	today := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	t.Run("day rollover on query", func(t *testing.T) {
		clock := newFakeClock(today)
		l := NewLedger(clock.Now)
		l.Restore(model.UsageSnapshot{
			Day:   yesterday.Format(model.DayLayout),
			Month: yesterday.Format(model.MonthLayout),
			Stats: model.UsageStats{
				RequestsToday:     5,
				RequestsThisMonth: 9,
				ErrorsToday:       2,
				CostThisMonth:     1.25,
				LastError:         "old failure",
			},
		})

		stats := l.Stats()
		assert.Equal(t, 0, stats.RequestsToday)
		assert.Equal(t, 0, stats.ErrorsToday)
		assert.Equal(t, 9, stats.RequestsThisMonth, "same month keeps monthly counters")
		assert.InDelta(t, 1.25, stats.CostThisMonth, 1e-9)
	})

	t.Run("day rollover before applying a record", func(t *testing.T) {
		clock := newFakeClock(yesterday)
		l := NewLedger(clock.Now)
		for i := 0; i < 5; i++ {
			l.RecordCompletion(successResult(0.1))
		}

		clock.Set(today)
		l.RecordCompletion(failureResult("boom"))

		stats := l.Stats()
		assert.Equal(t, 1, stats.RequestsToday)
		assert.Equal(t, 1, stats.ErrorsToday)
		assert.Equal(t, 6, stats.RequestsThisMonth)
	})

	t.Run("month rollover resets monthly counters and cost", func(t *testing.T) {
		lastOfMonth := time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)
		clock := newFakeClock(lastOfMonth)
		l := NewLedger(clock.Now)
		l.RecordCompletion(successResult(2))
		l.RecordCompletion(successResult(3))

		clock.Set(time.Date(2026, 10, 1, 0, 30, 0, 0, time.UTC))
		stats := l.Stats()
		assert.Equal(t, 0, stats.RequestsToday)
		assert.Equal(t, 0, stats.RequestsThisMonth)
		assert.InDelta(t, 0, stats.CostThisMonth, 1e-9)
		require.NotNil(t, stats.LastRequestTime, "last request time survives rollover")
	})
}

func TestLedger_ResetAndSnapshot(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	l := NewLedger(clock.Now)

	l.RecordCompletion(successResult(0.2))
	l.RecordCompletion(failureResult("nope"))

	snapshot := l.Snapshot()
	assert.Equal(t, "2026-10-19", snapshot.Day)
	assert.Equal(t, "2026-10", snapshot.Month)
	assert.Equal(t, 2, snapshot.Stats.RequestsToday)

	l.Reset()
	stats := l.Stats()
	assert.Equal(t, model.UsageStats{}, stats)

	restored := NewLedger(clock.Now)
	restored.Restore(snapshot)
	assert.Equal(t, 2, restored.Stats().RequestsToday)
	assert.Equal(t, "nope", restored.Stats().LastError)
}

func TestLedger_ConcurrentRecords(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	l := NewLedger(clock.Now)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if j%5 == 0 {
					l.RecordCompletion(failureResult("x"))
				} else {
					l.RecordCompletion(successResult(0.01))
				}
			}
		}(i)
	}
	wg.Wait()

	stats := l.Stats()
	assert.Equal(t, 500, stats.RequestsToday)
	assert.Equal(t, 100, stats.ErrorsToday)
	assert.InDelta(t, 4.0, stats.CostThisMonth, 1e-9)
}
