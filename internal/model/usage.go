package model

import "time"

// UsageStats summarizes remote usage for the current day and month.
type UsageStats struct {
	LastRequestTime   *time.Time
	LastError         string
	RequestsToday     int
	RequestsThisMonth int
	ErrorsToday       int
	CostThisMonth     float64
}

// UsageSnapshot is the persisted form of the usage ledger and rate governor.
// Day and Month are the period markers the counters belong to.
type UsageSnapshot struct {
	LastCallStart *time.Time
	Day           string
	Month         string
	Stats         UsageStats
}

// Period marker layouts.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)
