package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/conchis/internal/model"
)

// LoadUsage returns the persisted usage snapshot, or nil if none was saved.
func (s *SQLiteStorage) LoadUsage(ctx context.Context) (*model.UsageSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var snapshot model.UsageSnapshot
	var lastRequest, lastCallStart sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT day, month, requests_today, requests_this_month, errors_today,
			cost_this_month, last_request_time, last_error, last_call_start
		FROM usage_state
		WHERE id = 1
	`).Scan(
		&snapshot.Day,
		&snapshot.Month,
		&snapshot.Stats.RequestsToday,
		&snapshot.Stats.RequestsThisMonth,
		&snapshot.Stats.ErrorsToday,
		&snapshot.Stats.CostThisMonth,
		&lastRequest,
		&snapshot.Stats.LastError,
		&lastCallStart,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load usage state: %w", err)
	}

	snapshot.Stats.LastRequestTime = timePtr(lastRequest)
	snapshot.LastCallStart = timePtr(lastCallStart)
	return &snapshot, nil
}

// SaveUsage upserts the usage snapshot.
func (s *SQLiteStorage) SaveUsage(ctx context.Context, snapshot model.UsageSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUsage(snapshot); err != nil {
		return err
	}

	stats := snapshot.Stats
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_state (
			id, day, month, requests_today, requests_this_month, errors_today,
			cost_this_month, last_request_time, last_error, last_call_start, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			day = excluded.day,
			month = excluded.month,
			requests_today = excluded.requests_today,
			requests_this_month = excluded.requests_this_month,
			errors_today = excluded.errors_today,
			cost_this_month = excluded.cost_this_month,
			last_request_time = excluded.last_request_time,
			last_error = excluded.last_error,
			last_call_start = excluded.last_call_start,
			updated_at = excluded.updated_at
	`,
		snapshot.Day,
		snapshot.Month,
		stats.RequestsToday,
		stats.RequestsThisMonth,
		stats.ErrorsToday,
		stats.CostThisMonth,
		nullTime(stats.LastRequestTime),
		stats.LastError,
		nullTime(snapshot.LastCallStart),
	)
	if err != nil {
		return fmt.Errorf("failed to save usage state: %w", err)
	}
	return nil
}

// ClearUsage deletes the persisted usage snapshot.
func (s *SQLiteStorage) ClearUsage(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM usage_state`); err != nil {
		return fmt.Errorf("failed to clear usage state: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
