// Package storage provides the data persistence layer for conchis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidPrompt  = errors.New("invalid prompt")
	ErrInvalidUsage   = errors.New("invalid usage state")
	ErrPromptNotFound = fmt.Errorf("%w: no prompt at position", common.ErrInvalidArgument)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePrompt validates a single prompt entry.
func validatePrompt(entry model.PromptEntry) error {
	if strings.TrimSpace(entry.Text) == "" {
		return fmt.Errorf("%w: missing text", ErrInvalidPrompt)
	}
	for _, tag := range entry.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: blank tag", ErrInvalidPrompt)
		}
	}
	return nil
}

// validateUsage validates a usage snapshot before it is written.
func validateUsage(snapshot model.UsageSnapshot) error {
	stats := snapshot.Stats
	if stats.RequestsToday < 0 || stats.RequestsThisMonth < 0 || stats.ErrorsToday < 0 {
		return fmt.Errorf("%w: negative counter", ErrInvalidUsage)
	}
	if stats.CostThisMonth < 0 || math.IsNaN(stats.CostThisMonth) || math.IsInf(stats.CostThisMonth, 0) {
		return fmt.Errorf("%w: cost must be a finite non-negative number", ErrInvalidUsage)
	}
	if stats.ErrorsToday > stats.RequestsToday {
		return fmt.Errorf("%w: more errors than requests today", ErrInvalidUsage)
	}
	return nil
}
