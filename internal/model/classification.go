// Package model defines the core domain models used throughout the application.
package model

import "time"

// Operation names a kind of remote call for logging and accounting.
type Operation string

// Remote operations.
const (
	OperationClassify       Operation = "classify"
	OperationTestConnection Operation = "test_connection"
	OperationGroup          Operation = "group"
	OperationAnalyzePrompt  Operation = "analyze_prompt"
)

// ClassificationResult is the outcome of one attempted remote call.
// A failed result never carries a category or summary, and a successful one
// never carries an error message.
type ClassificationResult struct {
	Category      *Category
	Operation     Operation
	RequestID     string
	ErrorMessage  string
	Summary       string
	Latency       time.Duration
	EstimatedCost float64
	Success       bool
}

// NewSuccessResult builds a successful result. A nil category is allowed for
// calls that do not classify (connection tests, grouping).
func NewSuccessResult(op Operation, category *Category, summary string, latency time.Duration, cost float64) ClassificationResult {
	if cost < 0 {
		cost = 0
	}
	return ClassificationResult{
		Success:       true,
		Operation:     op,
		Category:      category,
		Summary:       summary,
		Latency:       latency,
		EstimatedCost: cost,
	}
}

// NewFailureResult builds a failed result with a human-readable message.
func NewFailureResult(op Operation, message string, latency time.Duration) ClassificationResult {
	if message == "" {
		message = "remote call failed"
	}
	return ClassificationResult{
		Success:      false,
		Operation:    op,
		ErrorMessage: message,
		Latency:      latency,
	}
}

// CategoryName returns the category display name, or an empty string when
// the result carries no category.
func (r ClassificationResult) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return r.Category.String()
}
