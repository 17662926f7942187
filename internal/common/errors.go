// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Remote call gating. Neither is counted by the usage ledger since no
	// call was attempted.
	ErrNotConfigured = errors.New("no API key configured")
	ErrRateLimited   = errors.New("rate limited")

	// Remote call failures. Both are counted as ledger errors.
	ErrTransport      = errors.New("transport failure")
	ErrMalformedReply = errors.New("malformed reply")

	// Caller errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRemoteFailure reports whether err represents an attempted remote call
// that failed, as opposed to a call that was never attempted.
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrMalformedReply)
}
