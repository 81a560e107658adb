// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Pipeline errors. Each one ends a single notification's processing and
// never the process.
var (
	// Extraction errors.
	ErrNoCandidate     = errors.New("no transaction candidate")
	ErrExternalService = errors.New("external service unavailable")

	// Deduplication errors.
	ErrDuplicateCandidate = errors.New("duplicate candidate")

	// Enrichment errors.
	ErrNoSession      = errors.New("no active session")
	ErrMissingAccount = errors.New("missing account id")

	// Submission errors.
	ErrTransport = errors.New("transport failure")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
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
