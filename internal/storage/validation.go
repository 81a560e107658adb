// Package storage provides the data persistence layer for spicewatch.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spicewatch/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidSubmission = errors.New("invalid submission record")
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

// validateSubmission validates a journal record before insert.
func validateSubmission(record *model.SubmissionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidSubmission)
	}
	if record.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction ID", ErrInvalidSubmission)
	}
	if record.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidSubmission)
	}
	if record.SubmittedAt.IsZero() {
		return fmt.Errorf("%w: missing submission time", ErrInvalidSubmission)
	}
	return nil
}
