// Package errs declares the error kinds shared by the ledger, workflow and
// goal services and by both storage backends.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a child, request or goal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a decision is applied to a request
	// that is no longer pending.
	ErrInvalidState = errors.New("request is not pending")

	// ErrInsufficientFunds is returned when an amount exceeds the balance
	// derived from the transaction log.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded is returned when an amount breaks the monthly
	// spending limit or the advance cap.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrBackendUnavailable is returned only when both storage backends
	// fail to serve an operation.
	ErrBackendUnavailable = errors.New("no storage backend available")
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
