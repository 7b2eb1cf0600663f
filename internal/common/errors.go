// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Outcome errors. Every rejected operation wraps exactly one of these.
var (
	// ErrUnauthorized means a mutation was attempted outside edit mode.
	ErrUnauthorized = errors.New("not authorized")
	// ErrInvalidInput means an input broke a constraint.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound means a referenced subject, profile, or year/class combination is absent.
	ErrNotFound = errors.New("not found")
	// ErrExternalFailure means the AI service or a report renderer failed.
	ErrExternalFailure = errors.New("external failure")
)

// Supporting errors.
var (
	// ErrRateLimit indicates that the AI provider rejected a request for rate reasons.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrMissingConfig indicates a required configuration value is absent.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Outcome classifies the result of an operation.
type Outcome string

// Outcome values.
const (
	Success         Outcome = "success"
	Unauthorized    Outcome = "unauthorized"
	InvalidInput    Outcome = "invalid_input"
	NotFound        Outcome = "not_found"
	ExternalFailure Outcome = "external_failure"
)

// OutcomeOf maps an error onto its outcome. Errors that wrap none of the outcome
// sentinels count as external failures.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, ErrNotFound):
		return NotFound
	default:
		return ExternalFailure
	}
}

// Invalidf wraps ErrInvalidInput with a formatted reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted reason.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// External wraps an error from an outside collaborator as ErrExternalFailure.
func External(op string, err error) error {
	if errors.Is(err, ErrExternalFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrExternalFailure, op, err)
}

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
