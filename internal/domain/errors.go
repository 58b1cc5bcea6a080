package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals an invalid request body or field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidQuery signals a list query string that failed validation.
	ErrInvalidQuery = errors.New("Invalid Query") //nolint:staticcheck // rendered verbatim to clients
	// ErrOffsetOutOfBounds signals a pagination offset past the end of a non-empty result.
	ErrOffsetOutOfBounds = errors.New("Offset is out of bounds") //nolint:staticcheck // rendered verbatim to clients

	// ErrUnauthorized signals missing or invalid credentials.
	ErrUnauthorized = errors.New("Unauthorized") //nolint:staticcheck // rendered verbatim to clients
	// ErrForbidden signals an authenticated caller acting on someone else's resource.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrMisconfigured signals a programming or wiring error. Never shown to clients.
	ErrMisconfigured = errors.New("misconfigured")
	// ErrImageHostDisabled signals that no image host is configured.
	ErrImageHostDisabled = errors.New("image host disabled")
	// ErrImageHostFailed signals an image host API error.
	ErrImageHostFailed = errors.New("image host failed")
)

// NotFoundError wraps ErrNotFound with the kind of resource that is missing.
// Message overrides the default "No <kind> with that ID".
type NotFoundError struct {
	Kind    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("No %s with that ID", e.Kind)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not-found error for a resource kind ("recipe", "user").
func NewNotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// ValidationError wraps ErrInvalidInput with a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation creates a validation error.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError wraps ErrAlreadyExists with a client-facing message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// NewConflict creates a conflict error.
func NewConflict(message string) error {
	return &ConflictError{Message: message}
}
