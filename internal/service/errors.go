package service

import (
	"errors"
	"fmt"

	"notes-explorer/internal/indexer"
	"notes-explorer/internal/llm"
	"notes-explorer/internal/rag"
	"notes-explorer/internal/storage"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrConflict is returned when the request collides with work already running.
	ErrConflict = errors.New("conflict")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// classify wraps err with the service sentinel matching its cause, so
// transports can map it without knowing the lower layers.
func classify(err error, msg string) error {
	var (
		transportErr *llm.TransportError
		sentinel     error
	)
	switch {
	case errors.As(err, &transportErr):
		sentinel = ErrExternalService
	case errors.Is(err, indexer.ErrIngestInProgress):
		sentinel = ErrConflict
	case errors.Is(err, rag.ErrEmptyQuery):
		sentinel = ErrInvalidInput
	case errors.Is(err, storage.ErrNotFound):
		sentinel = ErrNotFound
	default:
		return WrapError(err, msg)
	}
	return fmt.Errorf("%s: %w: %w", msg, sentinel, err)
}
