package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found in the current snapshot.
	ErrNotFound = errors.New("not found")

	// ErrNotReady indicates that no graph snapshot has been published yet.
	// Callers should retry once the first build completes.
	ErrNotReady = errors.New("graph not ready")

	// ErrCacheUnavailable indicates that the document cache location is missing
	// entirely. This is fatal at startup since there is no corpus to build from.
	ErrCacheUnavailable = errors.New("document cache unavailable")

	// ErrRecordUnreadable indicates that a single cached record could not be
	// parsed. Unreadable records are skipped, never fatal.
	ErrRecordUnreadable = errors.New("record unreadable")

	// ErrBuildFailed indicates that a graph build completed with skipped records.
	ErrBuildFailed = errors.New("build failed")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates that the request was rate limited.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RecordError describes why a single cached record was skipped during load or build.
type RecordError struct {
	RecordID string
	Path     string
	Cause    error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("record %s (%s): %v", e.RecordID, e.Path, e.Cause)
	}
	return fmt.Sprintf("record %s: %v", e.RecordID, e.Cause)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *RecordError) Unwrap() error {
	return ErrRecordUnreadable
}

// BuildError aggregates per-record failures from a graph build pass.
// The build skips offending records and continues; the aggregate is
// reported once after the pass completes.
type BuildError struct {
	Skipped []RecordError
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	ids := make([]string, len(e.Skipped))
	for i, re := range e.Skipped {
		ids[i] = re.RecordID
	}
	return fmt.Sprintf("build skipped %d record(s): %s", len(e.Skipped), strings.Join(ids, ", "))
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *BuildError) Unwrap() error {
	return ErrBuildFailed
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRecordError creates a new RecordError.
func NewRecordError(recordID, path string, cause error) *RecordError {
	return &RecordError{
		RecordID: recordID,
		Path:     path,
		Cause:    cause,
	}
}
