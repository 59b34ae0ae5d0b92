// Package errors provides sentinel errors and structured error types for
// create-computelabs-app.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input or an invalid template manifest.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a template, overlay, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrVersion indicates an unsupported Node.js runtime version.
	ErrVersion = errors.New("version mismatch")

	// ErrFilesystem indicates a failure while writing the generated project.
	ErrFilesystem = errors.New("filesystem error")

	// ErrCancelled indicates the user declined to continue.
	// It is not a failure: the process exits with status 0.
	ErrCancelled = errors.New("operation cancelled")
)

// DetailError captures structured error information for terminal display.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is a file or directory path (optional).
	Location string

	// Field names the offending input, for example a flag or manifest key (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewVersionError creates a runtime version error with details.
func NewVersionError(message string, context map[string]string, hint string) error {
	return &DetailError{
		Type:    "unsupported runtime",
		Message: message,
		Context: context,
		Hint:    hint,
		Cause:   ErrVersion,
	}
}

// NewFilesystemError creates a filesystem error that keeps the original cause
// reachable through errors.Is and errors.As.
func NewFilesystemError(message, location string, cause error) error {
	return &DetailError{
		Type:     "filesystem operation failed",
		Message:  message,
		Location: location,
		Cause:    fmt.Errorf("%w: %w", ErrFilesystem, cause),
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
