package errors

import "errors"

// Exit codes. Every failure leaves the process with ExitGeneralError; the
// finer codes classify errors for logging only.
const (
	// ExitSuccess indicates the command completed or was cancelled by the user.
	ExitSuccess = 0

	// ExitGeneralError indicates any failure.
	ExitGeneralError = 1
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed reports whether the command layer already displayed the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the exit code for an error.
// Cancellation is a success; everything else is a general error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, ErrCancelled) {
		return ExitSuccess
	}
	return ExitGeneralError
}

// Category returns a short label for the error class, used in debug logs.
func Category(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrVersion):
		return "version"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrFilesystem):
		return "filesystem"
	default:
		return "unexpected"
	}
}
