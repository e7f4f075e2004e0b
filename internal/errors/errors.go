// Package errors provides custom error types and exit codes for syscerts.
package errors

import (
	"errors"
	"fmt"
)

// OpError is a custom error type that provides context about operations.
type OpError struct {
	Op   string // Operation being performed (e.g., "expand path", "write bundle")
	Path string // File/cert path involved
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Predefined errors for common scenarios.
var (
	ErrNotAbsolute    = fmt.Errorf("certificate path is not absolute")
	ErrNotFound       = fmt.Errorf("certificate path not found as file or directory")
	ErrNoPEM          = fmt.Errorf("no PEM data found")
	ErrNoReader       = fmt.Errorf("no trust store reader for this platform")
	ErrLockTimeout    = fmt.Errorf("timed out waiting for lock")
	ErrConfigExists   = fmt.Errorf("configuration file already exists")
	ErrEmptyBundle    = fmt.Errorf("no certificate material to write")
	ErrReaderPanicked = fmt.Errorf("trust store reader panicked")
)

// Exit codes - use these constants in CLI commands instead of hardcoding values.
const (
	ExitSuccess      = 0 // Success
	ExitGeneralError = 1 // General error (file I/O, permissions)
	ExitConfigError  = 2 // Configuration error (invalid config, missing values)
	ExitCertError    = 3 // Certificate error (no usable certificate material)
	ExitNetworkError = 4 // Network error (verification request failed)
)

// IsError checks if the given error matches the target error using errors.Is.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
