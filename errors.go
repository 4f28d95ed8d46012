package testcaldav

import (
	"errors"
	"fmt"
)

// UsageError represents a malformed invocation that should lead to exit
// code 64 (EX_USAGE). Examples include unrecognized flags or a flag that is
// missing its required value.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a new UsageError
func NewUsageError(err error) *UsageError {
	return &UsageError{Err: err}
}

// IsUsageError checks if the error is or wraps a UsageError
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return err != nil && errors.As(err, &usageErr)
}

// ExecError represents a failure to start the delegated test runner
// (exit code 127). A runner that starts and then fails is not an ExecError;
// its own exit code passes through untouched.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ExecError) Unwrap() error {
	return e.Err
}

// NewExecError creates a new ExecError
func NewExecError(err error) *ExecError {
	return &ExecError{Err: err}
}

// IsExecError checks if the error is or wraps an ExecError
func IsExecError(err error) bool {
	var execErr *ExecError
	return err != nil && errors.As(err, &execErr)
}
