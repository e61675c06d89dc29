// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so that scripts and wrappers can
// tell "fix the invocation" apart from "try again later" without parsing
// message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// unknown flags, stray arguments, a bad configuration file. The
	// caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryForbidden indicates the caller lacks permission to reach
	// the console socket.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient indicates the console server is not reachable
	// right now: no socket, or nothing listening on it. Retrying once
	// the server is up will help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: I/O failures on
	// the terminal or the connection, bugs. The caller should report
	// the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands, with an
// optional hint telling the user what to do about it.
//
// ToolError wraps an inner error, preserving the full error chain for
// debugging. Use the category-specific constructors (Validation,
// Forbidden, etc.) rather than constructing ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is optional remediation advice shown after the error.
	Hint string
}

// Error returns the underlying error message. Neither the category nor
// the hint is included.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the remediation hint and returns e for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
