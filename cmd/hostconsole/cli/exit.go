// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, main exits
// with the specified code without printing the error string; the command
// is expected to have already logged what happened.
//
// An interrupted console session is the main user: the signal is logged,
// the terminal is restored, and the process exits 1 quietly.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. process.Report checks for this
// interface on returned errors to distinguish "handled non-zero exit"
// from "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}
