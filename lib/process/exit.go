// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status and
// have already been reported to the user.
type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the process exit status for an error returned by a
// command: 0 for nil, the error's own code if it has an ExitCode method
// anywhere in its chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Report writes "error: err" to w unless err carries its own exit code,
// which means it was already reported. It returns the exit status for err.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if err == nil {
		return code
	}
	var coder exitCoder
	if !errors.As(err, &coder) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return code
}

// Fatal reports err to stderr and exits. A nil err exits 0. This is the
// hostconsole entrypoint error handler, for use in main() with errors from
// run() where the structured logger may not be initialized.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}
