// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by [Session.Run] when its context is
// canceled, typically because the process received a termination signal.
var ErrInterrupted = errors.New("session interrupted")

// SetupError reports a failure before the forwarding loop starts: the
// console socket could not be reached, or the terminal mode could not be
// read or changed. The session never ran.
type SetupError struct {
	// Op names the failed step ("connect", "enter raw mode").
	Op string

	// Path is the console socket path, when relevant.
	Path string

	Err error
}

func (e *SetupError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// Stream identifies one of the two byte streams a session forwards.
type Stream string

const (
	// StreamTerminal is the local terminal (input and output).
	StreamTerminal Stream = "terminal"

	// StreamConsole is the console socket.
	StreamConsole Stream = "console"
)

// StreamError reports a read or write failure on one of the session's
// streams while the forwarding loop was running. It is fatal to the
// session; nothing is retried.
type StreamError struct {
	Stream Stream

	// Op is "read" or "write".
	Op string

	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stream, e.Op, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
