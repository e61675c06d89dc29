// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hostconsole/hostconsole/lib/terminal"
)

// Terminal is the local side of a session: the process's own input and
// output, plus control over the input's line discipline.
// [terminal.Terminal] is the production implementation.
type Terminal interface {
	io.Reader
	io.Writer

	// IsInteractive reports whether input is a terminal device.
	IsInteractive() bool

	// EnterRawMode switches input to raw mode and returns the mode it
	// replaced.
	EnterRawMode() (*terminal.Mode, error)

	// RestoreMode puts back a mode returned by EnterRawMode.
	RestoreMode(*terminal.Mode) error
}

// AttachOptions configures [Attach].
type AttachOptions struct {
	// SocketPath is the console server socket.
	SocketPath string

	// Terminal is the user's terminal.
	Terminal Terminal

	// Dial connects to SocketPath. Nil uses [DialUnix].
	Dial Dialer

	// Logger receives debug-level session events. Nil discards.
	Logger *slog.Logger
}

// Attach connects to the console server and forwards the terminal to it
// until the session ends. It is the whole lifetime of a client session:
//
//   - connect to the socket ([SetupError] on failure)
//   - if the terminal is interactive, switch it to raw mode
//     ([SetupError] on failure)
//   - run the forwarding loop ([Session.Run])
//   - restore the terminal mode and close the connection
//
// The terminal mode is restored on every return path once raw mode has
// been entered, including when Run fails and when a panic unwinds through
// Attach. A failed restore is joined into the returned error.
//
// Setup failures return [ReasonIOError].
func Attach(ctx context.Context, options AttachOptions) (reason Reason, err error) {
	if options.Terminal == nil {
		return ReasonIOError, &SetupError{Op: "attach", Err: errors.New("no terminal")}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	session, err := Connect(ctx, options.SocketPath, options.Dial, logger)
	if err != nil {
		return ReasonIOError, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Debug("closing console connection", "error", closeErr)
		}
	}()

	if options.Terminal.IsInteractive() {
		savedMode, rawErr := options.Terminal.EnterRawMode()
		if rawErr != nil {
			return ReasonIOError, &SetupError{Op: "enter raw mode", Err: rawErr}
		}
		defer func() {
			if restoreErr := options.Terminal.RestoreMode(savedMode); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restore terminal mode: %w", restoreErr))
			}
		}()
	}

	logger.Debug("attached to console", "socket", options.SocketPath)
	return session.Run(ctx, options.Terminal, options.Terminal)
}
