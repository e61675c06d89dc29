// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI command operations,
// writing to w (normally os.Stderr) at the given level. When w is a
// terminal, uses slog.TextHandler for human-readable output. When it is
// piped or redirected (scripts, CI, log collectors), uses
// slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(os.Stderr, level).With("socket", socketPath)
func NewCommandLogger(w io.Writer, level slog.Level) *slog.Logger {
	human := false
	if file, ok := w.(*os.File); ok {
		human = term.IsTerminal(int(file.Fd()))
	}
	return newLogger(w, human, level)
}

func newLogger(w io.Writer, human bool, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if human {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
