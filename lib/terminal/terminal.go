// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrCanceled is returned by Read after [Terminal.Cancel].
var ErrCanceled = cancelreader.ErrCanceled

// Mode is a saved terminal mode.
type Mode struct {
	fd    int
	state *term.State
}

// Terminal is a local terminal: an input to read keystrokes from and an
// output to write console bytes to. Neither file is owned; Close releases
// only what New allocated.
type Terminal struct {
	input  *os.File
	output *os.File

	// reader is the cancelable wrapper around input, or input itself
	// when it cannot be polled.
	reader     io.Reader
	cancelable cancelreader.CancelReader

	closeOnce sync.Once
	closeErr  error
}

// New returns a Terminal reading from input and writing to output,
// typically os.Stdin and os.Stdout.
func New(input, output *os.File) *Terminal {
	t := &Terminal{input: input, output: output, reader: input}
	if cancelable, err := cancelreader.NewReader(input); err == nil {
		t.cancelable = cancelable
		t.reader = cancelable
	}
	return t
}

// IsInteractive reports whether the input is a terminal device.
func (t *Terminal) IsInteractive() bool {
	return term.IsTerminal(int(t.input.Fd()))
}

// EnterRawMode puts the input terminal into raw mode and returns the mode
// it was in before.
func (t *Terminal) EnterRawMode() (*Mode, error) {
	fd := int(t.input.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &Mode{fd: fd, state: state}, nil
}

// RestoreMode restores a mode saved by EnterRawMode. A nil or zero Mode
// is a no-op.
func (t *Terminal) RestoreMode(mode *Mode) error {
	if mode == nil || mode.state == nil {
		return nil
	}
	return term.Restore(mode.fd, mode.state)
}

// Read reads keystrokes from the input.
func (t *Terminal) Read(p []byte) (int, error) {
	return t.reader.Read(p)
}

// Write writes to the output.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.output.Write(p)
}

// Cancel makes a pending or future Read return [ErrCanceled]. It reports
// false when the input does not support cancelation.
func (t *Terminal) Cancel() bool {
	if t.cancelable == nil {
		return false
	}
	return t.cancelable.Cancel()
}

// Close releases the cancelation machinery. The input and output files
// stay open. Close must not run concurrently with Read, and a cancelable
// input cannot be read after Close. Calling Close more than once is safe.
func (t *Terminal) Close() error {
	if t.cancelable == nil {
		return nil
	}
	t.closeOnce.Do(func() {
		t.closeErr = t.cancelable.Close()
	})
	return t.closeErr
}

// IsCanceled reports whether err came from a canceled Read.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
