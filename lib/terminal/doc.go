// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal adapts the process's own input and output streams for
// an interactive console session.
//
// [Terminal] pairs an input and an output file. [Terminal.IsInteractive]
// reports whether the input is a terminal device; only then is
// [Terminal.EnterRawMode] meaningful. Raw mode disables line buffering,
// local echo and signal-generating control characters so that every
// keystroke, including Ctrl-C, reaches the remote console as a byte. The
// [Mode] returned by EnterRawMode is the mode that was replaced, and
// [Terminal.RestoreMode] puts it back.
//
// Reads from the input can be canceled with [Terminal.Cancel]. This lets a
// session stop while a read is still blocked waiting for a keystroke. The
// cancelation uses epoll on Linux (kqueue on the BSDs) through
// github.com/muesli/cancelreader. Inputs that cannot be polled, such as
// regular files, are read directly and Cancel reports false.
package terminal
