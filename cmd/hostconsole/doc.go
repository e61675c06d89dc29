// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Hostconsole attaches the user's terminal to a console server's unix
// socket: keystrokes go to the console, console output comes back to the
// terminal. Typing Enter, '~', '.' detaches.
//
// Usage:
//
//	hostconsole [--socket PATH | -i ID] [--config FILE] [--log-level LEVEL]
//	hostconsole version
//
// The process exits 0 when the user detaches, the server hangs up, or
// input ends, and 1 on any failure or when interrupted by a signal.
package main
