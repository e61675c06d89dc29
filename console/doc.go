// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package console implements the client side of a serial-style console
// session: the user's terminal on one end, a console server's unix socket
// on the other.
//
// [Attach] runs a whole session. It connects with [Connect], puts an
// interactive terminal into raw mode, forwards bytes with [Session.Run]
// and puts everything back afterwards. Output from the console is copied
// to the terminal verbatim. Input from the terminal passes through the
// escape scanner ([Scan]) first.
//
// The escape sequence is a carriage return followed by "~." (Enter, tilde,
// period), the same convention as ssh. The scanner carries its state
// ([ScanState]) across reads, so the sequence is recognized no matter how
// the keystrokes are split between reads. Bytes that might start the
// sequence are held back until the next keystroke decides them; none of
// the sequence's bytes reach the console when it completes.
//
// A session ends for one of the reasons in [Reason]. Detaching, the
// server hanging up and input reaching end of file are normal endings
// (see [Reason.Graceful]) and carry a nil error. Failures carry a
// [*SetupError] when the session never started or a [*StreamError] when a
// stream broke while it ran.
package console
