// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for hostconsole packages.
//
// [SocketDir] creates a temporary directory in /tmp suitable for Unix
// domain sockets. Unix domain sockets have a 108-byte path limit
// (sun_path in sockaddr_un), and t.TempDir() can exceed it when TMPDIR
// is deeply nested. The directory is removed when the test completes.
//
// [ConsoleServer] is a stand-in console server: a unix socket listener
// that hands accepted connections to the test. [Drain] collects
// everything a connection sends until it is closed.
//
// [RequireReceive] encapsulates the timeout safety valve pattern (select
// with time.After fallback) so that individual tests do not need direct
// time.After calls.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as abstract socket names.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no hostconsole-internal dependencies.
package testutil
