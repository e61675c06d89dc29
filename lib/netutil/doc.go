// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds the small amount of socket plumbing shared by the
// console client: dialing the server's unix socket and telling ordinary
// hang-ups apart from real connection failures.
package netutil
