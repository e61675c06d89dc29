// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the entrypoint helper for the hostconsole
// binary: turning the error returned by the command into stderr output and
// a process exit status.
//
// It covers the one legitimate raw output path that exists outside the
// structured logger: reporting a failure that happened before the logger
// was set up, or that must reach the user even when logging is quiet.
package process
