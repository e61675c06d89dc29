// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the hostconsole
// client.
//
// Configuration comes from at most one file, named either by the
// HOSTCONSOLE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic file
// search: with neither set, [Default] applies.
//
// The file selects the console server socket, either directly
// (socket.path) or as a directory of per-console sockets plus a console
// id, and the log level. ${HOME} and ${VAR:-default} patterns are expanded
// in socket paths after loading. Command-line flags override the file.
//
// This package depends on no other hostconsole packages.
package config
