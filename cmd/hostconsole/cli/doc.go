// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the hostconsole
// binary.
//
// The central type is [Command], which represents a named command with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. [Command.Execute] handles flag parsing, subcommand
// routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned from commands are [ToolError] values with a category
// and an optional hint. [DiagnoseSocketError] turns console socket
// connection failures into ToolErrors that tell the user what to check.
// [ExitError] carries an exit status for failures that were already
// reported through the logger.
//
// [NewCommandLogger] builds the slog logger commands use: text on a
// terminal, JSON otherwise.
package cli
