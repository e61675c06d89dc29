// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hostconsole/hostconsole/cmd/hostconsole/cli"
	"github.com/hostconsole/hostconsole/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	err := run(ctx, os.Args[1:])
	stop()
	process.Fatal(withHint(err))
}

func run(ctx context.Context, args []string) error {
	return rootCommand(streams{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}).Execute(ctx, args)
}

// withHint appends a ToolError's hint to its message for display.
func withHint(err error) error {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) && toolErr.Hint != "" {
		return fmt.Errorf("%w\n\n%s", err, toolErr.Hint)
	}
	return err
}
