// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/hostconsole/hostconsole/cmd/hostconsole/cli"
	"github.com/hostconsole/hostconsole/console"
	"github.com/hostconsole/hostconsole/lib/config"
	"github.com/hostconsole/hostconsole/lib/terminal"
	"github.com/hostconsole/hostconsole/lib/version"
)

// streams are the process's standard files. The console session needs
// real files for stdin and stdout so it can change the terminal mode.
type streams struct {
	stdin  *os.File
	stdout *os.File
	stderr io.Writer
}

type attachParams struct {
	socketPath  string
	consoleID   string
	configPath  string
	logLevel    string
	showVersion bool
}

func rootCommand(std streams) *cli.Command {
	var params attachParams

	return &cli.Command{
		Name:    "hostconsole",
		Summary: "Attach the terminal to a console server",
		Description: `Attach the terminal to a console server.

Connects to the console server's unix socket and forwards keystrokes to it
and console output back, until the server hangs up, input ends, or you
detach. To detach, press Enter, then type ~ and . ("~.").

The socket is chosen by, in order: --socket; -i/--console-id within the
configured socket directory; socket.path in the configuration file;
<socket.directory>/<socket.console_id>.sock (default ` + console.DefaultSocket + `).
A socket name starting with '@' is a Linux abstract socket.

Configuration is read from --config or $` + config.EnvironmentVariable + `, if either is set.`,
		Usage: "hostconsole [flags]",
		Examples: []cli.Example{
			{
				Description: "Attach to the default console",
				Command:     "hostconsole",
			},
			{
				Description: "Attach to the console of vm3",
				Command:     "hostconsole -i vm3",
			},
			{
				Description: "Attach to an abstract socket",
				Command:     "hostconsole --socket @serial0",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("hostconsole", pflag.ContinueOnError)
			flagSet.StringVar(&params.socketPath, "socket", "", "console server socket path (overrides configuration)")
			flagSet.StringVarP(&params.consoleID, "console-id", "i", "", "console to attach to within the socket directory")
			flagSet.StringVar(&params.configPath, "config", "", "configuration file (default $"+config.EnvironmentVariable+")")
			flagSet.StringVar(&params.logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
			flagSet.BoolVar(&params.showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q\n\nRun 'hostconsole --help' for usage.", args[0])
			}
			if params.showVersion {
				fmt.Fprintln(std.stdout, version.Info())
				return nil
			}
			return attach(ctx, std, params)
		},
		Subcommands: []*cli.Command{
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					if len(args) > 0 {
						return cli.Validation("version takes no arguments")
					}
					fmt.Fprintln(std.stdout, version.Full())
					return nil
				},
			},
		},
	}
}

// loadConfig reads the configuration and applies the command-line
// overrides on top of it.
func loadConfig(params attachParams) (*config.Config, error) {
	if params.socketPath != "" && params.consoleID != "" {
		return nil, cli.Validation("--socket and --console-id cannot be used together")
	}

	var cfg *config.Config
	var err error
	if params.configPath != "" {
		cfg, err = config.LoadFile(params.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	switch {
	case params.socketPath != "":
		cfg.Socket.Path = params.socketPath
	case params.consoleID != "":
		// An explicit console choice beats a fixed path in the file.
		cfg.Socket.Path = ""
		cfg.Socket.ConsoleID = params.consoleID
	}
	if params.logLevel != "" {
		cfg.Log.Level = params.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

func attach(ctx context.Context, std streams, params attachParams) error {
	cfg, err := loadConfig(params)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return cli.Validation("%w", err)
	}

	socketPath := cfg.SocketPath()
	logger := cli.NewCommandLogger(std.stderr, level).With("socket", socketPath)

	tty := terminal.New(std.stdin, std.stdout)
	defer tty.Close()

	reason, err := console.Attach(ctx, console.AttachOptions{
		SocketPath: socketPath,
		Terminal:   tty,
		Logger:     logger,
	})
	return finish(logger, socketPath, reason, err)
}

// finish reports how the session ended, now that the terminal is back in
// its original mode, and maps the outcome to the command's error.
func finish(logger *slog.Logger, socketPath string, reason console.Reason, err error) error {
	if err == nil {
		switch reason {
		case console.ReasonPeerClosed:
			logger.Info("connection closed")
		default:
			logger.Debug("session ended", "reason", reason.String())
		}
		return nil
	}

	if errors.Is(err, console.ErrInterrupted) {
		logger.Warn("session interrupted")
		return &cli.ExitError{Code: 1}
	}

	var setupErr *console.SetupError
	if errors.As(err, &setupErr) && setupErr.Op == "connect" {
		if diagnosed := cli.DiagnoseSocketError(err, socketPath); diagnosed != nil {
			return diagnosed
		}
		return cli.Transient("connect to console at %s: %w", socketPath, setupErr.Err)
	}

	if reason.Graceful() {
		// The session itself ended normally but cleanup failed, e.g. the
		// terminal mode could not be restored.
		return cli.Internal("%s: %w", reason, err)
	}
	return cli.Internal("%w", err)
}
