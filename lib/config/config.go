// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when no --config flag
// is given.
const EnvironmentVariable = "HOSTCONSOLE_CONFIG"

// Config is the hostconsole client configuration.
type Config struct {
	// Socket selects the console server socket.
	Socket SocketConfig `yaml:"socket"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`
}

// SocketConfig selects the console server socket.
type SocketConfig struct {
	// Path is the full socket path. When set it wins over Directory and
	// ConsoleID. A leading '@' names a Linux abstract socket.
	Path string `yaml:"path"`

	// Directory holds one socket per console, named <console_id>.sock.
	// Default: /run/hostconsole
	Directory string `yaml:"directory"`

	// ConsoleID picks the console within Directory.
	// Default: default
	ConsoleID string `yaml:"console_id"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is loaded. Its
// socket resolves to /run/hostconsole/default.sock.
func Default() *Config {
	return &Config{
		Socket: SocketConfig{
			Directory: "/run/hostconsole",
			ConsoleID: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the file named by HOSTCONSOLE_CONFIG. When the variable is
// unset the defaults are returned; there is no search for a file
// anywhere else.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the file
// leaves out keep their defaults. Unknown keys are an error, so a typo
// does not silently fall back to a default.
//
// ${VAR} and ${VAR:-default} in socket paths are expanded after loading.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile decodes a single configuration file over the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Socket.Path = expandVars(c.Socket.Path, vars)
	c.Socket.Directory = expandVars(c.Socket.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// SocketPath returns the console socket this configuration selects:
// Socket.Path if set, otherwise <Socket.Directory>/<Socket.ConsoleID>.sock.
func (c *Config) SocketPath() string {
	if c.Socket.Path != "" {
		return c.Socket.Path
	}
	return filepath.Join(c.Socket.Directory, c.Socket.ConsoleID+".sock")
}

// LogLevel parses Log.Level. An empty level is Info.
func (c *Config) LogLevel() (slog.Level, error) {
	return ParseLevel(c.Log.Level)
}

// ParseLevel parses a level name (debug, info, warn, error, in any case).
// An empty name is Info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Socket.Path == "" {
		if c.Socket.Directory == "" {
			errs = append(errs, fmt.Errorf("socket.directory is required when socket.path is not set"))
		}
		if c.Socket.ConsoleID == "" {
			errs = append(errs, fmt.Errorf("socket.console_id is required when socket.path is not set"))
		}
	}

	if strings.ContainsRune(c.Socket.ConsoleID, '/') {
		errs = append(errs, fmt.Errorf("socket.console_id %q must not contain '/'", c.Socket.ConsoleID))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
