// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// shortCommitLength matches git's default abbreviation.
const shortCommitLength = 7

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if isDirty() {
		dirty = "-dirty"
	}
	return fmt.Sprintf("hostconsole %s (%s%s, %s)", Version, Commit(), dirty, BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA. When none was injected it falls back
// to the VCS revision the go toolchain stamped into the binary, if any.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if revision := buildSetting("vcs.revision"); revision != "" {
		if len(revision) > shortCommitLength {
			revision = revision[:shortCommitLength]
		}
		return revision
	}
	return GitCommit
}

func isDirty() bool {
	if GitDirty == "true" {
		return true
	}
	return GitCommit == "unknown" && buildSetting("vcs.modified") == "true"
}

// buildSetting looks up a key in the binary's embedded build settings.
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
