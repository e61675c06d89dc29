// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-PID-N" where N is a
// monotonically increasing integer. The process ID keeps names distinct
// between test binaries running in parallel, which matters for names in
// shared namespaces such as abstract unix sockets.
//
//	name := "@" + testutil.UniqueID("console")  // "@console-4242-1", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, os.Getpid(), uniqueCounter.Add(1))
}
