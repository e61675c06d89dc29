// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"net"
)

// ErrEmptySocketPath is returned by DialUnix for an empty path.
var ErrEmptySocketPath = errors.New("empty socket path")

// DialUnix opens a stream connection to the unix socket at path. A path
// beginning with '@' names a Linux abstract socket. The dial is abandoned
// if ctx is canceled first.
func DialUnix(ctx context.Context, path string) (*net.UnixConn, error) {
	if path == "" {
		return nil, ErrEmptySocketPath
	}
	var dialer net.Dialer
	connection, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return connection.(*net.UnixConn), nil
}
