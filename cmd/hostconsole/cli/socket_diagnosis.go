// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"os/user"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// DiagnoseSocketError inspects a console socket connection error and
// returns a categorized ToolError with an actionable hint. If the error
// is not one it recognizes, returns nil; the caller should use its own
// error wrapping.
//
//   - EACCES or EPERM: Forbidden. When the socket is group-accessible and
//     the user is not in its group, the hint says how to join it.
//     Otherwise the hint points at the socket's ownership and mode.
//   - ENOENT: Transient. No socket at that path; the server is not
//     running or the path or console id is wrong.
//   - ECONNREFUSED: Transient. The socket file exists but nothing is
//     accepting on it, usually a server that exited without cleaning up.
func DiagnoseSocketError(err error, socketPath string) *ToolError {
	switch {
	case errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM):
		return diagnosePermission(socketPath)

	case errors.Is(err, syscall.ENOENT):
		return Transient("console socket %s does not exist", socketPath).
			WithHint("Is the console server running? Use --socket or --console-id to pick a different console.")

	case errors.Is(err, syscall.ECONNREFUSED):
		return Transient("console server at %s is not accepting connections", socketPath).
			WithHint("The socket exists but nothing is listening on it. The console server may have exited;\n" +
				"restart it and attach again.")
	}
	return nil
}

func diagnosePermission(socketPath string) *ToolError {
	// Abstract sockets have no filesystem permissions to inspect.
	if strings.HasPrefix(socketPath, "@") {
		return Forbidden("permission denied accessing %s", socketPath).
			WithHint("The console server refused this client. Check which users it accepts.")
	}

	var stat unix.Stat_t
	if statErr := unix.Stat(socketPath, &stat); statErr == nil && stat.Mode&0o060 == 0o060 {
		groupID := strconv.FormatUint(uint64(stat.Gid), 10)
		groupName := groupID
		if group, lookupErr := user.LookupGroupId(groupID); lookupErr == nil {
			groupName = group.Name
		}
		if !currentUserInGroup(groupID) {
			return Forbidden("permission denied accessing %s (user not in %s group)", socketPath, groupName).
				WithHint("Add your user to the group and re-login for it to take effect:\n" +
					"  sudo usermod -aG " + groupName + " $USER\n" +
					"  newgrp " + groupName + "\n\n" +
					"The newgrp command applies the group to the current shell immediately.\n" +
					"For all sessions, log out and log back in.")
		}
	}

	return Forbidden("permission denied accessing %s", socketPath).
		WithHint("Check the socket's ownership and permissions: ls -la " + socketPath + "\n" +
			"Your user needs read and write access to the socket.")
}

// currentUserInGroup reports whether the current process's user belongs
// to the group with the given numeric ID, as primary or supplementary
// group.
func currentUserInGroup(groupID string) bool {
	current, err := user.Current()
	if err != nil {
		return false
	}
	if current.Gid == groupID {
		return true
	}
	groups, err := current.GroupIds()
	if err != nil {
		return false
	}
	return slices.Contains(groups, groupID)
}
