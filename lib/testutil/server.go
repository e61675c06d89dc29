// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// ConsoleServer listens on a unix socket the way a console server does
// and hands each accepted connection to the test. It is closed, along
// with every connection it accepted, when the test completes.
type ConsoleServer struct {
	// Path is the listening socket's path.
	Path string

	listener net.Listener
	accepted chan net.Conn

	mutex       sync.Mutex
	connections []net.Conn
}

// NewConsoleServer starts a ConsoleServer on a fresh socket in a
// [SocketDir] directory.
func NewConsoleServer(t *testing.T) *ConsoleServer {
	t.Helper()
	path := filepath.Join(SocketDir(t), "console.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listening on %s: %v", path, err)
	}

	server := &ConsoleServer{
		Path:     path,
		listener: listener,
		accepted: make(chan net.Conn, 4),
	}
	closing := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			connection, err := listener.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					t.Errorf("accepting on %s: %v", path, err)
				}
				return
			}
			server.mutex.Lock()
			server.connections = append(server.connections, connection)
			server.mutex.Unlock()
			select {
			case server.accepted <- connection:
			case <-closing:
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(closing)
		listener.Close()
		<-done
		server.mutex.Lock()
		defer server.mutex.Unlock()
		for _, connection := range server.connections {
			connection.Close()
		}
	})
	return server
}

// Accept returns the next connection made to the server, failing the
// test if none arrives within timeout.
func (s *ConsoleServer) Accept(t *testing.T, timeout time.Duration) net.Conn {
	t.Helper()
	return RequireReceive(t, s.accepted, timeout, "waiting for client connection on %s", s.Path)
}

// Drain reads reader until EOF or error in the background and delivers
// everything read on the returned channel.
func Drain(reader io.Reader) <-chan []byte {
	result := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(reader)
		result <- data
	}()
	return result
}
