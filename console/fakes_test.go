// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hostconsole/hostconsole/lib/terminal"
)

// fakeConnection stands in for the console socket. Reads come from
// Reader; writes are recorded unless writeErr is set.
type fakeConnection struct {
	io.Reader

	writeErr error
	closeErr error

	mutex   sync.Mutex
	written bytes.Buffer

	closeCount atomic.Int32
}

func (c *fakeConnection) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.written.Write(p)
}

func (c *fakeConnection) Close() error {
	c.closeCount.Add(1)
	return c.closeErr
}

func (c *fakeConnection) Written() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.written.String()
}

// blockingReader blocks every Read until released, then reports EOF.
// Tests release it at cleanup so reader goroutines exit.
type blockingReader struct {
	release chan struct{}
	once    sync.Once
}

func newBlockingReader(t *testing.T) *blockingReader {
	reader := &blockingReader{release: make(chan struct{})}
	t.Cleanup(reader.Release)
	return reader
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func (r *blockingReader) Release() {
	r.once.Do(func() { close(r.release) })
}

// cancelableReader is a blockingReader with the Cancel method that
// [terminal.Terminal] provides.
type cancelableReader struct {
	*blockingReader
	canceled atomic.Bool
}

func (r *cancelableReader) Cancel() bool {
	r.canceled.Store(true)
	r.Release()
	return true
}

// errorReader fails every Read with err.
type errorReader struct{ err error }

func (r errorReader) Read([]byte) (int, error) { return 0, r.err }

// errorWriter fails every Write with err.
type errorWriter struct{ err error }

func (w errorWriter) Write([]byte) (int, error) { return 0, w.err }

// fakeTerminal records mode changes in events.
type fakeTerminal struct {
	io.Reader
	bytes.Buffer

	interactive bool
	rawErr      error
	restoreErr  error

	events []string
}

func (f *fakeTerminal) Read(p []byte) (int, error) { return f.Reader.Read(p) }

func (f *fakeTerminal) IsInteractive() bool { return f.interactive }

func (f *fakeTerminal) EnterRawMode() (*terminal.Mode, error) {
	if f.rawErr != nil {
		f.events = append(f.events, "raw failed")
		return nil, f.rawErr
	}
	f.events = append(f.events, "raw")
	return &terminal.Mode{}, nil
}

func (f *fakeTerminal) RestoreMode(*terminal.Mode) error {
	f.events = append(f.events, "restore")
	return f.restoreErr
}
