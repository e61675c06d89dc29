// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/hostconsole/hostconsole/lib/netutil"
)

// DefaultSocket is the console server socket used when neither a flag nor
// the configuration names one.
const DefaultSocket = "/run/hostconsole/default.sock"

// readBufferSize is the largest chunk read from either stream at once.
const readBufferSize = 4096

// Reason records why a session stopped forwarding.
type Reason int

const (
	// running is the state of a session that has not terminated. It is
	// never returned from Run.
	running Reason = iota

	// ReasonUserDetach: the user typed the escape sequence.
	ReasonUserDetach

	// ReasonPeerClosed: the console server closed the connection.
	ReasonPeerClosed

	// ReasonEndOfInput: the terminal input reached end of file.
	ReasonEndOfInput

	// ReasonIOError: a read or write failed on either stream, or the
	// session could not be set up.
	ReasonIOError

	// ReasonInterrupted: the session's context was canceled.
	ReasonInterrupted
)

func (r Reason) String() string {
	switch r {
	case running:
		return "running"
	case ReasonUserDetach:
		return "user-detach"
	case ReasonPeerClosed:
		return "peer-closed"
	case ReasonEndOfInput:
		return "end-of-input"
	case ReasonIOError:
		return "io-error"
	case ReasonInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Graceful reports whether the session ended in a way the user should see
// as success: a detach, the server hanging up, or input running out.
func (r Reason) Graceful() bool {
	return r == ReasonUserDetach || r == ReasonPeerClosed || r == ReasonEndOfInput
}

// Dialer connects to the console server socket at path.
type Dialer func(ctx context.Context, path string) (io.ReadWriteCloser, error)

// DialUnix is the default [Dialer]: a unix stream socket connection via
// [netutil.DialUnix].
func DialUnix(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	connection, err := netutil.DialUnix(ctx, path)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

// Session forwards bytes between a local terminal and a console server
// connection. It exclusively owns the connection and closes it exactly
// once, in Close.
type Session struct {
	connection io.ReadWriteCloser
	logger     *slog.Logger

	// scanState is threaded through Scan between terminal reads. Only
	// the Run loop touches it.
	scanState ScanState

	bytesSent     int64
	bytesReceived int64

	closeOnce sync.Once
	closeErr  error
}

// Connect dials the console server and returns a Session ready for Run.
// A nil dial uses [DialUnix]; a nil logger discards. The caller must Close
// the session.
func Connect(ctx context.Context, socketPath string, dial Dialer, logger *slog.Logger) (*Session, error) {
	if dial == nil {
		dial = DialUnix
	}
	connection, err := dial(ctx, socketPath)
	if err != nil {
		return nil, &SetupError{Op: "connect", Path: socketPath, Err: err}
	}
	return NewSession(connection, logger), nil
}

// NewSession wraps an established connection.
func NewSession(connection io.ReadWriteCloser, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{connection: connection, logger: logger}
}

// Run forwards terminal input to the console through the escape scanner
// and console output to the terminal verbatim, until one side ends, an
// I/O error occurs, the user detaches, or ctx is canceled.
//
// Run returns a nil error for [ReasonUserDetach], [ReasonPeerClosed] and
// [ReasonEndOfInput]; a [*StreamError] for [ReasonIOError]; and
// [ErrInterrupted] for [ReasonInterrupted].
//
// When input and console data are both ready, input is handled first and
// console data is only handled if the scanner did not end the session.
//
// If input has a Cancel() bool method (as [terminal.Terminal] does) Run
// calls it before returning and, when it reports true, waits for the
// pending terminal read to finish. No read of input is in flight once Run
// has returned. Run does not close the connection.
func (s *Session) Run(ctx context.Context, input io.Reader, output io.Writer) (reason Reason, err error) {
	done := make(chan struct{})
	terminalChunks := startChunkReader(input, done)
	consoleChunks := startChunkReader(s.connection, done)

	defer func() {
		close(done)
		// A canceled terminal read returns promptly, so wait for it: the
		// caller may close the terminal as soon as Run returns.
		if canceler, ok := input.(interface{ Cancel() bool }); ok && canceler.Cancel() {
			<-terminalChunks.exited
		}
	}()

	defer func() {
		s.logger.Debug("console session ended",
			"reason", reason.String(),
			"bytes_sent", s.bytesSent,
			"bytes_received", s.bytesReceived,
		)
	}()

	for {
		select {
		case <-ctx.Done():
			return ReasonInterrupted, ErrInterrupted

		case received := <-terminalChunks.chunks:
			if reason, err := s.forwardInput(received); reason != running {
				return reason, err
			}
			terminalChunks.resume()

			select {
			case received := <-consoleChunks.chunks:
				if reason, err := s.passThrough(received, output); reason != running {
					return reason, err
				}
				consoleChunks.resume()
			default:
			}

		case received := <-consoleChunks.chunks:
			// Terminal input goes first if it became ready too, so a
			// detach stops the session before this output is written.
			select {
			case pending := <-terminalChunks.chunks:
				if reason, err := s.forwardInput(pending); reason != running {
					return reason, err
				}
				terminalChunks.resume()
			default:
			}

			if reason, err := s.passThrough(received, output); reason != running {
				return reason, err
			}
			consoleChunks.resume()
		}
	}
}

// forwardInput runs one terminal chunk through the escape scanner and
// writes what it releases to the console.
func (s *Session) forwardInput(received chunk) (Reason, error) {
	if len(received.data) > 0 {
		forward, next, verdict := Scan(s.scanState, received.data)
		s.scanState = next
		if len(forward) > 0 {
			if _, err := s.connection.Write(forward); err != nil {
				return ReasonIOError, &StreamError{Stream: StreamConsole, Op: "write", Err: err}
			}
			s.bytesSent += int64(len(forward))
		}
		if verdict == VerdictDetach {
			return ReasonUserDetach, nil
		}
	}

	if received.err != nil {
		if errors.Is(received.err, io.EOF) {
			return ReasonEndOfInput, nil
		}
		return ReasonIOError, &StreamError{Stream: StreamTerminal, Op: "read", Err: received.err}
	}
	return running, nil
}

// passThrough copies one console chunk to the terminal unchanged.
func (s *Session) passThrough(received chunk, output io.Writer) (Reason, error) {
	if len(received.data) > 0 {
		if _, err := output.Write(received.data); err != nil {
			return ReasonIOError, &StreamError{Stream: StreamTerminal, Op: "write", Err: err}
		}
		s.bytesReceived += int64(len(received.data))
	}

	if received.err != nil {
		if errors.Is(received.err, io.EOF) {
			return ReasonPeerClosed, nil
		}
		return ReasonIOError, &StreamError{Stream: StreamConsole, Op: "read", Err: received.err}
	}
	return running, nil
}

// Close closes the console connection. Safe to call more than once; only
// the first call closes.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		err := s.connection.Close()
		if err != nil && !netutil.IsExpectedCloseError(err) {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// chunk is the result of one Read.
type chunk struct {
	data []byte
	err  error
}

// chunkReader performs reads on behalf of the Run loop. It hands each
// chunk over and then waits to be resumed before reading again, so at
// most one chunk per stream is ever outstanding and no input is consumed
// that the loop has not asked for. The read buffer is reused: the loop
// must be finished with a chunk's data before calling resume.
type chunkReader struct {
	chunks    chan chunk
	resumeSig chan struct{}

	// exited is closed when the reader goroutine returns.
	exited chan struct{}
}

func startChunkReader(reader io.Reader, done <-chan struct{}) *chunkReader {
	r := &chunkReader{
		chunks:    make(chan chunk),
		resumeSig: make(chan struct{}, 1),
		exited:    make(chan struct{}),
	}
	go r.run(reader, done)
	return r
}

func (r *chunkReader) run(reader io.Reader, done <-chan struct{}) {
	defer close(r.exited)
	buffer := make([]byte, readBufferSize)
	for {
		count, err := reader.Read(buffer)
		if count == 0 && err == nil {
			continue
		}

		select {
		case r.chunks <- chunk{data: buffer[:count], err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}

		select {
		case <-r.resumeSig:
		case <-done:
			return
		}
	}
}

// resume lets the reader issue its next Read. Only called after a chunk
// without an error, so the reader is waiting for it.
func (r *chunkReader) resume() {
	r.resumeSig <- struct{}{}
}
