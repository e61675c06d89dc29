// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

// EscapeSequence is the literal a user types at the start of a line to
// detach: a carriage return, then '~', then '.'. The carriage return is the
// anchor and is not part of the sequence itself.
const EscapeSequence = "~."

// carriageReturn marks the start of a fresh line in raw-mode input. Raw
// terminals deliver Enter as '\r', not '\n'.
const carriageReturn = '\r'

// Verdict is the outcome of scanning one chunk of terminal input.
type Verdict int

const (
	// VerdictContinue means the session keeps running.
	VerdictContinue Verdict = iota

	// VerdictDetach means the escape sequence completed. The triggering
	// bytes were not forwarded and the session must end.
	VerdictDetach
)

func (v Verdict) String() string {
	switch v {
	case VerdictContinue:
		return "continue"
	case VerdictDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// ScanState is the escape scanner's state between chunks. The zero value
// is the state at the start of a session: no carriage return seen, nothing
// matched.
//
// ScanState is a value. [Scan] never modifies the state it is given; it
// returns the next state, which the caller passes to the following call.
type ScanState struct {
	// AtLineStart is true once a carriage return has been seen and no
	// byte breaking the escape sequence has arrived since.
	AtLineStart bool

	// Matched counts the escape sequence symbols matched so far. It
	// carries across chunk boundaries and is always less than
	// len(EscapeSequence) in states returned by Scan.
	Matched int

	// withheld holds the bytes received since the match began that have
	// not been forwarded: the Matched escape symbols plus any carriage
	// returns that arrived between them, in arrival order.
	withheld []byte
}

// Withheld returns a copy of the bytes the scanner is holding back until
// the next chunk either completes or breaks the escape sequence.
func (s ScanState) Withheld() []byte {
	if len(s.withheld) == 0 {
		return nil
	}
	return append([]byte(nil), s.withheld...)
}

// normalize returns the state's fields with a private copy of the withheld
// bytes. A Matched outside [0, len(EscapeSequence)) is a state Scan never
// returns and counts as no match. A state built from the exported fields
// alone gets its matched symbols withheld so a mismatch still flushes them.
func (s ScanState) normalize() (atLineStart bool, matched int, withheld []byte) {
	if s.Matched <= 0 || s.Matched >= len(EscapeSequence) {
		return s.AtLineStart, 0, nil
	}
	withheld = append([]byte(nil), s.withheld...)
	if len(withheld) < s.Matched {
		withheld = []byte(EscapeSequence[:s.Matched])
	}
	// A partial match only begins at the start of a line.
	return true, s.Matched, withheld
}

// Scan runs the escape scanner over one chunk of terminal input.
//
// It returns the bytes that are safe to forward to the transport now, the
// state to use for the next chunk, and a verdict. Bytes that might begin
// the escape sequence are withheld in the returned state; if the next chunk
// breaks the sequence they are flushed, in order, ahead of that chunk's
// data.
//
// On [VerdictDetach] the returned bytes are those that preceded the
// sequence in this chunk, without the carriage return that anchored it.
// Everything from the anchor onward, including any bytes after the
// sequence in the same chunk, is discarded.
//
// An empty chunk returns the state unchanged with [VerdictContinue]. End
// of input is not a chunk: callers detect it from the read itself.
func Scan(state ScanState, chunk []byte) (forward []byte, next ScanState, verdict Verdict) {
	if len(chunk) == 0 {
		return nil, state, VerdictContinue
	}

	atLineStart, matched, withheld := state.normalize()

	forward = make([]byte, 0, len(withheld)+len(chunk))
	// anchor is the index in forward of the carriage return that
	// immediately precedes a match begun in this chunk, or -1.
	anchor := -1

	for _, b := range chunk {
		if b == carriageReturn {
			atLineStart = true
			if matched > 0 {
				withheld = append(withheld, b)
			} else {
				forward = append(forward, b)
			}
			continue
		}

		if !atLineStart {
			forward = append(forward, b)
			continue
		}

		if b == EscapeSequence[matched] {
			if matched == 0 {
				anchor = -1
				if last := len(forward) - 1; last >= 0 && forward[last] == carriageReturn {
					anchor = last
				}
			}
			matched++
			withheld = append(withheld, b)
			if matched == len(EscapeSequence) {
				if anchor >= 0 {
					forward = forward[:anchor]
				}
				return forward, ScanState{}, VerdictDetach
			}
			continue
		}

		// The sequence is broken: what was held back is ordinary data.
		forward = append(forward, withheld...)
		withheld = withheld[:0]
		matched = 0
		atLineStart = false
		anchor = -1
		forward = append(forward, b)
	}

	next = ScanState{AtLineStart: atLineStart, Matched: matched}
	if len(withheld) > 0 {
		next.withheld = withheld
	}
	return forward, next, VerdictContinue
}
