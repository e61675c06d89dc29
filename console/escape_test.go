// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bytes"
	"testing"
)

// scanAll feeds chunks through Scan in order, threading the state, and
// returns everything forwarded, the final state, and the verdict of the
// last chunk scanned. Scanning stops at the first detach.
func scanAll(chunks ...string) (forwarded string, state ScanState, verdict Verdict, chunksScanned int) {
	var output bytes.Buffer
	for _, chunk := range chunks {
		var forward []byte
		forward, state, verdict = Scan(state, []byte(chunk))
		output.Write(forward)
		chunksScanned++
		if verdict == VerdictDetach {
			break
		}
	}
	return output.String(), state, verdict, chunksScanned
}

func TestScan(t *testing.T) {
	tests := []struct {
		name        string
		chunks      []string
		wantForward string
		wantVerdict Verdict
		wantMatched int
		wantAtStart bool
	}{
		{
			name:        "plain text without carriage return",
			chunks:      []string{"hello world"},
			wantForward: "hello world",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "escape mid-line is data",
			chunks:      []string{"echo ~. done"},
			wantForward: "echo ~. done",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "escape in one chunk",
			chunks:      []string{"\r~."},
			wantForward: "",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "escape split after tilde",
			chunks:      []string{"\r~", "."},
			wantForward: "\r",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "escape split before tilde",
			chunks:      []string{"\r", "~", "."},
			wantForward: "\r",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "broken match flushes tilde once",
			chunks:      []string{"\r~x"},
			wantForward: "\r~x",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "broken match across chunks",
			chunks:      []string{"\r~", "x"},
			wantForward: "\r~x",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "data before escape in same chunk",
			chunks:      []string{"ls\r~."},
			wantForward: "ls",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "only the anchoring carriage return is dropped",
			chunks:      []string{"a\r\r~."},
			wantForward: "a\r",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "trailing bytes after escape are discarded",
			chunks:      []string{"\r~.more"},
			wantForward: "",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "double tilde is not an escape",
			chunks:      []string{"\r~~."},
			wantForward: "\r~~.",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "tilde held at chunk end",
			chunks:      []string{"abc\r~"},
			wantForward: "abc\r",
			wantVerdict: VerdictContinue,
			wantMatched: 1,
			wantAtStart: true,
		},
		{
			name:        "newline after carriage return breaks line start",
			chunks:      []string{"\r\n~."},
			wantForward: "\r\n~.",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "carriage return during partial match keeps the match",
			chunks:      []string{"\r~\r."},
			wantForward: "",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "carriage return during partial match then broken",
			chunks:      []string{"\r~", "\r", "x"},
			wantForward: "\r~\rx",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "escape after a broken one on a new line",
			chunks:      []string{"\r~x\r~."},
			wantForward: "\r~x",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "line start survives ordinary chunks with no carriage return",
			chunks:      []string{"\r", "~", "x", "~."},
			wantForward: "\r~x~.",
			wantVerdict: VerdictContinue,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			forwarded, state, verdict, _ := scanAll(test.chunks...)
			if forwarded != test.wantForward {
				t.Errorf("forwarded = %q, want %q", forwarded, test.wantForward)
			}
			if verdict != test.wantVerdict {
				t.Errorf("verdict = %v, want %v", verdict, test.wantVerdict)
			}
			if verdict == VerdictDetach {
				return
			}
			if state.Matched != test.wantMatched {
				t.Errorf("Matched = %d, want %d", state.Matched, test.wantMatched)
			}
			if state.AtLineStart != test.wantAtStart {
				t.Errorf("AtLineStart = %v, want %v", state.AtLineStart, test.wantAtStart)
			}
		})
	}
}

func TestScan_NoCarriageReturnForwardsUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"~",
		"~.",
		"~.~.~.",
		"some text ~. with escape-like content\n",
		string([]byte{0x00, 0x1b, '[', 'A', 0xff}),
	}
	for _, input := range inputs {
		forward, state, verdict := Scan(ScanState{}, []byte(input))
		if string(forward) != input {
			t.Errorf("Scan(%q) forwarded %q", input, forward)
		}
		if state.Matched != 0 {
			t.Errorf("Scan(%q) Matched = %d, want 0", input, state.Matched)
		}
		if verdict != VerdictContinue {
			t.Errorf("Scan(%q) verdict = %v, want continue", input, verdict)
		}
	}
}

func TestScan_EmptyChunkIsNoop(t *testing.T) {
	_, held, _ := Scan(ScanState{}, []byte("\r~"))

	forward, next, verdict := Scan(held, nil)
	if len(forward) != 0 {
		t.Errorf("forward = %q, want empty", forward)
	}
	if verdict != VerdictContinue {
		t.Errorf("verdict = %v, want continue", verdict)
	}
	if next.Matched != held.Matched || next.AtLineStart != held.AtLineStart {
		t.Errorf("state changed: got %+v, want %+v", next, held)
	}
	if !bytes.Equal(next.Withheld(), []byte("~")) {
		t.Errorf("Withheld() = %q, want %q", next.Withheld(), "~")
	}
}

func TestScan_SplitCarriesWithheldTilde(t *testing.T) {
	forward, state, verdict := Scan(ScanState{}, []byte("\r~"))
	if string(forward) != "\r" {
		t.Errorf("first chunk forwarded %q, want %q", forward, "\r")
	}
	if verdict != VerdictContinue {
		t.Fatalf("first chunk verdict = %v, want continue", verdict)
	}
	if state.Matched != 1 || !state.AtLineStart {
		t.Fatalf("state after first chunk = %+v, want Matched=1 AtLineStart=true", state)
	}

	forward, _, verdict = Scan(state, []byte("."))
	if len(forward) != 0 {
		t.Errorf("second chunk forwarded %q, want nothing", forward)
	}
	if verdict != VerdictDetach {
		t.Errorf("second chunk verdict = %v, want detach", verdict)
	}
}

func TestScan_BrokenMatchResetsState(t *testing.T) {
	forward, state, verdict := Scan(ScanState{}, []byte("\r~x"))
	if string(forward) != "\r~x" {
		t.Errorf("forwarded %q, want input unchanged", forward)
	}
	if verdict != VerdictContinue {
		t.Errorf("verdict = %v, want continue", verdict)
	}
	if state.Matched != 0 || state.AtLineStart {
		t.Errorf("state = %+v, want Matched=0 AtLineStart=false", state)
	}
	if state.Withheld() != nil {
		t.Errorf("Withheld() = %q, want nil", state.Withheld())
	}
}

func TestScan_DoesNotAliasCallerState(t *testing.T) {
	_, held, _ := Scan(ScanState{}, []byte("\r~"))

	// Scanning two different continuations from the same state must give
	// independent results.
	broken, _, _ := Scan(held, []byte("a"))
	detached, _, verdict := Scan(held, []byte("."))

	if string(broken) != "~a" {
		t.Errorf("broken continuation forwarded %q, want %q", broken, "~a")
	}
	if verdict != VerdictDetach || len(detached) != 0 {
		t.Errorf("detach continuation = (%q, %v), want (\"\", detach)", detached, verdict)
	}
	if !bytes.Equal(held.Withheld(), []byte("~")) {
		t.Errorf("original state mutated: Withheld() = %q", held.Withheld())
	}
}

// Any chunking of input that never completes the escape sequence must
// forward exactly the input: no byte lost, duplicated or reordered.
func TestScan_ChunkingPreservesNonEscapeInput(t *testing.T) {
	inputs := []string{
		"hello\r\n",
		"\r~x\r~~\r\r~y",
		"line one\rline ~ two\r~\r\r~a.",
		"\r\r\r~~~...",
		"~.\n~.\r\n~.",
	}

	for _, input := range inputs {
		for _, chunks := range allChunkings(input, 3) {
			forwarded, state, verdict, _ := scanAll(chunks...)
			if verdict == VerdictDetach {
				t.Errorf("chunks %q detached unexpectedly", chunks)
				continue
			}
			// Whatever is still withheld at the end would be flushed by
			// the next non-matching byte.
			total := forwarded + string(state.Withheld())
			if total != input {
				t.Errorf("chunks %q forwarded %q (withheld %q), want %q",
					chunks, forwarded, state.Withheld(), input)
			}
		}
	}
}

// Detach is reported at the same input position regardless of where the
// read boundaries fall.
func TestScan_DetachPositionIndependentOfChunking(t *testing.T) {
	input := "make\r~x\r~.ignored"
	// The completing '.' is at index 9.
	const detachIndex = 9

	for _, chunks := range allChunkings(input, 4) {
		_, _, verdict, scanned := scanAll(chunks...)
		if verdict != VerdictDetach {
			t.Errorf("chunks %q: verdict = %v, want detach", chunks, verdict)
			continue
		}
		consumed := 0
		for _, chunk := range chunks[:scanned-1] {
			consumed += len(chunk)
		}
		last := chunks[scanned-1]
		if detachIndex < consumed || detachIndex >= consumed+len(last) {
			t.Errorf("chunks %q: detached in chunk %q, want the chunk containing index %d",
				chunks, last, detachIndex)
		}
	}
}

// allChunkings returns every way to split input into at most maxChunks
// non-empty consecutive pieces.
func allChunkings(input string, maxChunks int) [][]string {
	var results [][]string
	var split func(rest string, prefix []string)
	split = func(rest string, prefix []string) {
		if rest == "" {
			results = append(results, append([]string(nil), prefix...))
			return
		}
		if len(prefix) == maxChunks-1 {
			results = append(results, append(append([]string(nil), prefix...), rest))
			return
		}
		for end := 1; end <= len(rest); end++ {
			split(rest[end:], append(prefix, rest[:end]))
		}
	}
	split(input, nil)
	return results
}

// States assembled from the exported fields alone, without going through
// Scan, behave like the equivalent scanned state.
func TestScan_StateFromExportedFields(t *testing.T) {
	tests := []struct {
		name        string
		state       ScanState
		chunk       string
		wantForward string
		wantVerdict Verdict
	}{
		{
			name:        "one symbol matched is flushed on mismatch",
			state:       ScanState{AtLineStart: true, Matched: 1},
			chunk:       "x",
			wantForward: "~x",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "one symbol matched completes",
			state:       ScanState{AtLineStart: true, Matched: 1},
			chunk:       ".",
			wantForward: "",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "matched without line start still counts",
			state:       ScanState{Matched: 1},
			chunk:       "x",
			wantForward: "~x",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "full match count is no match",
			state:       ScanState{AtLineStart: true, Matched: len(EscapeSequence)},
			chunk:       "x",
			wantForward: "x",
			wantVerdict: VerdictContinue,
		},
		{
			name:        "full match count still anchors a new escape",
			state:       ScanState{AtLineStart: true, Matched: len(EscapeSequence)},
			chunk:       "~.",
			wantForward: "",
			wantVerdict: VerdictDetach,
		},
		{
			name:        "negative match count is no match",
			state:       ScanState{AtLineStart: true, Matched: -1},
			chunk:       "x",
			wantForward: "x",
			wantVerdict: VerdictContinue,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			forward, next, verdict := Scan(test.state, []byte(test.chunk))
			if string(forward) != test.wantForward {
				t.Errorf("forwarded = %q, want %q", forward, test.wantForward)
			}
			if verdict != test.wantVerdict {
				t.Errorf("verdict = %v, want %v", verdict, test.wantVerdict)
			}
			if next.Matched < 0 || next.Matched >= len(EscapeSequence) {
				t.Errorf("next Matched = %d, out of range", next.Matched)
			}
		})
	}
}

func TestVerdictString(t *testing.T) {
	if got := VerdictContinue.String(); got != "continue" {
		t.Errorf("VerdictContinue.String() = %q", got)
	}
	if got := VerdictDetach.String(); got != "detach" {
		t.Errorf("VerdictDetach.String() = %q", got)
	}
}
