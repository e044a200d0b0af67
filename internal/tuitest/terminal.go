package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the capability probes Bubble Tea and lipgloss send at
// startup to the answers a dark 80-column xterm would give.
var terminalQueries = []struct {
	query, reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b[c"), []byte("\x1b[?62;22c")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// maxPending bounds the unmatched tail kept between reads.
const maxPending = 64

// terminalResponder answers probes found in program output so the program
// does not stall waiting for a real terminal.
type terminalResponder struct {
	w       io.Writer
	pending []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerNext() {
	}
	if len(tr.pending) > maxPending {
		tr.pending = append([]byte(nil), tr.pending[len(tr.pending)-maxPending:]...)
	}
}

// answerNext replies to the earliest probe in the buffer and drops everything
// up to its end. It reports false when no probe is left.
func (tr *terminalResponder) answerNext() bool {
	first, idx := -1, -1
	for i, q := range terminalQueries {
		at := bytes.Index(tr.pending, q.query)
		if at >= 0 && (idx < 0 || at < idx) {
			first, idx = i, at
		}
	}
	if first < 0 {
		return false
	}
	q := terminalQueries[first]
	tr.pending = tr.pending[idx+len(q.query):]
	_, _ = tr.w.Write(q.reply)
	return true
}
