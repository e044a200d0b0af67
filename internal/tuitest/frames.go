package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one full redraw. Plain has escapes removed, trailing spaces cut
// and trailing blank rows dropped.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// Bubble Tea starts every redraw by erasing the display.
	eraseDisplay = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiSequence  = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSequence  = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

const cursorHome = "\x1b[H"

func parseFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, chunk := range eraseDisplay.Split(stream, -1) {
		chunk = strings.TrimPrefix(strings.Trim(chunk, "\x00"), cursorHome)
		plain := tidy(stripANSI(chunk))
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: chunk, Plain: plain})
	}
	// inline programs never erase the display; treat the whole stream as one frame
	if len(frames) == 0 && stream != "" {
		frames = []Frame{{ANSI: stream, Plain: tidy(stripANSI(stream))}}
	}
	return frames
}

// FinalFrame returns the last redraw, false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Seen reports whether any redraw showed text.
func (r *Recording) Seen(text string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Frames {
		if strings.Contains(f.Plain, text) {
			return true
		}
	}
	return false
}

func stripANSI(s string) string {
	s = oscSequence.ReplaceAllString(s, "")
	s = csiSequence.ReplaceAllString(s, "")
	// shift-in and shift-out from line-drawing charsets
	return strings.NewReplacer("\x0e", "", "\x0f", "").Replace(s)
}

func tidy(s string) string {
	rows := strings.Split(s, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}
