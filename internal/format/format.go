// Package format classifies reply text line by line for display.
package format

import (
	"strings"
	"unicode/utf8"

	"github.com/csheth/lexdesk/internal/advice"
)

// CitationLabelLimit is the longest citation title shown before truncation.
const CitationLabelLimit = 20

var draftMarkers = []string{"---", "Subject:", "TO,"}

// Line is one display line of a reply.
type Line struct {
	Text        string
	Heading     bool
	Placeholder bool
	Blank       bool
}

// Document is a reply split into classified lines.
type Document struct {
	Lines []Line
	Draft bool
}

// Citation is a source prepared for display.
type Citation struct {
	Label string
	URI   string
}

// Format splits text on newlines and classifies each line. Heading and
// placeholder are independent; a line can be both.
func Format(text string) Document {
	raw := strings.Split(text, "\n")
	doc := Document{Lines: make([]Line, len(raw)), Draft: ContainsDraft(text)}
	for i, line := range raw {
		doc.Lines[i] = Line{
			Text:        line,
			Heading:     IsHeading(line),
			Placeholder: HasPlaceholder(line),
			Blank:       strings.TrimSpace(line) == "",
		}
	}
	return doc
}

// IsHeading reports an all-caps line longer than five characters that is not a URL.
func IsHeading(line string) bool {
	return utf8.RuneCountInString(line) > 5 &&
		strings.ToUpper(line) == line &&
		!strings.Contains(line, "HTTP")
}

// HasPlaceholder reports a line with both square brackets somewhere in it.
func HasPlaceholder(line string) bool {
	return strings.Contains(line, "[") && strings.Contains(line, "]")
}

// ContainsDraft reports whether a reply looks like a drafted document.
func ContainsDraft(text string) bool {
	for _, marker := range draftMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func CitationLabel(title string) string {
	if utf8.RuneCountInString(title) <= CitationLabelLimit {
		return title
	}
	return string([]rune(title)[:CitationLabelLimit]) + "..."
}

func Citations(sources []advice.Source) []Citation {
	out := make([]Citation, 0, len(sources))
	for _, src := range sources {
		out = append(out, Citation{Label: CitationLabel(src.Title), URI: src.URI})
	}
	return out
}
