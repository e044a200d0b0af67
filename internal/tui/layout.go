package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/format"
	"github.com/csheth/lexdesk/internal/session"
)

// heroMinHeight is the terminal height below which the logo is hidden.
const heroMinHeight = 36

// composerHeight covers the composer header, input and help lines.
const composerHeight = 3

type pageLayout struct {
	viewportWidth  int
	viewportHeight int
	showHero       bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.showHero = height >= heroMinHeight
	// tabs, pane title, status bar and the blank separators between them
	chrome := 8
	if l.showHero {
		chrome += len(logoArtLines) + 2
	}
	usable := height - chrome - composerHeight
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

var placeholderPattern = regexp.MustCompile(`\[[^\]\n]*\]`)

// renderTranscript lays out every message of the chat log at the given width.
func renderTranscript(msgs []session.Message, width int) string {
	var cb strings.Builder
	for idx, msg := range msgs {
		writeMessage(&cb, msg, width)
		if idx < len(msgs)-1 {
			cb.WriteRune('\n')
		}
	}
	return cb.String()
}

func writeMessage(cb *strings.Builder, msg session.Message, width int) {
	doc := format.Format(msg.Content)

	label := assistantLabelStyle.Render("LexDesk")
	if msg.Role == advice.RoleUser {
		label = userLabelStyle.Render("You")
	}
	header := []string{label, timestampStyle.Render(msg.Timestamp.Format("15:04"))}
	if msg.IsDocument {
		header = append(header, documentBadgeStyle.Render("DOCUMENT"))
	}
	if msg.Role == advice.RoleAssistant && doc.Draft {
		header = append(header, draftBadgeStyle.Render("DRAFT · /copy"))
	}
	cb.WriteString(strings.Join(header, " "))
	cb.WriteRune('\n')

	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}
	for _, line := range doc.Lines {
		if line.Blank {
			cb.WriteRune('\n')
			continue
		}
		for _, part := range strings.Split(wordwrap.String(line.Text, wrap), "\n") {
			cb.WriteString("  " + styleLine(part, line))
			cb.WriteRune('\n')
		}
	}

	if len(msg.Sources) > 0 {
		cb.WriteString(helperStyle.Render("  Verification Sources"))
		cb.WriteRune('\n')
		for _, c := range format.Citations(msg.Sources) {
			cb.WriteString("  " + sourceChipStyle.Render(c.Label) + " " + helperStyle.Render(c.URI))
			cb.WriteRune('\n')
		}
	}
}

func styleLine(text string, line format.Line) string {
	if line.Placeholder {
		text = placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
			return placeholderStyle.Render(match)
		})
	}
	if line.Heading {
		return headingLineStyle.Render(text)
	}
	return text
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// truncateCells shortens s to at most width terminal cells.
func truncateCells(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
