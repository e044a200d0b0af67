package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/lexdesk/internal/document"
	"github.com/csheth/lexdesk/internal/library"
	"github.com/csheth/lexdesk/internal/news"
	"github.com/csheth/lexdesk/internal/session"
)

const heroTagline = "Indian legal counsel and drafting, in your terminal."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	quickSectionCount         = 7
	listLabelWidth            = 56
)

const (
	composerPlaceholder     = "Describe your legal issue or ask for a draft…"
	composerBusyPlaceholder = "LexDesk is drafting…"
)

type chatResultMsg struct {
	result session.Result
}

type newsResultMsg struct {
	result news.Result
}

type attachResultMsg struct {
	text     document.Text
	question string
	err      error
}

type exportResultMsg struct {
	path  string
	count int
	err   error
}

type copyResultMsg struct {
	err error
}

type catalogUpdatedMsg struct {
	catalog library.Catalog
}

// CatalogUpdated wraps a reloaded catalog for Program.Send.
func CatalogUpdated(c library.Catalog) tea.Msg {
	return catalogUpdatedMsg{catalog: c}
}

// libraryEntry is one selectable row in the library pane.
type libraryEntry struct {
	section  *library.Section
	template *library.Template
}

func (e libraryEntry) title() string {
	if e.section != nil {
		return e.section.Title
	}
	return e.template.Title
}
