package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/lexdesk/internal/library"
)

func TestPaneCycle(t *testing.T) {
	assert.Equal(t, Library, Chat.Next())
	assert.Equal(t, Chat, Checklist.Next())
	assert.Equal(t, Checklist, Chat.Prev())
	assert.Equal(t, "news", News.String())
	assert.Equal(t, "Legal News", News.Title())
	assert.Equal(t, "Checklists", Checklist.Label())
	assert.Equal(t, "pane(9)", Pane(9).String())
}

func TestNavigateReportsNewsEntry(t *testing.T) {
	c := NewController()
	var events []Event
	cancel := c.Subscribe(func(ev Event) { events = append(events, ev) })
	defer cancel()

	c.Navigate(News)
	c.Navigate(News)
	c.Navigate(Library)

	require.Len(t, events, 3)
	assert.Equal(t, Event{From: Chat, To: News, EnteredNews: true}, events[0])
	assert.Equal(t, Event{From: News, To: News, EnteredNews: true}, events[1])
	assert.Equal(t, Event{From: News, To: Library}, events[2])
	assert.Equal(t, Library, c.Active())
}

func TestNavigateIgnoresUnknownPane(t *testing.T) {
	c := NewController()
	ev := c.Navigate(Pane(42))
	assert.Equal(t, Chat, ev.To)
	assert.Equal(t, Chat, c.Active())
}

func TestSelectSectionPrefillsInput(t *testing.T) {
	c := NewController()
	c.Navigate(Library)
	ev := c.SelectSection(library.Section{ID: "420", Title: "Section 420 IPC"})

	assert.Equal(t, Chat, ev.To)
	assert.Equal(t, Chat, c.Active())
	assert.Equal(t, "Tell me more about Section 420 IPC.", c.Input())
}

func TestSelectTemplatePrefillsPromptVerbatim(t *testing.T) {
	c := NewController()
	c.SetInput("draft text")
	tmpl := library.Default().Templates[1]
	c.SelectTemplate(tmpl)
	assert.Equal(t, tmpl.Prompt, c.Input())

	assert.Equal(t, tmpl.Prompt, c.TakeInput())
	assert.Empty(t, c.Input())
}
