// Package view tracks which pane is active and the text waiting in the composer.
package view

import (
	"fmt"

	"github.com/csheth/lexdesk/internal/library"
)

// Pane is one of the four top-level screens.
type Pane int

const (
	Chat Pane = iota
	Library
	News
	Checklist
)

// Panes lists every pane in navigation order.
var Panes = []Pane{Chat, Library, News, Checklist}

func (p Pane) String() string {
	switch p {
	case Chat:
		return "chat"
	case Library:
		return "library"
	case News:
		return "news"
	case Checklist:
		return "checklist"
	default:
		return fmt.Sprintf("pane(%d)", int(p))
	}
}

// Title is the header text shown while the pane is active.
func (p Pane) Title() string {
	switch p {
	case Chat:
		return "Legal Consultation"
	case Library:
		return "Sections & Templates"
	case News:
		return "Legal News"
	case Checklist:
		return "Procedural Checklists"
	default:
		return ""
	}
}

// Label is the short navigation name.
func (p Pane) Label() string {
	switch p {
	case Chat:
		return "Consultation"
	case Library:
		return "Library"
	case News:
		return "News"
	case Checklist:
		return "Checklists"
	default:
		return ""
	}
}

func (p Pane) Next() Pane {
	return Panes[(int(p)+1)%len(Panes)]
}

func (p Pane) Prev() Pane {
	return Panes[(int(p)+len(Panes)-1)%len(Panes)]
}

func (p Pane) valid() bool {
	return p >= Chat && p <= Checklist
}

// Event reports a pane change.
type Event struct {
	From        Pane
	To          Pane
	EnteredNews bool
}

// Controller is owned by the UI goroutine.
type Controller struct {
	active    Pane
	input     string
	listeners map[int]func(Event)
	nextID    int
}

func NewController() *Controller {
	return &Controller{active: Chat, listeners: make(map[int]func(Event))}
}

func (c *Controller) Active() Pane {
	return c.active
}

// Navigate switches to p. Entering News is always reported, even from News,
// so the feed can decide whether to fetch.
func (c *Controller) Navigate(p Pane) Event {
	if !p.valid() {
		return Event{From: c.active, To: c.active}
	}
	ev := Event{From: c.active, To: p, EnteredNews: p == News}
	c.active = p
	for _, fn := range c.listeners {
		fn(ev)
	}
	return ev
}

// SelectSection moves to chat with a question about s in the composer.
func (c *Controller) SelectSection(s library.Section) Event {
	c.input = fmt.Sprintf("Tell me more about %s.", s.Title)
	return c.Navigate(Chat)
}

// SelectTemplate moves to chat with the template's prompt in the composer.
func (c *Controller) SelectTemplate(t library.Template) Event {
	c.input = t.Prompt
	return c.Navigate(Chat)
}

func (c *Controller) Input() string {
	return c.input
}

func (c *Controller) SetInput(s string) {
	c.input = s
}

// TakeInput returns the pending text and clears it.
func (c *Controller) TakeInput() string {
	s := c.input
	c.input = ""
	return s
}

func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}
