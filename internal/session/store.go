// Package session holds the chat log and the request pipeline that grows it.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/csheth/lexdesk/internal/advice"
)

// DefaultHistoryWindow is how many trailing messages accompany each prompt.
const DefaultHistoryWindow = 6

// DefaultGreeting seeds every new or reset conversation.
const DefaultGreeting = "Good Morning! I am LexDesk, your Indian Legal AI Adviser and Documentation Assistant.\n\n" +
	"I can help you analyze legal incidents, find IPC/BNS sections, and **draft professional legal documents** (FIRs, Notices, etc.).\n\n" +
	"How can I help you document your case today?"

// Message is one entry in the chat log.
type Message struct {
	ID         string          `json:"id"`
	Role       advice.Role     `json:"role"`
	Content    string          `json:"content"`
	Timestamp  time.Time       `json:"timestamp"`
	Sources    []advice.Source `json:"sources,omitempty"`
	IsDocument bool            `json:"isDocument,omitempty"`
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]advice.Source(nil), m.Sources...)
	}
	return m
}

// Greeting builds the seed message with a fresh ID.
func Greeting(now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      advice.RoleAssistant,
		Content:   DefaultGreeting,
		Timestamp: now,
	}
}

// EventKind tells subscribers how the log changed.
type EventKind int

const (
	EventAppended EventKind = iota
	EventReset
)

// Event is delivered to subscribers after every change.
type Event struct {
	Kind    EventKind
	Message Message
	Len     int
}

// Store is the ordered chat log. It is owned by a single goroutine (the UI loop)
// and does no locking of its own.
type Store struct {
	seed      Message
	messages  []Message
	listeners map[int]func(Event)
	nextID    int
	now       func() time.Time
}

// NewStore returns a store holding only seed. A seed without an ID or timestamp
// gets them here, once, so that every Reset restores the same value.
func NewStore(seed Message) *Store {
	s := &Store{listeners: make(map[int]func(Event)), now: time.Now}
	s.seed = s.complete(seed)
	s.messages = []Message{s.seed.clone()}
	return s
}

func (s *Store) complete(msg Message) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	return msg.clone()
}

// Append adds msg to the end of the log and returns the stored copy.
func (s *Store) Append(msg Message) Message {
	msg = s.complete(msg)
	s.messages = append(s.messages, msg)
	s.emit(Event{Kind: EventAppended, Message: msg.clone(), Len: len(s.messages)})
	return msg.clone()
}

// Reset truncates the log back to the seed message.
func (s *Store) Reset() {
	s.messages = []Message{s.seed.clone()}
	s.emit(Event{Kind: EventReset, Message: s.seed.clone(), Len: 1})
}

// HistoryWindow projects the last n messages to role/content turns, oldest first.
// n <= 0 selects DefaultHistoryWindow.
func (s *Store) HistoryWindow(n int) []advice.Turn {
	if n <= 0 {
		n = DefaultHistoryWindow
	}
	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	turns := make([]advice.Turn, 0, len(s.messages)-start)
	for _, msg := range s.messages[start:] {
		turns = append(turns, advice.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}

func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	for i, msg := range s.messages {
		out[i] = msg.clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.messages)
}

func (s *Store) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1].clone(), true
}

// Subscribe registers fn for change events. The returned func removes it.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) emit(ev Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}
