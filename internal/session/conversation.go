package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/lexdesk/internal/advice"
)

const (
	// ConnectionFallback replaces the reply when the adviser call fails.
	ConnectionFallback = "I apologize, but I'm having trouble connecting to the legal database right now. Please check your internet connection and try again."
	// EmptyFallback replaces a reply that arrived without text.
	EmptyFallback = "I'm sorry, I encountered an error processing your request."
)

var (
	ErrEmptyInput = errors.New("session: input is empty")
	ErrBusy       = errors.New("session: a request is already in flight")
)

// Conversation drives chat turns against a Store. Like the store it must only be
// touched from one goroutine; Request.Run is the part that may run elsewhere.
type Conversation struct {
	store   *Store
	adviser advice.Adviser
	window  int
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
	busy    bool
}

type Option func(*Conversation)

func WithHistoryWindow(n int) Option {
	return func(c *Conversation) { c.window = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Conversation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each adviser call. Zero leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Conversation) { c.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		if now != nil {
			c.now = now
		}
	}
}

func NewConversation(store *Store, adviser advice.Adviser, opts ...Option) *Conversation {
	c := &Conversation{
		store:   store,
		adviser: adviser,
		window:  DefaultHistoryWindow,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conversation) Store() *Store {
	return c.store
}

func (c *Conversation) Adviser() advice.Adviser {
	return c.adviser
}

func (c *Conversation) Busy() bool {
	return c.busy
}

// Request is one in-flight adviser call. It carries everything Run needs so
// that Run never reads the store.
type Request struct {
	Prompt  string
	History []advice.Turn
	Started time.Time

	adviser advice.Adviser
	timeout time.Duration
}

// Result is what Run hands back to Resolve.
type Result struct {
	Reply   advice.Reply
	Err     error
	Elapsed time.Duration
}

// Submit appends the user's message and returns the request to run. The history
// window is taken before the append, so the new message travels only as the prompt.
// Whitespace only decides emptiness; the input is stored and sent as typed.
func (c *Conversation) Submit(input string) (*Request, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}
	return c.begin(Message{Role: advice.RoleUser, Content: input}, input)
}

// SubmitDocument sends extracted document text with an optional question. The log
// records a short document marker while the prompt carries the full text.
func (c *Conversation) SubmitDocument(name, text, question string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	content := "Attached document: " + strings.TrimSpace(name)
	if q := strings.TrimSpace(question); q != "" {
		content += "\n\n" + q
	}
	msg := Message{Role: advice.RoleUser, Content: content, IsDocument: true}
	return c.begin(msg, advice.DocumentPrompt(name, text, question))
}

func (c *Conversation) begin(msg Message, prompt string) (*Request, error) {
	if c.busy {
		return nil, ErrBusy
	}
	history := c.store.HistoryWindow(c.window)
	msg.Timestamp = c.now()
	c.store.Append(msg)
	c.busy = true
	return &Request{
		Prompt:  prompt,
		History: history,
		Started: msg.Timestamp,
		adviser: c.adviser,
		timeout: c.timeout,
	}, nil
}

// Run calls the adviser. It is safe to call off the owning goroutine.
func (r *Request) Run(ctx context.Context) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	reply, err := r.adviser.Advise(ctx, r.Prompt, r.History)
	return Result{Reply: reply, Err: err, Elapsed: time.Since(start)}
}

// Resolve appends the assistant's reply, or a fallback when the call failed,
// and clears the busy flag.
func (c *Conversation) Resolve(res Result) Message {
	msg := Message{Role: advice.RoleAssistant, Timestamp: c.now()}
	switch {
	case res.Err != nil:
		c.logger.Warn("chat request failed", zap.Error(res.Err), zap.Duration("elapsed", res.Elapsed))
		msg.Content = ConnectionFallback
	case strings.TrimSpace(res.Reply.Text) == "":
		msg.Content = EmptyFallback
		msg.Sources = res.Reply.Sources
	default:
		msg.Content = res.Reply.Text
		msg.Sources = res.Reply.Sources
	}
	c.busy = false
	return c.store.Append(msg)
}

// Reset clears the log back to the greeting. It is refused while a request is
// in flight.
func (c *Conversation) Reset() error {
	if c.busy {
		return ErrBusy
	}
	c.store.Reset()
	return nil
}
