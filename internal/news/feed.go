package news

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/lexdesk/internal/advice"
)

// Feed caches the most recent headlines and guards against overlapping fetches.
// It is owned by one goroutine; only Fetch.Run may execute elsewhere.
type Feed struct {
	adviser     advice.Adviser
	prompt      string
	fallbackURL string
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time

	items   []Item
	busy    bool
	lastErr error
	fetched time.Time
}

type FeedOption func(*Feed)

func WithPrompt(prompt string) FeedOption {
	return func(f *Feed) {
		if prompt != "" {
			f.prompt = prompt
		}
	}
}

func WithFallbackURL(url string) FeedOption {
	return func(f *Feed) {
		if url != "" {
			f.fallbackURL = url
		}
	}
}

func WithFetchTimeout(d time.Duration) FeedOption {
	return func(f *Feed) { f.timeout = d }
}

func WithLogger(logger *zap.Logger) FeedOption {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithClock(now func() time.Time) FeedOption {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

func NewFeed(adviser advice.Adviser, opts ...FeedOption) *Feed {
	f := &Feed{
		adviser:     adviser,
		prompt:      CanonicalPrompt,
		fallbackURL: DefaultFallbackURL,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch is one headline request.
type Fetch struct {
	adviser     advice.Adviser
	prompt      string
	fallbackURL string
	timeout     time.Duration
	now         func() time.Time
}

// Result carries a fetch outcome back to the feed.
type Result struct {
	Items []Item
	Err   error
}

// Begin starts a fetch unless one is running or, for a non-forced call, the
// cache already holds items. A forced call empties the cache first.
func (f *Feed) Begin(force bool) (*Fetch, bool) {
	if f.busy {
		return nil, false
	}
	if !force && len(f.items) > 0 {
		return nil, false
	}
	if force {
		f.items = nil
	}
	f.busy = true
	f.lastErr = nil
	return &Fetch{
		adviser:     f.adviser,
		prompt:      f.prompt,
		fallbackURL: f.fallbackURL,
		timeout:     f.timeout,
		now:         f.now,
	}, true
}

// Run asks the adviser for headlines with no conversation history.
func (x *Fetch) Run(ctx context.Context) Result {
	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}
	reply, err := x.adviser.Advise(ctx, x.prompt, nil)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Items: Extract(reply.Text, reply.Sources, x.now(), x.fallbackURL)}
}

// Resolve replaces the cache on success. A failed fetch leaves the cache as it was.
func (f *Feed) Resolve(res Result) {
	f.busy = false
	if res.Err != nil {
		f.lastErr = res.Err
		f.logger.Warn("news fetch failed", zap.Error(res.Err))
		return
	}
	f.items = res.Items
	f.fetched = f.now()
	f.logger.Debug("news fetched", zap.Int("items", len(res.Items)))
}

func (f *Feed) Items() []Item {
	return append([]Item(nil), f.items...)
}

func (f *Feed) Busy() bool {
	return f.busy
}

func (f *Feed) Empty() bool {
	return len(f.items) == 0
}

func (f *Feed) LastError() error {
	return f.lastErr
}

// FetchedAt is the time of the last successful fetch, zero before the first.
func (f *Feed) FetchedAt() time.Time {
	return f.fetched
}
