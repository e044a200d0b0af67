package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/csheth/lexdesk/internal/advice"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestExtractDropsShortLines(t *testing.T) {
	text := "1. Court Ruling: SC upholds verdict\nshort\n2. Tax Update: New slab announced"
	got := Extract(text, nil, fixedNow, DefaultFallbackURL)
	want := []Item{
		{Title: "Court Ruling", Snippet: " SC upholds verdict", URL: DefaultFallbackURL, Date: "Mar 14, 2026"},
		{Title: "Tax Update", Snippet: " New slab announced", URL: DefaultFallbackURL, Date: "Mar 14, 2026"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCountsCharactersNotBytes(t *testing.T) {
	// "धारा ३०२" is 8 characters but 22 bytes
	text := "धारा ३०२\nनया आपराधिक कानून: लागू हुआ"
	got := Extract(text, nil, fixedNow, DefaultFallbackURL)
	want := []Item{
		{Title: "नया आपराधिक कानून", Snippet: " लागू हुआ", URL: DefaultFallbackURL, Date: "Mar 14, 2026"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSnippetKeepsLaterColons(t *testing.T) {
	got := Extract("Cheque Bounce: Section 138: trials get fixed timelines", nil, fixedNow, "")
	require.Len(t, got, 1)
	assert.Equal(t, "Cheque Bounce", got[0].Title)
	assert.Equal(t, " Section 138: trials get fixed timelines", got[0].Snippet)
}

func TestExtractCapsAtFive(t *testing.T) {
	var lines []string
	for i := 0; i < 9; i++ {
		lines = append(lines, "Headline number: something happened today")
	}
	assert.Len(t, Extract(strings.Join(lines, "\n"), nil, fixedNow, ""), MaxItems)
}

func TestExtractUsesFirstSourceURL(t *testing.T) {
	sources := []advice.Source{
		{Title: "LiveLaw", URI: "https://livelaw.in/story"},
		{Title: "Bar and Bench", URI: "https://barandbench.com"},
	}
	items := Extract("A long enough headline without colon", sources, fixedNow, "")
	require.Len(t, items, 1)
	assert.Equal(t, "https://livelaw.in/story", items[0].URL)
	assert.Equal(t, "A long enough headline without colon", items[0].Title)
	assert.Equal(t, "A long enough headline without colon", items[0].Snippet)
}

func TestExtractGenericTitles(t *testing.T) {
	items := Extract("3. : only a summary here\n4. Trailing colon here:", nil, fixedNow, "https://fallback")
	require.Len(t, items, 2)
	assert.Equal(t, DefaultTitle, items[0].Title)
	assert.Equal(t, " only a summary here", items[0].Snippet)
	assert.Equal(t, "Trailing colon here", items[1].Title)
	assert.Equal(t, "4. Trailing colon here:", items[1].Snippet)
	assert.Equal(t, "https://fallback", items[1].URL)
}

func TestExtractEmptyText(t *testing.T) {
	assert.Empty(t, Extract("", nil, fixedNow, ""))
}

type fakeAdviser struct {
	reply   advice.Reply
	err     error
	calls   int
	history []advice.Turn
}

func (f *fakeAdviser) Name() string { return "fake" }

func (f *fakeAdviser) Advise(ctx context.Context, prompt string, history []advice.Turn) (advice.Reply, error) {
	f.calls++
	f.history = history
	if f.err != nil {
		return advice.Reply{}, f.err
	}
	return f.reply, nil
}

func newTestFeed(t *testing.T, fake *fakeAdviser) *Feed {
	t.Helper()
	return NewFeed(fake, WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return fixedNow }))
}

func TestFeedFetchesOnceWhileCached(t *testing.T) {
	fake := &fakeAdviser{reply: advice.Reply{Text: "1. Court Ruling: SC upholds verdict"}}
	feed := newTestFeed(t, fake)
	assert.True(t, feed.Empty())

	fetch, ok := feed.Begin(false)
	require.True(t, ok)
	assert.True(t, feed.Busy())

	_, again := feed.Begin(false)
	assert.False(t, again, "no second fetch while one is running")

	feed.Resolve(fetch.Run(context.Background()))
	assert.False(t, feed.Busy())
	require.Len(t, feed.Items(), 1)
	assert.Nil(t, fake.history)
	assert.Equal(t, fixedNow, feed.FetchedAt())

	_, ok = feed.Begin(false)
	assert.False(t, ok, "cached items suppress navigation fetches")
	assert.Equal(t, 1, fake.calls)
}

func TestFeedForcedRefreshClearsCache(t *testing.T) {
	fake := &fakeAdviser{reply: advice.Reply{Text: "1. Court Ruling: SC upholds verdict"}}
	feed := newTestFeed(t, fake)
	fetch, _ := feed.Begin(false)
	feed.Resolve(fetch.Run(context.Background()))

	fetch, ok := feed.Begin(true)
	require.True(t, ok)
	assert.True(t, feed.Empty())

	fake.err = errors.New("offline")
	feed.Resolve(fetch.Run(context.Background()))
	assert.True(t, feed.Empty())
	assert.EqualError(t, feed.LastError(), "offline")

	// An empty cache lets the next navigation retry.
	_, ok = feed.Begin(false)
	assert.True(t, ok)
}

func TestFeedFailureKeepsCache(t *testing.T) {
	fake := &fakeAdviser{reply: advice.Reply{Text: "1. Court Ruling: SC upholds verdict"}}
	feed := newTestFeed(t, fake)
	fetch, _ := feed.Begin(false)
	feed.Resolve(fetch.Run(context.Background()))

	feed.Resolve(Result{Err: errors.New("late failure")})
	assert.Len(t, feed.Items(), 1)
}

func TestFeedUsesCustomPrompt(t *testing.T) {
	var prompt string
	adviser := adviserFunc(func(p string) { prompt = p })
	feed := NewFeed(adviser, WithPrompt("custom prompt"))
	fetch, ok := feed.Begin(false)
	require.True(t, ok)
	feed.Resolve(fetch.Run(context.Background()))
	assert.Equal(t, "custom prompt", prompt)
}

type adviserFunc func(prompt string)

func (f adviserFunc) Name() string { return "func" }

func (f adviserFunc) Advise(ctx context.Context, prompt string, history []advice.Turn) (advice.Reply, error) {
	f(prompt)
	return advice.Reply{}, nil
}
