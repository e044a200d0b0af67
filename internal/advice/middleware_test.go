package advice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubAdviser struct {
	calls int
	err   error
}

func (s *stubAdviser) Name() string { return "stub" }

func (s *stubAdviser) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	s.calls++
	if s.err != nil {
		return Reply{}, s.err
	}
	return Reply{Text: "ok:" + prompt, Sources: []Source{{Title: "a", URI: "b"}}}, nil
}

func TestWithRateLimitDisabled(t *testing.T) {
	stub := &stubAdviser{}
	assert.Same(t, Adviser(stub), WithRateLimit(stub, 0))
}

func TestWithRateLimitHonorsContext(t *testing.T) {
	stub := &stubAdviser{}
	limited := WithRateLimit(stub, 1)

	_, err := limited.Advise(context.Background(), "first", nil)
	require.NoError(t, err)

	// The second call would wait a full minute for a token.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Advise(ctx, "second", nil)
	require.Error(t, err)

	var adviceErr *Error
	require.True(t, errors.As(err, &adviceErr))
	assert.Equal(t, "rate limit", adviceErr.Op)
	assert.Equal(t, 1, stub.calls)
}

func TestWithLoggingRecordsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	stub := &stubAdviser{}
	adviser := WithLogging(stub, zap.New(core))

	reply, err := adviser.Advise(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok:hello", reply.Text)
	assert.Equal(t, "stub", adviser.Name())

	stub.err = errors.New("boom")
	_, err = adviser.Advise(context.Background(), "hello", nil)
	require.Error(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "advice request completed", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["sources"])
	assert.Equal(t, "advice request failed", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestWithLoggingNilLogger(t *testing.T) {
	stub := &stubAdviser{}
	assert.Same(t, Adviser(stub), WithLogging(stub, nil))
}
