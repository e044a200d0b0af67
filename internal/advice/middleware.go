package advice

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type rateLimited struct {
	next    Adviser
	limiter *rate.Limiter
}

// WithRateLimit spaces calls to next so that no more than perMinute requests
// start in any minute. A non-positive perMinute returns next unchanged.
func WithRateLimit(next Adviser, perMinute int) Adviser {
	if perMinute <= 0 {
		return next
	}
	every := time.Minute / time.Duration(perMinute)
	return &rateLimited{next: next, limiter: rate.NewLimiter(rate.Every(every), 1)}
}

func (r *rateLimited) Name() string {
	return r.next.Name()
}

func (r *rateLimited) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Reply{}, fail(r.next.Name(), "rate limit", err)
	}
	return r.next.Advise(ctx, prompt, history)
}

type logged struct {
	next   Adviser
	logger *zap.Logger
}

// WithLogging records every call to next with its latency and outcome.
func WithLogging(next Adviser, logger *zap.Logger) Adviser {
	if logger == nil {
		return next
	}
	return &logged{next: next, logger: logger.Named("advice")}
}

func (l *logged) Name() string {
	return l.next.Name()
}

func (l *logged) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	start := time.Now()
	reply, err := l.next.Advise(ctx, prompt, history)
	fields := []zap.Field{
		zap.String("backend", l.next.Name()),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("history", len(history)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		l.logger.Warn("advice request failed", append(fields, zap.Error(err))...)
		return reply, err
	}
	l.logger.Info("advice request completed", append(fields, zap.Int("sources", len(reply.Sources)))...)
	return reply, nil
}
