package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one rate limit check
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// AllowAll never limits. Used when Redis is disabled.
type AllowAll struct{}

func (AllowAll) Allow(context.Context, string) (*Result, error) {
	return &Result{Allowed: true}, nil
}

// FixedWindow counts requests per key in fixed windows stored in Redis
type FixedWindow struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewFixedWindow creates a limiter allowing limit requests per window per key
func NewFixedWindow(client redis.Cmdable, limit int, window time.Duration) *FixedWindow {
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:verify:",
		now:    time.Now,
	}
}

// Allow increments the counter of the current window for key
func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	start := l.now().Truncate(l.window)
	resetAt := start.Add(l.window)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return nil, err
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
