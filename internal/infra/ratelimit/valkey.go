package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyLimiter is a fixed one-minute window shared by every instance using the same Valkey.
type ValkeyLimiter struct {
	client valkey.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewValkeyLimiter allows RequestsPerMinute plus Burst calls per key per minute.
func NewValkeyLimiter(client valkey.Client, prefix string, cfg Config) *ValkeyLimiter {
	if prefix == "" {
		prefix = "wirequote"
	}
	return &ValkeyLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(cfg.RequestsPerMinute + cfg.Burst),
		window: time.Minute,
		now:    time.Now,
	}
}

func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := l.now().Truncate(l.window).Unix()
	counterKey := fmt.Sprintf("%s:ratelimit:%s:%d", l.prefix, key, windowStart)

	results := l.client.DoMulti(ctx,
		l.client.B().Incr().Key(counterKey).Build(),
		l.client.B().Expire().Key(counterKey).Seconds(int64(2*l.window/time.Second)).Build(),
	)
	count, err := results[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("increment rate counter: %w", err)
	}
	if err := results[1].Error(); err != nil {
		return false, fmt.Errorf("expire rate counter: %w", err)
	}
	return count <= l.limit, nil
}
