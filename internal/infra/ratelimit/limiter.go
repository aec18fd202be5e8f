package ratelimit

import "context"

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config sizes a limiter.
type Config struct {
	RequestsPerMinute int
	Burst             int
}
