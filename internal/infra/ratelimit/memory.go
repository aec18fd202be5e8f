package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// MemoryLimiter is a per-key token bucket held in process memory.
type MemoryLimiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	ratePerMinute float64
	burst         float64
	ttl           time.Duration
	now           func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewMemoryLimiter builds a token bucket refilling at RequestsPerMinute up to Burst.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.RequestsPerMinute
	}
	return &MemoryLimiter{
		buckets:       make(map[string]*bucket),
		ratePerMinute: float64(cfg.RequestsPerMinute),
		burst:         float64(burst),
		ttl:           5 * time.Minute,
		now:           time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[key] = b
	} else {
		if elapsed := now.Sub(b.lastSeen).Minutes(); elapsed > 0 {
			b.tokens = math.Min(l.burst, b.tokens+elapsed*l.ratePerMinute)
		}
		b.lastSeen = now
	}
	l.evictLocked(now)

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

func (l *MemoryLimiter) evictLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.ttl {
			delete(l.buckets, key)
		}
	}
}
