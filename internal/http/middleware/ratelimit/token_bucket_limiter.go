package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // capacity (max tokens)
	TTL        time.Duration // forget buckets idle for longer (0 keeps them)
	MaxBuckets int           // tracked keys; the stalest one is evicted when full (0 is unbounded)
}

// TokenBucketLimiter keeps one bucket per client key.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewTokenBucketLimiter creates limiter with explicit config and injected clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	cfg.Rate = math.Max(cfg.Rate, 0)
	if cfg.Rate == 0 {
		cfg.Rate = 1
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.MaxBuckets = max(cfg.MaxBuckets, 0)
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Len returns the number of tracked keys.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Allow takes one token from the key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			l.evictStalestLocked()
		}
		b = &bucket{tokens: float64(l.cfg.Burst), seen: now}
		l.buckets[key] = b
	}

	if dt := now.Sub(b.seen); dt > 0 {
		b.tokens = math.Min(b.tokens+dt.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / l.cfg.Rate * float64(time.Second))
}

// sweepLocked drops idle buckets, at most once per half TTL.
func (l *TokenBucketLimiter) sweepLocked(now time.Time) {
	if l.cfg.TTL <= 0 || now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(l.cfg.TTL / 2)
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}

func (l *TokenBucketLimiter) evictStalestLocked() {
	var (
		stalest string
		oldest  time.Time
		found   bool
	)
	for k, b := range l.buckets {
		if !found || b.seen.Before(oldest) {
			stalest, oldest, found = k, b.seen, true
		}
	}
	if found {
		delete(l.buckets, stalest)
	}
}
