package ratelimit

import "time"

// Limiter decides whether a request keyed by key may proceed. When it may
// not, wait is how long until the next token is available.
type Limiter interface {
	Allow(key string) (ok bool, wait time.Duration)
}
