package ratelimit

import "time"

type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

// RateLimiter throttles callers identified by an opaque key, typically
// the authenticated client ID.
type RateLimiter interface {
	Allow(key string, limits Limits) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
