package rate

import "errors"

var (
	// ErrRateLimited means the counter for the key is over its window budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps any Redis failure while reading or bumping a counter.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
