package ratelimiter

import (
	"context"
	"time"
)

// Store is the storage backend for bucket state.
type Store interface {
	// ConsumeTokens takes tokens from the key's bucket and returns the
	// remaining count and the next refill time. A negative remaining count
	// means the request must be denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the state for the key.
	Reset(ctx context.Context, key string) error
}
