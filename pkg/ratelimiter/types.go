package ratelimiter

import "time"

// Result reports the outcome of a rate limit check.
type Result struct {
	Limit     int       // Bucket capacity
	Remaining int       // Tokens left after the check
	ResetAt   time.Time // When the next refill happens
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long the caller should wait before retrying.
// Zero if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config defines the token bucket shape. The defaults throttle credential
// guessing while leaving room for a user fumbling a code a few times.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"5"`        // Burst limit per key
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"1"`     // Tokens added per interval
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"30s"` // Refill cadence
}
