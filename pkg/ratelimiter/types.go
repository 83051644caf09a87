package ratelimiter

import "time"

// Config defines a token bucket.
type Config struct {
	// Capacity is the burst size.
	Capacity int `env:"SIGNIN_RATE_CAPACITY" envDefault:"10"`
	// RefillRate tokens are added every RefillInterval.
	RefillRate     int           `env:"SIGNIN_RATE_REFILL" envDefault:"1"`
	RefillInterval time.Duration `env:"SIGNIN_RATE_INTERVAL" envDefault:"1m"`
}

// Result is the bucket state after a request.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fit in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// refill applies elapsed intervals to tokens and returns the new count and
// refill time. Intervals are capped so large gaps cannot overflow.
func (c Config) refill(tokens int, lastRefill, now time.Time) (int, time.Time) {
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := min(int64(now.Sub(lastRefill)/c.RefillInterval), maxIntervals)
	if intervals <= 0 {
		return tokens, lastRefill
	}
	return min(tokens+int(intervals)*c.RefillRate, c.Capacity), now
}
