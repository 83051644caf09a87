package ratelimiter

import "errors"

var (
	// ErrInvalidConfig indicates that the bucket configuration is unusable.
	ErrInvalidConfig = errors.New("ratelimiter: invalid configuration")

	// ErrInvalidTokenCount indicates a non-positive token request.
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")

	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")

	// ErrLimitExceeded is passed to the middleware's rejection handler.
	ErrLimitExceeded = errors.New("ratelimiter: limit exceeded")
)
