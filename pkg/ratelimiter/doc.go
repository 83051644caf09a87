// Package ratelimiter throttles requests with a token bucket.
//
// Buckets live in a Store. MemoryStore serves a single instance and
// RedisStore shares buckets between replicas:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter, clientip.FromRequest, onLimited)).
//		Post("/sso/featurebase/password", h)
//
// Middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and Retry-After on rejected ones.
package ratelimiter
