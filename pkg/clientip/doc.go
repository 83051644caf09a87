// Package clientip resolves the address of the caller.
//
// Proxy headers are only honored when listed in Config.TrustedHeaders, in
// priority order. Without trusted headers the TCP peer address is used, so a
// client cannot pick its own rate limit key:
//
//	resolver := clientip.New(cfg.TrustedHeaders...)
//	r.Use(resolver.Middleware)
//
//	ip := clientip.FromRequest(r)
package clientip
