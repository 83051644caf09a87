// Package identity defines who the current request belongs to.
//
// A Provider turns a request into a verified Claim (subject id and email)
// or returns ErrAuthenticationRequired. Require wraps handlers that must not
// run for anonymous requests and stores the claim in the request context;
// Optional does the same without rejecting. SessionProvider reads the
// authenticated session from pkg/session and StaticProvider returns a fixed
// claim for tests.
package identity
