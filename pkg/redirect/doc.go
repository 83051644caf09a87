// Package redirect decides whether an untrusted post-login destination may be
// honored verbatim or must be replaced by a safe default.
//
// The policy is deliberately small: the candidate must be an absolute http or
// https URL, and when its origin differs from the application's own origin it
// is honored only if external origins are allowed in general or the origin is
// on an explicit allow-list. Anything else, including every parse failure,
// yields the default. Validation is total and never returns an error.
//
//	p := redirect.Policy{
//		DefaultURL: "/",
//		AppOrigin:  "https://app.example.com",
//		AllowedOrigins: []string{"https://acme.featurebase.app"},
//	}
//	target := redirect.Validate(r.URL.Query().Get("return_to"), p)
//
// The application origin must come from trusted configuration. Deriving it
// from Host or X-Forwarded-* headers lets a client choose what counts as
// same-origin.
package redirect
