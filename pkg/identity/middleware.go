package identity

import (
	"net/http"
)

// FailureHandler renders the response for a request that failed identification.
type FailureHandler func(w http.ResponseWriter, r *http.Request, err error)

// Require rejects requests the provider cannot identify and stores the claim
// in the request context for downstream handlers.
// A nil onFail responds with 401 Unauthorized.
func Require(p Provider, onFail FailureHandler) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claim, err := p.Identify(r)
			if err != nil {
				onFail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaim(r.Context(), claim)))
		})
	}
}

// Optional identifies the request when possible and never rejects it.
func Optional(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claim, err := p.Identify(r); err == nil {
				r = r.WithContext(WithClaim(r.Context(), claim))
			}
			next.ServeHTTP(w, r)
		})
	}
}
