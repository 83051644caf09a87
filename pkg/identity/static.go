package identity

import "net/http"

// StaticProvider identifies every request as the same claim.
// A zero-value provider treats every request as anonymous.
type StaticProvider struct {
	Claim         Claim
	Authenticated bool
}

func (p StaticProvider) Identify(_ *http.Request) (Claim, error) {
	if !p.Authenticated {
		return Claim{}, ErrAuthenticationRequired
	}
	return p.Claim, nil
}
