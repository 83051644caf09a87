package identity

import (
	"context"
	"net/http"
	"strings"
)

// Claim is a verified subject identifier and email asserted by the identity provider.
type Claim struct {
	SubjectID string `json:"userId"`
	Email     string `json:"email"`
}

// HasEmail reports whether the claim carries a non-blank email.
func (c Claim) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

// Provider verifies the session behind a request and yields its identity.
// Implementations return ErrAuthenticationRequired when there is no verified session.
type Provider interface {
	Identify(r *http.Request) (Claim, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(r *http.Request) (Claim, error)

func (f ProviderFunc) Identify(r *http.Request) (Claim, error) { return f(r) }

type contextKey struct{}

// WithClaim stores an identity claim in the context.
func WithClaim(ctx context.Context, c Claim) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the identity claim stored by Require, if any.
func FromContext(ctx context.Context) (Claim, bool) {
	if ctx == nil {
		return Claim{}, false
	}
	c, ok := ctx.Value(contextKey{}).(Claim)
	return c, ok
}
