package featurebase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/portalsso/pkg/redirect"
)

// ssoPath is the portal endpoint that accepts a signed identity token.
const ssoPath = "/api/v1/auth/access/jwt"

// Portal addresses a Featurebase workspace.
type Portal struct {
	base   *url.URL
	origin string
}

// NewPortal parses the workspace base URL, e.g. https://acme.featurebase.app.
func NewPortal(baseURL string) (*Portal, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrPortalNotConfigured
	}
	origin, ok := redirect.Origin(baseURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &Portal{base: u, origin: origin}, nil
}

// Origin returns the normalized portal origin.
func (p *Portal) Origin() string { return p.origin }

// SSOURL returns the hand-off URL that signs the visitor in with token and
// sends them on to returnTo. An empty returnTo is omitted.
func (p *Portal) SSOURL(token, returnTo string) string {
	u := *p.base
	u.Path = strings.TrimRight(u.Path, "/") + ssoPath
	u.RawPath = ""

	q := url.Values{}
	q.Set("jwt", token)
	if returnTo != "" {
		q.Set("return_to", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
