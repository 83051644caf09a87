package ssotoken

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/jwt"
)

// Claims is the token payload.
type Claims struct {
	UserID    string           `json:"userId"`
	Email     string           `json:"email"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.UserID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// Identity returns the identity carried by the claims.
func (c Claims) Identity() identity.Claim {
	return identity.Claim{SubjectID: c.UserID, Email: c.Email}
}

// Issuer mints tokens with a fixed signing key.
type Issuer struct {
	key SigningKey
	ttl time.Duration
	now func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithTTL adds iat and exp claims so tokens expire after d.
// Non-positive durations leave tokens without expiry.
func WithTTL(d time.Duration) Option {
	return func(i *Issuer) {
		if d > 0 {
			i.ttl = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// New returns an Issuer. An empty key is accepted here;
// every Issue call then fails with ErrConfiguration.
func New(key SigningKey, opts ...Option) *Issuer {
	i := &Issuer{key: key, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Configured reports whether the issuer has a signing key.
func (i *Issuer) Configured() bool { return i.key.IsSet() }

// TTL returns the configured token lifetime, zero meaning none.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for the claim. Checks run in order: email, key,
// subject, so a missing key is reported for any claim carrying an email.
func (i *Issuer) Issue(claim identity.Claim) (string, error) {
	if !claim.HasEmail() {
		return "", ErrMissingEmail
	}

	svc, err := jwt.New(i.key.bytes())
	if err != nil {
		return "", ErrConfiguration
	}
	if strings.TrimSpace(claim.SubjectID) == "" {
		return "", ErrMissingSubject
	}

	claims := Claims{UserID: claim.SubjectID, Email: claim.Email}
	if i.ttl > 0 {
		now := i.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	return svc.Generate(claims)
}

// Verify checks a token against the issuer key and returns its identity.
func (i *Issuer) Verify(token string) (identity.Claim, error) {
	return Verify(token, i.key)
}

// Issue signs a token for claim with key and no expiry.
func Issue(claim identity.Claim, key SigningKey) (string, error) {
	return New(key).Issue(claim)
}

// Verify decodes a token signed with key.
func Verify(token string, key SigningKey) (identity.Claim, error) {
	svc, err := jwt.New(key.bytes())
	if err != nil {
		return identity.Claim{}, ErrConfiguration
	}

	var claims Claims
	if err := svc.Parse(token, &claims); err != nil {
		return identity.Claim{}, errors.Join(ErrInvalidToken, err)
	}

	return claims.Identity(), nil
}
