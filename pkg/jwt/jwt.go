package jwt

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// HeaderAlgorithm is the only algorithm the service signs with or accepts.
const HeaderAlgorithm = "HS256"

type (
	// Claims is implemented by every claims type the service can sign.
	Claims = gojwt.Claims
	// MapClaims is a free-form claims set.
	MapClaims = gojwt.MapClaims
	// RegisteredClaims holds the RFC 7519 registered claims.
	RegisteredClaims = gojwt.RegisteredClaims
	// NumericDate is a JSON numeric date.
	NumericDate = gojwt.NumericDate
	// ClaimStrings is the "aud" claim type.
	ClaimStrings = gojwt.ClaimStrings
)

// NewNumericDate re-exports the constructor so callers do not need a second import.
var NewNumericDate = gojwt.NewNumericDate

// Service signs and verifies HS256 tokens.
// The signing key is kept in memory only and never rendered in errors.
type Service struct {
	signingKey []byte
}

// New creates a service with the provided signing key.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	return &Service{signingKey: key}, nil
}

// NewFromString is New for string-based configuration.
func NewFromString(signingKey string) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return New([]byte(signingKey))
}

// Generate signs claims and returns the compact token.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies tokenString and decodes its payload into claims.
// Temporal claims are validated by the claims type itself.
func (s *Service) Parse(tokenString string, claims Claims) error {
	if claims == nil {
		return ErrMissingClaims
	}

	_, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrUnexpectedSigningMethod):
		return ErrUnexpectedSigningMethod
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}

// keyFunc hands out the key only for HS256 tokens to prevent algorithm confusion.
func (s *Service) keyFunc(t *gojwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != HeaderAlgorithm {
		return nil, ErrUnexpectedSigningMethod
	}
	return s.signingKey, nil
}
