package ssotoken

import "errors"

var (
	// ErrMissingEmail indicates the verified identity has no email claim.
	ErrMissingEmail = errors.New("ssotoken: email not found")
	// ErrMissingSubject indicates the identity has no subject identifier.
	ErrMissingSubject = errors.New("ssotoken: subject not found")
	// ErrConfiguration indicates the signing key is not configured.
	ErrConfiguration = errors.New("ssotoken: sso configuration error")
	// ErrInvalidToken indicates a token failed verification.
	ErrInvalidToken = errors.New("ssotoken: invalid token")
)
