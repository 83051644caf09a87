package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidDirectory   = errors.New("invalid user directory")
)

// OAuth errors
var (
	ErrOAuthDisabled   = errors.New("oauth provider not configured")
	ErrInvalidState    = errors.New("invalid OAuth state")
	ErrInvalidCode     = errors.New("invalid OAuth code")
	ErrUnverifiedEmail = errors.New("email not verified by provider")
	ErrNoPrimaryEmail  = errors.New("no primary email from provider")
	ErrProfileFetch    = errors.New("failed to fetch provider profile")
)
