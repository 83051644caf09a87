package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/portalsso/pkg/logger"
)

// PasswordOption configures the PasswordAuthenticator.
type PasswordOption func(*PasswordAuthenticator)

func WithPasswordLogger(l *slog.Logger) PasswordOption {
	return func(a *PasswordAuthenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRequireVerifiedEmail rejects users whose directory entry is not verified.
func WithRequireVerifiedEmail(required bool) PasswordOption {
	return func(a *PasswordAuthenticator) { a.requireVerified = required }
}

// PasswordAuthenticator checks email and password against bcrypt hashes in a UserStore.
type PasswordAuthenticator struct {
	store           UserStore
	logger          *slog.Logger
	requireVerified bool
	dummyHash       []byte
}

func NewPasswordAuthenticator(store UserStore, opts ...PasswordOption) *PasswordAuthenticator {
	a := &PasswordAuthenticator{
		store:           store,
		logger:          logger.Discard(),
		requireVerified: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	// Compared against when the user is unknown so both paths cost one bcrypt run.
	a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portalsso-dummy-password"), bcrypt.DefaultCost)
	return a
}

// Authenticate returns the user for valid credentials. Every failure is
// reported as ErrInvalidCredentials so callers cannot enumerate accounts.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		if !errors.Is(err, ErrUserNotFound) {
			a.logger.ErrorContext(ctx, "user lookup failed", logger.Component("auth"), logger.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if a.requireVerified && !user.EmailVerified {
		a.logger.WarnContext(ctx, "sign-in with unverified email", logger.Component("auth"), logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}

	user.AuthMethod = MethodPassword
	return user, nil
}

// HashPassword returns a bcrypt hash suitable for the user directory.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
