package sso

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/logger"
)

const (
	msgGoogleCancelled  = "Google sign-in was cancelled."
	msgGoogleUnverified = "Your Google account email is not verified."
	msgGoogleFailed     = "Google sign-in failed. Please try again."
)

// CallbackRequest is the provider redirect back to us.
type CallbackRequest struct {
	State string `query:"state"`
	Code  string `query:"code"`
	Error string `query:"error"`
}

func (s *Service) googleStart(ctx handler.Context, req SignInRequest) handler.Response {
	if s.google == nil {
		return handler.Error(handler.ErrNotFound)
	}
	d := s.classify(ctx, req.ReturnTo)

	state, err := newState()
	if err != nil {
		return handler.Error(err)
	}
	sess, err := s.sessions.Ensure(ctx, ctx.ResponseWriter(), ctx.Request())
	if err != nil {
		return handler.Error(fmt.Errorf("oauth start: %w", err))
	}
	sess.Set(oauthStateKey, state)
	sess.Set(oauthTargetKey, d.Target)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return handler.Error(fmt.Errorf("oauth start: %w", err))
	}

	return handler.RedirectWithCode(s.google.AuthCodeURL(state), http.StatusFound)
}

func (s *Service) googleCallback(ctx handler.Context, req CallbackRequest) handler.Response {
	if s.google == nil {
		return handler.Error(handler.ErrNotFound)
	}

	expected, ok := s.sessions.Pop(ctx, ctx.Request(), oauthStateKey)
	target, _ := s.sessions.Pop(ctx, ctx.Request(), oauthTargetKey)
	// stored targets were validated on the way out; validate again in case policy changed
	d := s.classify(ctx, target)

	if !ok || req.State == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(req.State)) != 1 {
		s.log.WarnContext(ctx, "oauth state mismatch", logger.Event("oauth_state_mismatch"))
		return handler.Error(errors.Join(ErrInvalidOAuthState, auth.ErrInvalidState))
	}
	if req.Error != "" {
		s.log.InfoContext(ctx, "oauth sign-in cancelled", logger.Event("oauth_cancelled"), logger.Reason(req.Error))
		return s.renderForm(s.params(d, "", msgGoogleCancelled), http.StatusUnauthorized)
	}

	user, err := s.google.Exchange(ctx, req.Code)
	switch {
	case errors.Is(err, auth.ErrUnverifiedEmail):
		return s.renderForm(s.params(d, "", msgGoogleUnverified), http.StatusUnauthorized)
	case err != nil:
		s.log.ErrorContext(ctx, "oauth exchange failed", logger.Error(err))
		return s.renderForm(s.params(d, "", msgGoogleFailed), http.StatusBadGateway)
	}
	return s.establish(ctx, user, d.Target)
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
