package sso

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/portalsso/binder"
	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/views"
)

var (
	bindQuery = binder.Query()
	bindForm  = binder.Form()
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgMissingCredentials = "Enter your email and password."
)

// SignInRequest carries the requested destination.
type SignInRequest struct {
	ReturnTo string `query:"return_to"`
}

// PasswordRequest is the sign-in form submission.
type PasswordRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	ReturnTo string `form:"return_to"`
}

func (s *Service) signIn(ctx handler.Context, req SignInRequest) handler.Response {
	d := s.classify(ctx, req.ReturnTo)
	if claim, err := s.identities.Identify(ctx.Request()); err == nil {
		return s.handOff(ctx, claim, d.Target)
	}
	return handler.Templ(s.views.SignInPage(s.params(d, "", "")))
}

func (s *Service) passwordSignIn(ctx handler.Context, req PasswordRequest) handler.Response {
	if s.passwords == nil {
		return handler.Error(handler.ErrNotFound)
	}
	d := s.classify(ctx, req.ReturnTo)

	v := handler.NewValidationError()
	if strings.TrimSpace(req.Email) == "" {
		v.Add("email", "is required")
	}
	if req.Password == "" {
		v.Add("password", "is required")
	}
	if !v.IsEmpty() {
		return s.renderForm(s.params(d, req.Email, msgMissingCredentials), http.StatusUnprocessableEntity)
	}

	user, err := s.passwords.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.log.InfoContext(ctx, "password sign-in rejected", logger.Event("sign_in_failed"))
		return s.renderForm(s.params(d, req.Email, msgInvalidCredentials), http.StatusUnauthorized)
	}
	if err != nil {
		return handler.Error(fmt.Errorf("password sign-in: %w", err))
	}
	return s.establish(ctx, user, d.Target)
}

func (s *Service) signOut(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.sessions.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(fmt.Errorf("sign out: %w", err))
	}
	return handler.Redirect(s.validator.DefaultURL())
}

// establish records the sign-in on the session and hands off to target.
func (s *Service) establish(ctx handler.Context, user *auth.User, target string) handler.Response {
	if _, err := s.sessions.Authenticate(ctx, ctx.ResponseWriter(), ctx.Request(), user.ID, user.Email); err != nil {
		return handler.Error(fmt.Errorf("establish session: %w", err))
	}
	s.log.InfoContext(ctx, "signed in",
		logger.UserID(user.ID),
		logger.Event("sign_in"),
		slog.String("method", user.AuthMethod),
	)
	return s.handOff(ctx, identity.Claim{SubjectID: user.ID, Email: user.Email}, target)
}

// classify validates a requested destination and logs why it was refused.
func (s *Service) classify(ctx handler.Context, candidate string) redirect.Decision {
	d := s.validator.Classify(candidate)
	if !d.Accepted && d.Reason != redirect.ReasonEmpty {
		s.log.WarnContext(ctx, "return_to rejected",
			logger.Event("redirect_rejected"),
			logger.Reason(string(d.Reason)),
		)
	}
	return d
}

func (s *Service) params(d redirect.Decision, email, errMsg string) views.SignInParams {
	return views.SignInParams{
		ReturnTo:        d.Target,
		External:        d.External && d.Accepted,
		Email:           email,
		Error:           errMsg,
		PasswordEnabled: s.passwords != nil,
		GoogleEnabled:   s.google != nil,
		PasswordAction:  PasswordPath,
		GoogleURL:       GooglePath + "?" + url.Values{"return_to": {d.Target}}.Encode(),
	}
}

func (s *Service) renderForm(p views.SignInParams, code int) handler.Response {
	return handler.TemplPartialWithCode(s.views.SignInForm(p), s.views.SignInPage(p), code)
}
