package sso

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/clientip"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/ratelimiter"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/pkg/session"
	"github.com/dmitrymomot/portalsso/views"
)

// Paths the service is reachable under once mounted at MountPath.
const (
	MountPath      = "/sso"
	SignInPath     = MountPath + "/featurebase"
	PasswordPath   = SignInPath + "/password"
	GooglePath     = SignInPath + "/google"
	SignOutPath    = MountPath + "/signout"
	APIMountPath   = "/api/auth"
	TokenPath      = APIMountPath + "/featurebase-jwt"
	oauthStateKey  = "oauth_state"
	oauthTargetKey = "oauth_return_to"
)

// TokenIssuer mints portal tokens for a verified identity.
type TokenIssuer interface {
	Configured() bool
	Issue(claim identity.Claim) (string, error)
}

// PasswordAuthenticator checks email and password credentials.
type PasswordAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
}

// OAuthProvider runs an authorization code sign-in.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.User, error)
}

// Sessions is the subset of session.Manager the service relies on.
type Sessions interface {
	Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Pop(ctx context.Context, r *http.Request, key string) (string, bool)
	Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, subjectID, email string) (*session.Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Views renders the sign-in screens.
type Views struct {
	SignInPage func(views.SignInParams) templ.Component
	SignInForm func(views.SignInParams) templ.Component
}

// Service serves sign-in and the portal hand-off.
type Service struct {
	validator    *redirect.Validator
	issuer       TokenIssuer
	sessions     Sessions
	identities   identity.Provider
	portal       *featurebase.Portal
	passwords    PasswordAuthenticator
	google       OAuthProvider
	limiter      ratelimiter.Limiter
	views        Views
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPortal enables the hand-off to a Featurebase workspace.
func WithPortal(p *featurebase.Portal) Option {
	return func(s *Service) { s.portal = p }
}

// WithPasswordAuth enables email and password sign-in.
func WithPasswordAuth(a PasswordAuthenticator) Option {
	return func(s *Service) { s.passwords = a }
}

// WithGoogle enables Google sign-in.
func WithGoogle(p OAuthProvider) Option {
	return func(s *Service) { s.google = p }
}

// WithSignInLimiter throttles password attempts per client address.
func WithSignInLimiter(l ratelimiter.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithIdentityProvider overrides how signed-in visitors are recognized.
func WithIdentityProvider(p identity.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.identities = p
		}
	}
}

func WithViews(v Views) Option {
	return func(s *Service) {
		if v.SignInPage != nil {
			s.views.SignInPage = v.SignInPage
		}
		if v.SignInForm != nil {
			s.views.SignInForm = v.SignInForm
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates the service. Identities default to the authenticated session
// when sessions is a *session.Manager.
func New(validator *redirect.Validator, issuer TokenIssuer, sessions Sessions, opts ...Option) *Service {
	s := &Service{
		validator: validator,
		issuer:    issuer,
		sessions:  sessions,
		views: Views{
			SignInPage: views.SignInPage,
			SignInForm: views.SignInForm,
		},
		log: logger.Discard(),
	}
	if m, ok := sessions.(*session.Manager); ok {
		s.identities = identity.NewSessionProvider(m)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.identities == nil {
		s.identities = identity.StaticProvider{}
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log, handler.ErrorHandlerConfig{
			ErrorPage:  views.ErrorPage,
			ErrorToast: views.ErrorToast,
		})
	}
	s.log = s.log.With(logger.Component("sso"))
	return s
}

// Handle returns the browser routes, to be mounted at MountPath.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/featurebase", handler.Wrap(s.signIn,
		handler.WithBinders[handler.Context, SignInRequest](bindQuery),
		handler.WithErrorHandler[handler.Context, SignInRequest](s.errorHandler),
	))
	r.With(s.throttle).Post("/featurebase/password", handler.Wrap(s.passwordSignIn,
		handler.WithBinders[handler.Context, PasswordRequest](bindForm),
		handler.WithErrorHandler[handler.Context, PasswordRequest](s.errorHandler),
	))
	r.Get("/featurebase/google", handler.Wrap(s.googleStart,
		handler.WithBinders[handler.Context, SignInRequest](bindQuery),
		handler.WithErrorHandler[handler.Context, SignInRequest](s.errorHandler),
	))
	r.Get("/featurebase/google/callback", handler.Wrap(s.googleCallback,
		handler.WithBinders[handler.Context, CallbackRequest](bindQuery),
		handler.WithErrorHandler[handler.Context, CallbackRequest](s.errorHandler),
	))
	r.Post("/signout", handler.Wrap(s.signOut,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

func (s *Service) throttle(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	key := ratelimiter.Composite(ratelimiter.Static("signin"), clientip.FromRequest)
	return ratelimiter.Middleware(s.limiter, key, s.rejectThrottled)(next)
}

func (s *Service) rejectThrottled(w http.ResponseWriter, r *http.Request, err error) {
	ctx := handler.NewContext(w, r)
	if errors.Is(err, ratelimiter.ErrLimitExceeded) {
		s.errorHandler(ctx, handler.ErrTooManyRequests)
		return
	}
	s.log.ErrorContext(ctx, "sign-in limiter unavailable", logger.Error(err))
	s.errorHandler(ctx, handler.ErrServiceUnavailable)
}

// APIHandler returns the JSON routes, to be mounted at APIMountPath.
func (s *Service) APIHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(identity.Require(s.identities, func(w http.ResponseWriter, r *http.Request, _ error) {
		_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
	}))
	r.Get("/featurebase-jwt", handler.Wrap(s.issueToken,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	return r
}
