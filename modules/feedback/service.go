package feedback

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
	"github.com/dmitrymomot/portalsso/views"
)

const (
	APIMountPath = "/api/feedback"
	WidgetPath   = APIMountPath + "/widget"
)

// TokenIssuer mints widget tokens.
type TokenIssuer interface {
	Configured() bool
	Issue(claim identity.Claim) (string, error)
}

// Links are the sign-in routes the home page points to.
type Links struct {
	SignIn  string
	SignOut string
	// HomeURL is the absolute URL visitors return to after sign-in.
	HomeURL string
}

type Service struct {
	widget     *featurebase.Widget
	issuer     TokenIssuer
	identities identity.Provider
	links      Links
	homePage   func(views.HomeParams) templ.Component
	log        *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithHomePage(fn func(views.HomeParams) templ.Component) Option {
	return func(s *Service) {
		if fn != nil {
			s.homePage = fn
		}
	}
}

func New(widget *featurebase.Widget, issuer TokenIssuer, identities identity.Provider, links Links, opts ...Option) *Service {
	s := &Service{
		widget:     widget,
		issuer:     issuer,
		identities: identities,
		links:      links,
		homePage:   views.HomePage,
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("feedback"))
	return s
}

// Handle serves the home page.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(s.home))
	return r
}

// APIHandler serves widget options, to be mounted at APIMountPath.
func (s *Service) APIHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/widget", handler.Wrap(s.widgetOptions))
	return r
}

func (s *Service) home(ctx handler.Context, _ struct{}) handler.Response {
	params := views.HomeParams{
		SignInURL:  s.links.SignIn + "?" + url.Values{"return_to": {s.links.HomeURL}}.Encode(),
		SignOutURL: s.links.SignOut,
	}

	claim, signedIn := s.identify(ctx.Request())
	if signedIn {
		params.Email = claim.Email
		if token, ok := s.token(ctx, claim); ok {
			params.Widget = featurebase.FeedbackWidget(s.widget.Options(ctx.Request().Header.Get("Accept-Language"), token))
		}
	}
	return handler.Templ(s.homePage(params))
}

func (s *Service) widgetOptions(ctx handler.Context, _ struct{}) handler.Response {
	var token string
	if claim, ok := s.identify(ctx.Request()); ok {
		token, _ = s.token(ctx, claim)
	}
	return handler.JSON(s.widget.Options(ctx.Request().Header.Get("Accept-Language"), token))
}

func (s *Service) identify(r *http.Request) (identity.Claim, bool) {
	if claim, ok := identity.FromContext(r.Context()); ok {
		return claim, true
	}
	claim, err := s.identities.Identify(r)
	return claim, err == nil
}

// token issues a widget token. Failures leave the widget out rather than
// failing the page.
func (s *Service) token(ctx handler.Context, claim identity.Claim) (string, bool) {
	if s.issuer == nil || !s.issuer.Configured() {
		return "", false
	}
	token, err := s.issuer.Issue(claim)
	switch {
	case errors.Is(err, ssotoken.ErrMissingEmail):
		s.log.WarnContext(ctx, "widget token skipped, identity has no email", logger.UserID(claim.SubjectID))
		return "", false
	case err != nil:
		s.log.ErrorContext(ctx, "widget token not issued", logger.Error(err))
		return "", false
	}
	return token, true
}
