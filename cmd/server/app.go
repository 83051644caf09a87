package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/modules/feedback"
	"github.com/dmitrymomot/portalsso/modules/sso"
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/clientip"
	"github.com/dmitrymomot/portalsso/pkg/cookie"
	"github.com/dmitrymomot/portalsso/pkg/environment"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/httpserver"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/ratelimiter"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/pkg/redis"
	"github.com/dmitrymomot/portalsso/pkg/requestid"
	"github.com/dmitrymomot/portalsso/pkg/session"
	"github.com/dmitrymomot/portalsso/views"
)

const readinessTimeout = 5 * time.Second

// app is the wired HTTP application.
type app struct {
	router  http.Handler
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg appConfig, env environment.Environment, log *slog.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		_ = a.Close()
		return nil, err
	}
	checks := map[string]httpserver.Check{}

	issuer := cfg.Featurebase.Issuer()
	if !issuer.Configured() {
		log.Warn("FEATUREBASE_SSO_KEY is not set, portal hand-off and widget tokens are disabled",
			logger.Component("app"))
	}

	var ssoOpts []sso.Option
	policy := cfg.Redirect
	if strings.TrimSpace(cfg.Featurebase.BaseURL) != "" {
		portal, err := featurebase.NewPortal(cfg.Featurebase.BaseURL)
		if err != nil {
			return fail(err)
		}
		policy.AllowedOrigins = append(slices.Clone(policy.AllowedOrigins), portal.Origin())
		ssoOpts = append(ssoOpts, sso.WithPortal(portal))
	}
	validator := redirect.New(policy)

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fail(fmt.Errorf("cookies: %w", err))
	}

	sessionOpts := []session.Option{
		session.WithConfig(cfg.Session),
		session.WithCookieManager(cookies),
	}
	// SESSION_STORE also decides where sign-in rate limit buckets live.
	var limitStore ratelimiter.Store
	switch cfg.Session.Store {
	case session.StoreMemory, "":
		mem := ratelimiter.NewMemoryStore()
		a.closers = append(a.closers, mem.Close)
		limitStore = mem
	case session.StoreRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, client.Close)
		checks["redis"] = redis.Healthcheck(client)
		sessionOpts = append(sessionOpts, session.WithStore(session.NewRedisStore(client, cfg.Redis.KeyPrefix)))
		limitStore = ratelimiter.NewRedisStore(client, cfg.Redis.KeyPrefix)
	default:
		return fail(fmt.Errorf("unknown SESSION_STORE %q", cfg.Session.Store))
	}
	limiter, err := ratelimiter.NewBucket(limitStore, cfg.SignInLimit)
	if err != nil {
		return fail(err)
	}
	ssoOpts = append(ssoOpts, sso.WithSignInLimiter(limiter))

	sessions, err := session.New(sessionOpts...)
	if err != nil {
		return fail(fmt.Errorf("sessions: %w", err))
	}
	a.closers = append(a.closers, sessions.Close)

	users, err := auth.LoadYAMLStore(cfg.UsersFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("user directory not found, password sign-in disabled",
			logger.Component("app"), slog.String("path", cfg.UsersFile))
	case err != nil:
		return fail(err)
	default:
		ssoOpts = append(ssoOpts, sso.WithPasswordAuth(auth.NewPasswordAuthenticator(users, auth.WithPasswordLogger(log))))
	}

	if cfg.Google.Enabled() {
		google, err := auth.NewGoogleOAuth(cfg.Google)
		if err != nil {
			return fail(err)
		}
		ssoOpts = append(ssoOpts, sso.WithGoogle(google))
	}

	widget, err := featurebase.NewWidget(cfg.Featurebase, env)
	if err != nil {
		return fail(err)
	}

	errorHandler := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		ErrorPage:  views.ErrorPage,
		ErrorToast: views.ErrorToast,
	})

	ssoSvc := sso.New(validator, issuer, sessions, append(ssoOpts,
		sso.WithLogger(log),
		sso.WithErrorHandler(errorHandler),
	)...)
	feedbackSvc := feedback.New(widget, issuer, identity.NewSessionProvider(sessions), feedback.Links{
		SignIn:  sso.SignInPath,
		SignOut: sso.SignOutPath,
		HomeURL: strings.TrimRight(cfg.Redirect.AppOrigin, "/") + "/",
	}, feedback.WithLogger(log))

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.New(cfg.ClientIP.TrustedHeaders...).Middleware,
		environment.Middleware(env),
		sessions.Middleware,
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler(handler.NewContext(w, r), handler.ErrNotFound)
	})

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, readinessTimeout, checks))
	r.Mount(sso.MountPath, ssoSvc.Handle())
	r.Mount(sso.APIMountPath, ssoSvc.APIHandler())
	r.Mount(feedback.APIMountPath, feedbackSvc.APIHandler())
	r.Mount("/", feedbackSvc.Handle())

	a.router = r
	return a, nil
}
