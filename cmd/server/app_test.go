package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/config"
	"github.com/dmitrymomot/portalsso/pkg/environment"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/requestid"
)

func testApp(t *testing.T, vars map[string]string) *app {
	t.Helper()

	hash, err := auth.HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	users := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(users, []byte(fmt.Sprintf(
		"users:\n  - id: u-1\n    email: ada@example.com\n    email_verified: true\n    password_hash: %q\n", hash,
	)), 0o600))

	env := map[string]string{
		"SESSION_SECRET":       "app-test-secret-with-at-least-32-characters",
		"APP_ORIGIN":           "http://app.test",
		"FEATUREBASE_SSO_KEY":  "portal-key",
		"FEATUREBASE_BASE_URL": "https://acme.featurebase.app",
		"FEATUREBASE_ORG_NAME": "acme",
		"USERS_FILE":           users,
	}
	for k, v := range vars {
		env[k] = v
	}

	var cfg appConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(env)))

	a, err := newApp(context.Background(), cfg, environment.Parse(cfg.Env), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func serve(a *app, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg appConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{
		"SESSION_SECRET": "app-test-secret-with-at-least-32-characters",
	})))

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/", cfg.Redirect.DefaultURL)
	assert.Equal(t, "http://localhost:8080", cfg.Redirect.AppOrigin)
	assert.False(t, cfg.Redirect.AllowExternalOrigins)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "light", cfg.Featurebase.Theme)
	assert.Equal(t, []string{"en"}, cfg.Featurebase.Locales)
	assert.False(t, cfg.Featurebase.SSOKey.IsSet())
	assert.False(t, cfg.Google.Enabled())
	assert.Equal(t, 10, cfg.SignInLimit.Capacity)
	assert.Empty(t, cfg.ClientIP.TrustedHeaders)
}

func TestConfigRequiresSessionSecret(t *testing.T) {
	t.Parallel()

	var cfg appConfig
	assert.ErrorIs(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})), config.ErrParsingConfig)
}

func TestNewAppRejectsUnknownStore(t *testing.T) {
	t.Parallel()

	var cfg appConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{
		"SESSION_SECRET": "app-test-secret-with-at-least-32-characters",
		"SESSION_STORE":  "postgres",
	})))
	_, err := newApp(context.Background(), cfg, environment.Development, logger.Discard())
	assert.ErrorContains(t, err, "postgres")
}

func TestAppRoutes(t *testing.T) {
	t.Parallel()
	a := testApp(t, nil)

	t.Run("health", func(t *testing.T) {
		t.Parallel()
		w := serve(a, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ALIVE", w.Body.String())

		w = serve(a, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "READY", w.Body.String())
	})

	t.Run("request id echoed", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(requestid.Header, "abc-123")
		w := serve(a, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc-123", w.Header().Get(requestid.Header))
	})

	t.Run("not found page", func(t *testing.T) {
		t.Parallel()
		w := serve(a, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "<h1>404</h1>")
	})

	t.Run("portal origin is trusted", func(t *testing.T) {
		t.Parallel()
		target := "https://acme.featurebase.app/roadmap"
		w := serve(a, httptest.NewRequest(http.MethodGet, "/sso/featurebase?return_to="+url.QueryEscape(target), nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="`+target+`"`)
	})

	t.Run("password sign-in hands off", func(t *testing.T) {
		t.Parallel()
		form := url.Values{
			"email":     {"ada@example.com"},
			"password":  {"s3cret-pass"},
			"return_to": {"https://acme.featurebase.app/"},
		}
		r := httptest.NewRequest(http.MethodPost, "/sso/featurebase/password", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := serve(a, r)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://acme.featurebase.app/api/v1/auth/access/jwt?"))
		assert.NotEmpty(t, w.Result().Cookies())
	})

	t.Run("token api requires a session", func(t *testing.T) {
		t.Parallel()
		w := serve(a, httptest.NewRequest(http.MethodGet, "/api/auth/featurebase-jwt", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("widget options", func(t *testing.T) {
		t.Parallel()
		w := serve(a, httptest.NewRequest(http.MethodGet, "/api/feedback/widget", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"organization":"acme"`)
	})
}

func TestAppWithoutUserDirectory(t *testing.T) {
	t.Parallel()
	a := testApp(t, map[string]string{"USERS_FILE": filepath.Join(t.TempDir(), "missing.yaml")})

	w := serve(a, httptest.NewRequest(http.MethodGet, "/sso/featurebase", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<form")
}
