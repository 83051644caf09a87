package sso_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/modules/sso"
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/cookie"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/ratelimiter"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/pkg/session"
	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
)

const (
	appOrigin    = "http://app.test"
	portalOrigin = "https://acme.featurebase.app"
	signingKey   = ssotoken.SigningKey("portal-signing-key")
	password     = "correct horse battery staple"
)

type fakeGoogle struct{}

func (fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (fakeGoogle) Exchange(_ context.Context, code string) (*auth.User, error) {
	switch code {
	case "good":
		return &auth.User{ID: "google:42", Email: "grace@example.com", EmailVerified: true, AuthMethod: auth.MethodOAuthGoogle}, nil
	case "unverified":
		return nil, auth.ErrUnverifiedEmail
	default:
		return nil, auth.ErrInvalidCode
	}
}

type fixture struct {
	srv    *httptest.Server
	client *http.Client
	issuer *ssotoken.Issuer
}

func newFixture(t *testing.T, issuer *ssotoken.Issuer, opts ...sso.Option) *fixture {
	t.Helper()

	cookies, err := cookie.New([]string{"sso-test-secret-that-is-at-least-32-chars"})
	require.NoError(t, err)
	cfg := session.DefaultConfig()
	cfg.CleanupInterval = 0
	sessions, err := session.New(session.WithConfig(cfg), session.WithCookieManager(cookies))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	users := auth.NewMemoryStore(auth.User{ID: "u1", Email: "ada@example.com", EmailVerified: true, PasswordHash: hash})

	portal, err := featurebase.NewPortal(portalOrigin)
	require.NoError(t, err)

	validator := redirect.New(redirect.Policy{
		DefaultURL:     "/",
		AppOrigin:      appOrigin,
		AllowedOrigins: []string{portal.Origin()},
	})

	base := []sso.Option{
		sso.WithPortal(portal),
		sso.WithPasswordAuth(auth.NewPasswordAuthenticator(users)),
	}
	svc := sso.New(validator, issuer, sessions, append(base, opts...)...)

	r := chi.NewRouter()
	r.Use(sessions.Middleware)
	r.Mount(sso.MountPath, svc.Handle())
	r.Mount(sso.APIMountPath, svc.APIHandler())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &fixture{srv: srv, client: client, issuer: issuer}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func signInPath(target string) string {
	return sso.SignInPath + "?" + url.Values{"return_to": {target}}.Encode()
}

func defaultIssuer() *ssotoken.Issuer {
	return ssotoken.New(signingKey, ssotoken.WithTTL(5*time.Minute))
}

// assertHandOff checks a portal SSO redirect and returns the verified claim.
func assertHandOff(t *testing.T, resp *http.Response, target string) identity.Claim {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, portalOrigin+"/api/v1/auth/access/jwt", loc.Scheme+"://"+loc.Host+loc.Path)
	assert.Equal(t, target, loc.Query().Get("return_to"))

	claim, err := ssotoken.Verify(loc.Query().Get("jwt"), signingKey)
	require.NoError(t, err)
	return claim
}

func TestSignInPage(t *testing.T) {
	t.Parallel()
	f := newFixture(t, defaultIssuer(), sso.WithGoogle(fakeGoogle{}))

	tests := []struct {
		name       string
		target     string
		wantValue  string
		wantNotice bool
	}{
		{"missing target", "", "/", false},
		{"foreign origin", "https://evil.test/phish", "/", false},
		{"javascript scheme", "javascript:alert(1)", "/", false},
		{"same origin", appOrigin + "/docs", appOrigin + "/docs", false},
		{"trusted portal", portalOrigin + "/roadmap", portalOrigin + "/roadmap", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, body := f.get(t, signInPath(tt.target))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, `name="return_to" value="`+tt.wantValue+`"`)
			assert.Equal(t, tt.wantNotice, strings.Contains(body, "After signing in"))
			assert.Contains(t, body, "Sign in with Google")
			assert.NotContains(t, body, "evil.test")
		})
	}
}

func TestPasswordSignIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t, defaultIssuer())
	target := portalOrigin + "/roadmap?sort=top"

	t.Run("missing fields", func(t *testing.T) {
		resp, body := f.post(t, sso.PasswordPath, url.Values{"return_to": {target}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "Enter your email and password.")
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := f.post(t, sso.PasswordPath, url.Values{
			"email": {"ada@example.com"}, "password": {"nope"}, "return_to": {target},
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Invalid email or password.")
		assert.Contains(t, body, `value="ada@example.com"`)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, body := f.post(t, sso.PasswordPath, url.Values{
			"email": {"nobody@example.com"}, "password": {password},
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Invalid email or password.")
	})

	t.Run("hands off to portal", func(t *testing.T) {
		resp, _ := f.post(t, sso.PasswordPath, url.Values{
			"email": {"ADA@example.com "}, "password": {password}, "return_to": {target},
		})
		claim := assertHandOff(t, resp, target)
		assert.Equal(t, identity.Claim{SubjectID: "u1", Email: "ada@example.com"}, claim)
	})

	t.Run("signed in visitor skips the form", func(t *testing.T) {
		resp, _ := f.get(t, signInPath(appOrigin+"/docs"))
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, appOrigin+"/docs", resp.Header.Get("Location"))

		resp, _ = f.get(t, signInPath(portalOrigin+"/"))
		assertHandOff(t, resp, portalOrigin+"/")
	})

	t.Run("rejected target falls back to default", func(t *testing.T) {
		resp, _ := f.get(t, signInPath("https://evil.test/"))
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("token api", func(t *testing.T) {
		resp, body := f.get(t, sso.TokenPath)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		var got handler.JSONResponse
		require.NoError(t, json.Unmarshal([]byte(body), &got))
		data, ok := got.Data.(map[string]any)
		require.True(t, ok)
		claim, err := f.issuer.Verify(data["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claim.Email)
	})

	t.Run("sign out", func(t *testing.T) {
		resp, _ := f.post(t, sso.SignOutPath, url.Values{})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		resp, body := f.get(t, sso.TokenPath)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"Unauthorized"}}`, body)
	})
}

func TestTokenAPIErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{SubjectID: "u1"}, Authenticated: true,
		}))
		resp, body := f.get(t, sso.TokenPath)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.JSONEq(t, `{"error":{"code":"missing_email","message":"Unprocessable Entity"}}`, body)
	})

	t.Run("unconfigured key", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, ssotoken.New(""), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{SubjectID: "u1", Email: "ada@example.com"}, Authenticated: true,
		}))
		resp, body := f.get(t, sso.TokenPath)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.JSONEq(t, `{"error":{"code":"sso_configuration_error","message":"Internal Server Error"}}`, body)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{Email: "ada@example.com"}, Authenticated: true,
		}))
		resp, body := f.get(t, sso.TokenPath)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"Unauthorized"}}`, body)
	})
}

func TestHandOffFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing email redirects without token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{SubjectID: "u1"}, Authenticated: true,
		}))
		resp, _ := f.get(t, signInPath(portalOrigin+"/roadmap"))
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, portalOrigin+"/roadmap", resp.Header.Get("Location"))
	})

	t.Run("unconfigured key is a server error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, ssotoken.New(""), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{SubjectID: "u1", Email: "ada@example.com"}, Authenticated: true,
		}))
		resp, body := f.get(t, signInPath(portalOrigin+"/roadmap"))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Location"))
		assert.NotContains(t, body, string(signingKey))
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithIdentityProvider(identity.StaticProvider{
			Claim: identity.Claim{Email: "ada@example.com"}, Authenticated: true,
		}))
		resp, _ := f.get(t, signInPath(portalOrigin+"/roadmap"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Location"))
	})
}

func TestGoogleSignIn(t *testing.T) {
	t.Parallel()
	target := portalOrigin + "/changelog"

	start := func(t *testing.T, f *fixture) string {
		t.Helper()
		resp, _ := f.get(t, sso.GooglePath+"?"+url.Values{"return_to": {target}}.Encode())
		require.Equal(t, http.StatusFound, resp.StatusCode)
		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "accounts.google.test", loc.Host)
		state := loc.Query().Get("state")
		require.NotEmpty(t, state)
		return state
	}
	callback := func(t *testing.T, f *fixture, q url.Values) (*http.Response, string) {
		t.Helper()
		return f.get(t, sso.GooglePath+"/callback?"+q.Encode())
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithGoogle(fakeGoogle{}))
		state := start(t, f)

		resp, _ := callback(t, f, url.Values{"state": {state}, "code": {"good"}})
		claim := assertHandOff(t, resp, target)
		assert.Equal(t, "grace@example.com", claim.Email)
		assert.Equal(t, "google:42", claim.SubjectID)
	})

	t.Run("state is single use", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithGoogle(fakeGoogle{}))
		state := start(t, f)

		resp, _ := callback(t, f, url.Values{"state": {"forged"}, "code": {"good"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = callback(t, f, url.Values{"state": {state}, "code": {"good"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "a failed attempt consumes the state")
	})

	t.Run("provider errors re-render the form", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer(), sso.WithGoogle(fakeGoogle{}))

		resp, body := callback(t, f, url.Values{"state": {start(t, f)}, "error": {"access_denied"}})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Google sign-in was cancelled.")

		resp, body = callback(t, f, url.Values{"state": {start(t, f)}, "code": {"unverified"}})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "not verified")

		resp, body = callback(t, f, url.Values{"state": {start(t, f)}, "code": {"bad"}})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, body, "Google sign-in failed.")
		assert.Contains(t, body, `value="`+target+`"`)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, defaultIssuer())
		resp, _ := f.get(t, sso.GooglePath)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestErrInvalidOAuthStateIsHTTPError(t *testing.T) {
	t.Parallel()
	var httpErr handler.HTTPError
	assert.True(t, errors.As(error(sso.ErrInvalidOAuthState), &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestPasswordSignInThrottled(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	f := newFixture(t, defaultIssuer(), sso.WithSignInLimiter(limiter))
	form := url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}

	for range 2 {
		resp, _ := f.post(t, sso.PasswordPath, form)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Remaining"))
	}

	resp, _ := f.post(t, sso.PasswordPath, form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	resp, _ = f.get(t, sso.SignInPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "only password attempts are throttled")
}
