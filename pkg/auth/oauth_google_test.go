package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/portalsso/pkg/auth"
)

type fakeGoogle struct {
	*httptest.Server
	profile map[string]any
}

func newFakeGoogle(t *testing.T, profile map[string]any) *fakeGoogle {
	t.Helper()

	f := &fakeGoogle{profile: profile}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGoogle) client(t *testing.T) *auth.GoogleOAuth {
	t.Helper()

	g, err := auth.NewGoogleOAuth(auth.GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/sso/featurebase/google/callback",
		Scopes:       []string{"openid", "email"},
	}, auth.WithGoogleEndpoint(oauth2.Endpoint{
		AuthURL:   f.URL + "/auth",
		TokenURL:  f.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}, f.URL+"/userinfo"))
	require.NoError(t, err)
	return g
}

func TestNewGoogleOAuth_Disabled(t *testing.T) {
	t.Parallel()

	_, err := auth.NewGoogleOAuth(auth.GoogleOAuthConfig{})
	assert.ErrorIs(t, err, auth.ErrOAuthDisabled)
	assert.False(t, auth.GoogleOAuthConfig{}.Enabled())
}

func TestGoogleOAuth_AuthCodeURL(t *testing.T) {
	t.Parallel()

	g := newFakeGoogle(t, nil).client(t)
	u, err := url.Parse(g.AuthCodeURL("state-xyz"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email", q.Get("scope"))
}

func TestGoogleOAuth_Exchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("verified profile", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle(t, map[string]any{
			"id": "1234", "email": "Ada@Example.com", "verified_email": true, "name": "Ada",
		}).client(t)

		u, err := g.Exchange(ctx, "good-code")
		require.NoError(t, err)
		assert.Equal(t, "google:1234", u.ID)
		assert.Equal(t, "ada@example.com", u.Email)
		assert.Equal(t, auth.MethodOAuthGoogle, u.AuthMethod)
	})

	t.Run("unverified email rejected", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle(t, map[string]any{"id": "1", "email": "a@example.com", "verified_email": false}).client(t)
		_, err := g.Exchange(ctx, "good-code")
		assert.ErrorIs(t, err, auth.ErrUnverifiedEmail)
	})

	t.Run("missing email rejected", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle(t, map[string]any{"id": "1", "verified_email": true}).client(t)
		_, err := g.Exchange(ctx, "good-code")
		assert.ErrorIs(t, err, auth.ErrNoPrimaryEmail)
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle(t, nil).client(t)
		_, err := g.Exchange(ctx, "bad-code")
		assert.ErrorIs(t, err, auth.ErrInvalidCode)

		_, err = g.Exchange(ctx, "")
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})
}
