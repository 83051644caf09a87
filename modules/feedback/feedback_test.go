package feedback_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portalsso/modules/feedback"
	"github.com/dmitrymomot/portalsso/pkg/environment"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
)

const key = ssotoken.SigningKey("widget-key")

var links = feedback.Links{SignIn: "/sso/featurebase", SignOut: "/sso/signout", HomeURL: "http://app.test/"}

func newRouter(t *testing.T, issuer *ssotoken.Issuer, ids identity.Provider) http.Handler {
	t.Helper()
	widget, err := featurebase.NewWidget(featurebase.Config{
		Organization:  "acme",
		Theme:         "light",
		Placement:     "right",
		DefaultLocale: "en",
		Locales:       []string{"nb"},
	}, environment.Production)
	require.NoError(t, err)

	svc := feedback.New(widget, issuer, ids, links)
	r := chi.NewRouter()
	r.Mount("/", svc.Handle())
	r.Mount(feedback.APIMountPath, svc.APIHandler())
	return r
}

func signedIn(email string) identity.Provider {
	return identity.StaticProvider{Claim: identity.Claim{SubjectID: "u1", Email: email}, Authenticated: true}
}

func TestHome(t *testing.T) {
	t.Parallel()

	get := func(h http.Handler) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		w := get(newRouter(t, ssotoken.New(key), identity.StaticProvider{}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="/sso/featurebase?return_to=http%3A%2F%2Fapp.test%2F"`)
		assert.NotContains(t, w.Body.String(), "data-featurebase-feedback")
	})

	t.Run("signed in with widget", func(t *testing.T) {
		t.Parallel()
		w := get(newRouter(t, ssotoken.New(key), signedIn("ada@example.com")))
		body := w.Body.String()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, body, "ada@example.com")
		assert.Contains(t, body, "data-featurebase-feedback")
		assert.Contains(t, body, `"organization":"acme"`)
		assert.Contains(t, body, `"environment":"production"`)
	})

	t.Run("unconfigured key hides widget", func(t *testing.T) {
		t.Parallel()
		w := get(newRouter(t, ssotoken.New(""), signedIn("ada@example.com")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "data-featurebase-feedback")
	})

	t.Run("missing email hides widget", func(t *testing.T) {
		t.Parallel()
		w := get(newRouter(t, ssotoken.New(key), signedIn("")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "data-featurebase-feedback")
	})
}

func TestWidgetOptionsAPI(t *testing.T) {
	t.Parallel()

	call := func(t *testing.T, ids identity.Provider) featurebase.WidgetOptions {
		t.Helper()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, feedback.WidgetPath, nil)
		r.Header.Set("Accept-Language", "nb-NO,nb;q=0.9,en;q=0.5")
		newRouter(t, ssotoken.New(key), ids).ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data featurebase.WidgetOptions `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Data
	}

	t.Run("anonymous has no token", func(t *testing.T) {
		t.Parallel()
		opts := call(t, identity.StaticProvider{})
		assert.Equal(t, "acme", opts.Organization)
		assert.Equal(t, "nb", opts.Locale)
		assert.Empty(t, opts.JWTToken)
	})

	t.Run("signed in carries a verifiable token", func(t *testing.T) {
		t.Parallel()
		opts := call(t, signedIn("ada@example.com"))
		claim, err := ssotoken.Verify(opts.JWTToken, key)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claim.Email)
	})
}
