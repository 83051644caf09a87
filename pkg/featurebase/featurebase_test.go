package featurebase_test

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portalsso/pkg/environment"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/identity"
)

func TestNewPortal(t *testing.T) {
	t.Parallel()

	t.Run("empty base url", func(t *testing.T) {
		t.Parallel()
		_, err := featurebase.NewPortal("  ")
		assert.ErrorIs(t, err, featurebase.ErrPortalNotConfigured)
	})

	t.Run("relative base url", func(t *testing.T) {
		t.Parallel()
		_, err := featurebase.NewPortal("/feedback")
		assert.ErrorIs(t, err, featurebase.ErrInvalidBaseURL)
	})

	t.Run("non http scheme", func(t *testing.T) {
		t.Parallel()
		_, err := featurebase.NewPortal("ftp://acme.featurebase.app")
		assert.ErrorIs(t, err, featurebase.ErrInvalidBaseURL)
	})

	t.Run("origin is normalized", func(t *testing.T) {
		t.Parallel()
		p, err := featurebase.NewPortal("https://Acme.Featurebase.app:443/")
		require.NoError(t, err)
		assert.Equal(t, "https://acme.featurebase.app", p.Origin())
	})
}

func TestPortalSSOURL(t *testing.T) {
	t.Parallel()

	p, err := featurebase.NewPortal("https://acme.featurebase.app/?ignored=1")
	require.NoError(t, err)

	raw := p.SSOURL("tok.en.sig", "https://acme.featurebase.app/roadmap?x=1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "acme.featurebase.app", u.Host)
	assert.Equal(t, "/api/v1/auth/access/jwt", u.Path)
	assert.Equal(t, "tok.en.sig", u.Query().Get("jwt"))
	assert.Equal(t, "https://acme.featurebase.app/roadmap?x=1", u.Query().Get("return_to"))
	assert.False(t, u.Query().Has("ignored"))

	t.Run("empty return_to omitted", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(p.SSOURL("t", ""))
		require.NoError(t, err)
		assert.False(t, u.Query().Has("return_to"))
	})

	t.Run("base path kept", func(t *testing.T) {
		t.Parallel()
		sub, err := featurebase.NewPortal("https://feedback.example.com/portal/")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sub.SSOURL("t", ""), "https://feedback.example.com/portal/api/v1/auth/access/jwt?"))
	})
}

func TestConfigIssuer(t *testing.T) {
	t.Parallel()

	cfg := featurebase.Config{SSOKey: "portal-secret", TokenTTL: 5 * time.Minute}

	iss := cfg.Issuer()
	assert.True(t, iss.Configured())
	assert.Equal(t, 5*time.Minute, iss.TTL())

	token, err := iss.Issue(identity.Claim{SubjectID: "u1", Email: "a@example.com"})
	require.NoError(t, err)
	claim, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claim.Email)

	assert.False(t, featurebase.Config{}.Issuer().Configured())
}

func TestNegotiateLocale(t *testing.T) {
	t.Parallel()

	w, err := featurebase.NewWidget(featurebase.Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "nb", "de"},
	}, environment.Development)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "en"},
		{"exact match", "de", "de"},
		{"regional variant", "nb-NO,nb;q=0.9", "nb"},
		{"weighted preference", "fr;q=1.0, de;q=0.5", "de"},
		{"unsupported", "ja", "en"},
		{"malformed", ";;;=", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, w.NegotiateLocale(tt.header))
		})
	}
}

func TestNewWidgetInvalidLocale(t *testing.T) {
	t.Parallel()

	_, err := featurebase.NewWidget(featurebase.Config{Locales: []string{"not a locale!"}}, environment.Development)
	assert.ErrorIs(t, err, featurebase.ErrInvalidLocale)
}

func TestWidgetOptions(t *testing.T) {
	t.Parallel()

	w, err := featurebase.NewWidget(featurebase.Config{
		Organization:  "acme",
		Theme:         "dark",
		Placement:     "left",
		DefaultLocale: "en",
	}, environment.Staging)
	require.NoError(t, err)

	opts := w.Options("en-US", "jwt-token")
	assert.Equal(t, featurebase.WidgetOptions{
		Organization: "acme",
		Theme:        "dark",
		Placement:    "left",
		Locale:       "en",
		Metadata:     map[string]string{"environment": "staging"},
		JWTToken:     "jwt-token",
	}, opts)
}

func TestFeedbackWidget(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := featurebase.FeedbackWidget(featurebase.WidgetOptions{
		Organization: "acme</script><script>alert(1)",
		Locale:       "en",
		JWTToken:     "abc",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `id="featurebase-widget-options"`)
	assert.Contains(t, html, `"jwtToken":"abc"`)
	assert.Contains(t, html, `initialize_feedback_widget`)
	assert.Contains(t, html, `src="https://do.featurebase.app/js/sdk.js"`)
	assert.Contains(t, html, `data-featurebase-feedback`)
	assert.NotContains(t, html, "acme</script>")
}
