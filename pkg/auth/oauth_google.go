package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthConfig holds Google OAuth client settings. An empty ClientID
// disables Google sign-in.
type GoogleOAuthConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/sso/featurebase/google/callback"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
}

func (c GoogleOAuthConfig) Enabled() bool { return c.ClientID != "" }

// GoogleOption configures GoogleOAuth.
type GoogleOption func(*GoogleOAuth)

// WithGoogleEndpoint overrides the OAuth endpoints and the userinfo URL.
func WithGoogleEndpoint(endpoint oauth2.Endpoint, userInfoURL string) GoogleOption {
	return func(g *GoogleOAuth) {
		g.conf.Endpoint = endpoint
		g.userInfoURL = userInfoURL
	}
}

func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(g *GoogleOAuth) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// GoogleOAuth signs users in with Google's authorization code flow.
type GoogleOAuth struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleOAuth(cfg GoogleOAuthConfig, opts ...GoogleOption) (*GoogleOAuth, error) {
	if !cfg.Enabled() {
		return nil, ErrOAuthDisabled
	}

	g := &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// AuthCodeURL builds the consent URL carrying state.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for the user's verified profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*User, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrInvalidCode, err)
	}

	profile, err := g.fetchProfile(ctx, tok)
	if err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	if profile.Email == "" {
		return nil, ErrNoPrimaryEmail
	}
	if !profile.VerifiedEmail {
		return nil, ErrUnverifiedEmail
	}

	return &User{
		ID:            "google:" + profile.ID,
		Email:         NormalizeEmail(profile.Email),
		Name:          profile.Name,
		EmailVerified: true,
		AuthMethod:    MethodOAuthGoogle,
	}, nil
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (g *GoogleOAuth) fetchProfile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &p, nil
}
