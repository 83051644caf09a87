package featurebase

import (
	"time"

	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
)

// Config holds the portal settings shared by sign-in hand-off and the feedback widget.
type Config struct {
	SSOKey        ssotoken.SigningKey `env:"FEATUREBASE_SSO_KEY"`
	BaseURL       string              `env:"FEATUREBASE_BASE_URL"`
	Organization  string              `env:"FEATUREBASE_ORG_NAME"`
	TokenTTL      time.Duration       `env:"FEATUREBASE_TOKEN_TTL" envDefault:"5m"`
	Theme         string              `env:"FEATUREBASE_WIDGET_THEME" envDefault:"light"`
	Placement     string              `env:"FEATUREBASE_WIDGET_PLACEMENT" envDefault:"right"`
	DefaultLocale string              `env:"FEATUREBASE_DEFAULT_LOCALE" envDefault:"en"`
	Locales       []string            `env:"FEATUREBASE_LOCALES" envDefault:"en" envSeparator:","`
}

// Issuer builds a token issuer from the configured key and lifetime.
func (c Config) Issuer(opts ...ssotoken.Option) *ssotoken.Issuer {
	return ssotoken.New(c.SSOKey, append([]ssotoken.Option{ssotoken.WithTTL(c.TokenTTL)}, opts...)...)
}
