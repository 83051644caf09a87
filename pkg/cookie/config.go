package cookie

// Config holds cookie manager configuration.
type Config struct {
	// Secrets sign cookie values. The first one signs, all of them verify.
	Secrets []string `env:"SESSION_SECRET,required" envSeparator:","`
	Domain  string   `env:"COOKIE_DOMAIN" envDefault:""`
	Secure  bool     `env:"COOKIE_SECURE" envDefault:"false"`
}

// NewFromConfig creates a Manager from cfg. Extra opts override the config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, len(opts)+2)
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	return New(cfg.Secrets, append(configOpts, opts...)...)
}
