package redirect

// Reason explains a validation verdict.
type Reason string

const (
	ReasonEmpty      Reason = "empty"
	ReasonUnparsable Reason = "unparsable"
	ReasonScheme     Reason = "scheme_not_allowed"
	ReasonExternal   Reason = "external_origin"
	ReasonSameOrigin Reason = "same_origin"
	ReasonAllowed    Reason = "external_allowed"
)

// Policy configures redirect validation.
type Policy struct {
	// DefaultURL is returned whenever the candidate is rejected.
	DefaultURL string `env:"REDIRECT_DEFAULT_URL" envDefault:"/"`
	// AllowExternalOrigins honors any http(s) origin when true.
	AllowExternalOrigins bool `env:"REDIRECT_ALLOW_EXTERNAL" envDefault:"false"`
	// AppOrigin is the application's canonical origin from trusted configuration.
	AppOrigin string `env:"APP_ORIGIN" envDefault:"http://localhost:8080"`
	// AllowedOrigins are external origins honored even when AllowExternalOrigins is false.
	AllowedOrigins []string `env:"REDIRECT_ALLOWED_ORIGINS" envSeparator:","`
}

// Decision is the outcome of classifying a candidate.
type Decision struct {
	Target   string
	Accepted bool
	External bool
	Reason   Reason
}

// Validator applies a Policy. Origins are normalized once at construction.
type Validator struct {
	defaultURL    string
	allowExternal bool
	appOrigin     string
	allowed       map[string]struct{}
}

// New builds a Validator. Unparsable AppOrigin or allow-list entries are
// ignored, which makes every candidate external to them.
func New(p Policy) *Validator {
	v := &Validator{
		defaultURL:    p.DefaultURL,
		allowExternal: p.AllowExternalOrigins,
		allowed:       make(map[string]struct{}, len(p.AllowedOrigins)),
	}
	if origin, ok := Origin(p.AppOrigin); ok {
		v.appOrigin = origin
	}
	for _, o := range p.AllowedOrigins {
		if origin, ok := Origin(o); ok {
			v.allowed[origin] = struct{}{}
		}
	}
	return v
}

// Validate returns candidate unchanged when the policy permits it, DefaultURL otherwise.
func Validate(candidate string, p Policy) string {
	return New(p).Validate(candidate)
}

// DefaultURL returns the fallback target.
func (v *Validator) DefaultURL() string { return v.defaultURL }

// Validate returns candidate unchanged when the policy permits it, the default otherwise.
func (v *Validator) Validate(candidate string) string {
	return v.Classify(candidate).Target
}

// Classify is Validate with the verdict and reason exposed for logging.
func (v *Validator) Classify(candidate string) Decision {
	u, reason := parse(candidate)
	if reason != "" {
		return v.reject(reason, false)
	}

	origin := originOf(u)
	if v.appOrigin != "" && origin == v.appOrigin {
		return Decision{Target: candidate, Accepted: true, Reason: ReasonSameOrigin}
	}

	if _, ok := v.allowed[origin]; ok || v.allowExternal {
		return Decision{Target: candidate, Accepted: true, External: true, Reason: ReasonAllowed}
	}

	return v.reject(ReasonExternal, true)
}

// IsSameOrigin reports whether rawURL shares the application's origin.
func (v *Validator) IsSameOrigin(rawURL string) bool {
	origin, ok := Origin(rawURL)
	return ok && v.appOrigin != "" && origin == v.appOrigin
}

func (v *Validator) reject(reason Reason, external bool) Decision {
	return Decision{Target: v.defaultURL, External: external, Reason: reason}
}
