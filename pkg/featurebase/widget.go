package featurebase

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/portalsso/pkg/environment"
)

const (
	// SDKURL is the widget loader script.
	SDKURL = "https://do.featurebase.app/js/sdk.js"

	optionsElementID = "featurebase-widget-options"
)

// WidgetOptions is the payload passed to initialize_feedback_widget.
type WidgetOptions struct {
	Organization string            `json:"organization"`
	Theme        string            `json:"theme,omitempty"`
	Placement    string            `json:"placement,omitempty"`
	Locale       string            `json:"locale,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	JWTToken     string            `json:"jwtToken,omitempty"`
}

// Widget builds widget options for a request.
type Widget struct {
	cfg       Config
	env       environment.Environment
	supported []language.Tag
	matcher   language.Matcher
}

// NewWidget validates the configured locales. The default locale is always
// supported and wins ties.
func NewWidget(cfg Config, env environment.Environment) (*Widget, error) {
	def := cfg.DefaultLocale
	if def == "" {
		def = "en"
	}

	seen := make(map[language.Tag]struct{})
	var supported []language.Tag
	for _, raw := range append([]string{def}, cfg.Locales...) {
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, raw)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		supported = append(supported, tag)
	}

	return &Widget{
		cfg:       cfg,
		env:       env,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// NegotiateLocale picks the best supported locale for an Accept-Language header.
func (w *Widget) NegotiateLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return w.supported[0].String()
	}
	_, idx, conf := w.matcher.Match(tags...)
	if conf == language.No {
		return w.supported[0].String()
	}
	return w.supported[idx].String()
}

// Options returns the widget payload. token may be empty for anonymous visitors.
func (w *Widget) Options(acceptLanguage, token string) WidgetOptions {
	opts := WidgetOptions{
		Organization: w.cfg.Organization,
		Theme:        w.cfg.Theme,
		Placement:    w.cfg.Placement,
		Locale:       w.NegotiateLocale(acceptLanguage),
		JWTToken:     token,
	}
	if w.env != "" {
		opts.Metadata = map[string]string{"environment": w.env.String()}
	}
	return opts
}

// FeedbackWidget renders the SDK loader, the init call and the trigger button.
// Options travel as a JSON script element so no value is spliced into code.
func FeedbackWidget(opts WidgetOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := templ.JSONScript(optionsElementID, opts).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, initScript); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<script src="`+SDKURL+`" id="featurebase-sdk" async></script>`+
			`<button type="button" data-featurebase-feedback>Give feedback</button>`)
		return err
	})
}

const initScript = `<script>(function(win){` +
	`if(typeof win.Featurebase!=="function"){win.Featurebase=function(){(win.Featurebase.q=win.Featurebase.q||[]).push(arguments)}}` +
	`var el=document.getElementById("` + optionsElementID + `");` +
	`win.Featurebase("initialize_feedback_widget",JSON.parse(el.textContent))` +
	`})(window);</script>`
