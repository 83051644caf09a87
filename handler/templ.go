package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is an alias for datastar's PatchElementOption.
type TemplOption = datastar.PatchElementOption

// WithTarget sets the selector a DataStar patch replaces.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how a DataStar patch merges into the DOM.
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

type templResponse struct {
	component templ.Component
	status    int
	options   []datastar.PatchElementOption
}

// Render patches the component over SSE for DataStar and writes HTML otherwise.
// SSE responses are always 200, the status only applies to HTML.
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.component, t.options...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 && t.status != http.StatusOK {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ renders a templ component with status 200.
//
//	return handler.Templ(views.SignIn(params), handler.WithTarget("#signin-form"))
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{component: component, options: opts}
}

// TemplWithCode renders a component with a non-200 status, e.g. a form
// re-rendered after failed sign-in.
func TemplWithCode(component templ.Component, code int, opts ...TemplOption) Response {
	return templResponse{component: component, status: code, options: opts}
}

type templPartialResponse struct {
	partial templ.Component
	full    templ.Component
	status  int
	options []datastar.PatchElementOption
}

func (t templPartialResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.partial, t.options...)
	}
	return templResponse{component: t.full, status: t.status}.Render(w, r)
}

// TemplPartial patches only partial for DataStar requests and renders full
// otherwise, e.g. a sign-in form and the page that contains it.
func TemplPartial(partial, full templ.Component, opts ...TemplOption) Response {
	return templPartialResponse{partial: partial, full: full, options: opts}
}

// TemplPartialWithCode is TemplPartial with a status for the full render.
func TemplPartialWithCode(partial, full templ.Component, code int, opts ...TemplOption) Response {
	return templPartialResponse{partial: partial, full: full, status: code, options: opts}
}
