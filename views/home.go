package views

import "github.com/a-h/templ"

// HomeParams drives the home page.
type HomeParams struct {
	Email      string
	SignInURL  string
	SignOutURL string
	// Widget is nil when no token could be issued.
	Widget templ.Component
}
