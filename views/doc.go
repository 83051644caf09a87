// Package views holds the HTML screens as templ components.
//
// Markup lives in the .templ files; the _templ.go files are their generated
// output and are refreshed with:
//
//	templ generate ./views
package views
