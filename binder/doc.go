// Package binder decodes HTTP request data into typed structs for
// handler.Wrap. Query reads `query` tags from the URL and Form reads `form`
// tags from urlencoded bodies. Supported field types are strings, bools,
// integers, floats, pointers to those and slices of them.
package binder
