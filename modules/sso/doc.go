// Package sso serves sign-in for the Featurebase portal.
//
// Visitors arrive at /sso/featurebase with a return_to destination. The
// destination is validated against the redirect policy first; anything
// refused is replaced by the default URL. Signed-in visitors are handed off
// immediately, others sign in with a password or Google and are handed off
// afterwards. Destinations on the portal origin go through the portal SSO
// endpoint with a short-lived token, other destinations are plain redirects.
//
// APIHandler exposes the token as JSON for clients that embed the portal
// themselves.
package sso
