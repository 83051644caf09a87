// Package auth provides the sign-in backends that establish who a user is
// before a session is authenticated.
//
// PasswordAuthenticator checks bcrypt hashes from a UserStore and reports
// every failure as ErrInvalidCredentials. Users come from a MemoryStore,
// usually filled from a YAML directory file with LoadYAMLStore.
//
// GoogleOAuth runs the authorization code flow with golang.org/x/oauth2 and
// accepts only profiles whose email Google reports as verified. State
// handling belongs to the caller; the HTTP layer keeps it in the session.
package auth
