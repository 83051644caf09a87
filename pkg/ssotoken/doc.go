// Package ssotoken mints the signed identity tokens a support portal uses to
// trust an already-authenticated user without re-authenticating them.
//
// A token is an HS256 JWT whose payload carries exactly the subject
// identifier and email of the verified identity:
//
//	{"userId":"user_123","email":"jane@example.com"}
//
// When the issuer is built with WithTTL the registered "iat" and "exp" claims
// are added as well. Nothing else is ever put in the payload.
//
// # Usage
//
//	issuer := ssotoken.New(ssotoken.SigningKey(cfg.SSOKey), ssotoken.WithTTL(5*time.Minute))
//
//	token, err := issuer.Issue(claim)
//	switch {
//	case errors.Is(err, ssotoken.ErrMissingEmail):
//		// user data problem
//	case errors.Is(err, ssotoken.ErrConfiguration):
//		// deployment problem, the key is not set
//	}
//
// Issuance is pure computation. Issuers are safe for concurrent use.
package ssotoken
