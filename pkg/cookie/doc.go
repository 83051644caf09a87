// Package cookie writes and reads HTTP cookies with shared default attributes
// and HMAC-SHA256 signatures.
//
// A Manager is created with one or more secrets of at least 32 bytes. The
// first secret signs new cookies; every secret is tried on verification, so
// secrets can be rotated by prepending the new one.
//
//	man, err := cookie.New([]string{os.Getenv("SESSION_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//	_ = man.SetSigned(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err := man.GetSigned(r, "sid")
//
// Signatures cover the cookie name, so a value signed for one cookie fails
// verification under another. Failures are reported with the sentinel errors
// ErrCookieNotFound, ErrInvalidFormat and ErrInvalidSignature.
package cookie
