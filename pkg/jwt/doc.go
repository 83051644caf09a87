// Package jwt signs and verifies compact JSON Web Tokens with a shared
// HMAC-SHA256 key.
//
// The package is a thin layer over github.com/golang-jwt/jwt/v5 that pins the
// algorithm to HS256 and maps library failures onto a small set of sentinel
// errors. Tokens carrying any other "alg" header, including "none", are
// rejected before the signature is checked.
//
// # Usage
//
//	svc, err := jwt.NewFromString(os.Getenv("FEATUREBASE_SSO_KEY"))
//	if err != nil {
//		// handle missing key
//	}
//
//	token, err := svc.Generate(jwt.MapClaims{"email": "jane@example.com"})
//
//	var claims jwt.MapClaims
//	if err := svc.Parse(token, &claims); err != nil {
//		// errors.Is(err, jwt.ErrInvalidSignature), jwt.ErrExpiredToken, ...
//	}
//
// Any type implementing jwt.Claims can be used; embedding
// jwt.RegisteredClaims gives the standard exp/iat/nbf validation.
package jwt
