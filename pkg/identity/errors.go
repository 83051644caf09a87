package identity

import "errors"

// ErrAuthenticationRequired indicates the request carries no verified session.
var ErrAuthenticationRequired = errors.New("identity: authentication required")
