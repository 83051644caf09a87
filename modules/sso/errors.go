package sso

import (
	"net/http"

	"github.com/dmitrymomot/portalsso/handler"
)

var (
	ErrMissingEmail      = handler.NewHTTPError(http.StatusUnprocessableEntity, "missing_email")
	ErrSSOConfiguration  = handler.NewHTTPError(http.StatusInternalServerError, "sso_configuration_error")
	ErrInvalidOAuthState = handler.NewHTTPError(http.StatusBadRequest, "invalid_oauth_state")
)
