package sso

import (
	"errors"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
)

// TokenResponse is the data payload of the token endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

func (s *Service) issueToken(ctx handler.Context, _ struct{}) handler.Response {
	claim, ok := identity.FromContext(ctx)
	if !ok {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	token, err := s.issuer.Issue(claim)
	switch {
	case errors.Is(err, ssotoken.ErrMissingEmail):
		s.log.WarnContext(ctx, "token requested without email", logger.UserID(claim.SubjectID))
		return handler.JSONError(ErrMissingEmail)
	case errors.Is(err, ssotoken.ErrMissingSubject):
		s.log.WarnContext(ctx, "token requested without subject")
		return handler.JSONError(handler.ErrUnauthorized)
	case err != nil:
		s.log.ErrorContext(ctx, "token not issued", logger.Error(err))
		return handler.JSONError(ErrSSOConfiguration)
	}
	return handler.JSON(TokenResponse{Token: token})
}
