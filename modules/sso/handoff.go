package sso

import (
	"errors"

	"github.com/dmitrymomot/portalsso/handler"
	"github.com/dmitrymomot/portalsso/pkg/identity"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/pkg/ssotoken"
)

// handOff sends a signed-in visitor to target. Portal targets go through the
// portal SSO endpoint with a fresh token; everything else is a plain redirect.
// target must already be validated.
func (s *Service) handOff(ctx handler.Context, claim identity.Claim, target string) handler.Response {
	if !s.isPortal(target) {
		return handler.Redirect(target)
	}

	token, err := s.issuer.Issue(claim)
	switch {
	case errors.Is(err, ssotoken.ErrMissingEmail):
		s.log.WarnContext(ctx, "identity has no email, skipping portal sign-in",
			logger.UserID(claim.SubjectID),
			logger.Event("handoff_skipped"),
		)
		return handler.Redirect(target)
	case errors.Is(err, ssotoken.ErrMissingSubject):
		s.log.WarnContext(ctx, "identity has no subject, refusing portal sign-in", logger.Event("handoff_rejected"))
		return handler.Error(errors.Join(handler.ErrUnauthorized, err))
	case err != nil:
		s.log.ErrorContext(ctx, "portal token not issued", logger.Error(err), logger.Event("handoff_failed"))
		return handler.Error(errors.Join(ErrSSOConfiguration, err))
	}

	s.log.InfoContext(ctx, "portal hand-off", logger.UserID(claim.SubjectID), logger.Event("handoff"))
	return handler.Redirect(s.portal.SSOURL(token, target))
}

func (s *Service) isPortal(target string) bool {
	if s.portal == nil {
		return false
	}
	origin, ok := redirect.Origin(target)
	return ok && origin == s.portal.Origin()
}
