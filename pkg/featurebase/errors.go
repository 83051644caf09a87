package featurebase

import "errors"

var (
	ErrPortalNotConfigured = errors.New("featurebase: portal base url is not configured")
	ErrInvalidBaseURL      = errors.New("featurebase: invalid portal base url")
	ErrInvalidLocale       = errors.New("featurebase: invalid widget locale")
)
