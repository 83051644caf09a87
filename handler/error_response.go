package handler

import "net/http"

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error hands err to the configured ErrorHandler instead of rendering.
//
//	if errors.Is(err, ssotoken.ErrConfiguration) {
//		return handler.Error(errors.Join(ErrSSOConfiguration, err))
//	}
func Error(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return errorResponse{err: err}
}
