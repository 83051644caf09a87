package binder

import "net/http"

// Query binds URL query parameters into fields tagged `query:"name"`.
//
//	type SignInRequest struct {
//		ReturnTo string `query:"return_to"`
//	}
//
//	r.Get("/sso/featurebase", handler.Wrap(h,
//		handler.WithBinders[handler.Context, SignInRequest](binder.Query()),
//	))
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
