// Package handler provides typed HTTP handlers.
//
// Wrap turns a HandlerFunc[C, R] into an http.HandlerFunc: binders from the
// binder package decode the request into R, the handler returns a Response
// and errors from either step go to an ErrorHandler.
//
//	type SignInRequest struct {
//		ReturnTo string `query:"return_to"`
//	}
//
//	func signIn(ctx handler.Context, req SignInRequest) handler.Response {
//		return handler.Templ(views.SignIn(req.ReturnTo))
//	}
//
//	r.Get("/sso/featurebase", handler.Wrap(signIn,
//		handler.WithBinders[handler.Context, SignInRequest](binder.Query()),
//	))
//
// # Responses
//
// JSON and JSONError write the {"data","meta","error"} envelope. Templ and
// TemplWithCode render templ components, patching them over SSE when the
// request came from DataStar. Redirect and RedirectWithCode likewise switch
// to an SSE redirect for DataStar requests.
//
// # Errors
//
// HTTPError pairs a status code with a stable key used as the JSON error
// code. ValidationError carries per-field messages and maps to 422.
// NewErrorHandler logs through slog and picks a toast, a JSON body or an
// error page for the response.
package handler
