// Package featurebase connects sign-in to a Featurebase portal.
//
// Portal builds the hand-off URL that carries a signed identity token to the
// workspace. Widget derives the in-app feedback widget payload, negotiating
// the widget locale from Accept-Language, and FeedbackWidget renders it as a
// templ component:
//
//	widget, err := featurebase.NewWidget(cfg, environment.Production)
//	opts := widget.Options(r.Header.Get("Accept-Language"), token)
//	_ = featurebase.FeedbackWidget(opts).Render(ctx, w)
package featurebase
