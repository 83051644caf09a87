// Package feedback serves the home page with the embedded Featurebase
// feedback widget and the widget options API. The widget is only rendered
// for signed-in visitors whose identity token could be issued.
package feedback
