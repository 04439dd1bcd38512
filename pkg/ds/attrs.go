package ds

import (
	"strings"

	"github.com/lumenkit/lumen/pkg/html"
)

// Signals declares signals and their initial values. The value
// serializes as JSON at render time, so maps, slices, and structs all
// work:
//
//	ds.Signals(map[string]any{"count": 0, "open": false})
func Signals(value any) html.Attr {
	return html.Attr{Key: "data-signals", Value: value}
}

// Bind two-way binds an input, select, or textarea to a signal.
func Bind(signal string) html.Attr {
	return html.Attr{Key: "data-bind", Value: signal}
}

// Text sets the element's text content from an expression.
//
//	html.Span(ds.Text("$count"))
func Text(expr string) html.Attr {
	return html.Attr{Key: "data-text", Value: expr}
}

// Show shows the element while the expression is truthy.
func Show(expr string) html.Attr {
	return html.Attr{Key: "data-show", Value: expr}
}

// Hide hides the element while the expression is truthy.
func Hide(expr string) html.Attr {
	return html.Attr{Key: "data-hide", Value: expr}
}

// Class toggles classes from an object expression:
//
//	ds.Class("{hidden: $done, active: $tab == 'home'}")
func Class(expr string) html.Attr {
	return html.Attr{Key: "data-class", Value: expr}
}

// Style sets inline styles from an object expression.
func Style(expr string) html.Attr {
	return html.Attr{Key: "data-style", Value: expr}
}

// AttrExpr drives a single attribute from an expression:
//
//	html.Button(ds.AttrExpr("disabled", "$saving"))
func AttrExpr(name, expr string) html.Attr {
	return html.Attr{Key: "data-attr-" + canonicalName(name), Value: expr}
}

// Computed declares a read-only signal derived from other signals:
//
//	ds.Computed("total", "$price * $qty")
func Computed(name, expr string) html.Attr {
	return html.Attr{Key: "data-computed-" + canonicalName(name), Value: expr}
}

// Indicator names a signal that is true while a fetch started from
// this element is in flight. Pair it with Show for spinners.
func Indicator(signal string) html.Attr {
	return html.Attr{Key: "data-indicator", Value: signal}
}

// Ref makes the element reachable from expressions as $name.
func Ref(name string) html.Attr {
	return html.Attr{Key: "data-ref", Value: name}
}

// canonicalName rewrites identifier-style names to wire form, so
// AttrExpr("aria_busy", ...) targets aria-busy.
func canonicalName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
