// Package html provides the markup node model for Lumen.
//
// A Node is plain data: a tag, an ordered attribute list, and children.
// Nodes carry no behavior beyond construction and equality; serialization
// lives in pkg/render. Attribute order is significant - attributes are
// emitted in the order they were set.
//
// # Element API
//
// Elements are created using variadic factory functions that accept
// attributes, child nodes, components, and strings (shorthand for text):
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P("Content"),
//	)
//
// # Attribute names
//
// Typed constructors emit canonical attribute names. The KV constructor
// accepts identifier-style names and rewrites them with CanonicalKey:
// a trailing underscore is stripped (type_), underscores become hyphens
// (aria_label), and the ds_* shorthand expands to the data-* attributes
// consumed by the reactive client (ds_on_click -> data-on-click).
//
// # Raw markup
//
// Raw wraps pre-rendered markup that is emitted verbatim. It is the
// trusted-content escape hatch; everything else is escaped.
package html
