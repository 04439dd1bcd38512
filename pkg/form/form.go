// Package form fills markup forms from Go values and validates
// submissions. Fill pairs with the binder: a handler binds a struct
// from the POST body, validates it here, and re-renders the form with
// the visitor's values and any field errors in place.
package form

import (
	"strings"

	"github.com/lumenkit/lumen/pkg/html"
)

// Fill returns a copy of node with named form controls populated from
// values. values may be a map[string]any or a struct (fields keyed by
// their `form` tag, else the lowercased field name). Controls carrying
// a "skip" attribute keep their authored state. The input tree is
// never mutated, so a cached form template can be filled per request.
//
//	form.Fill(profileForm(), map[string]any{"name": "Ada", "admin": true})
func Fill(node *html.Node, values any) *html.Node {
	obj := valuesOf(values)
	if node == nil || obj == nil {
		return node
	}
	return fillNode(node, obj)
}

func fillNode(n *html.Node, obj map[string]any) *html.Node {
	out := *n
	if len(n.Attrs) > 0 {
		out.Attrs = append([]html.Attr(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*html.Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = fillNode(c, obj)
		}
	}

	if out.Kind != html.KindElement {
		return &out
	}
	name := stringAttr(&out, "name")
	if name == "" {
		return &out
	}
	val, ok := obj[name]
	if !ok || val == nil {
		return &out
	}
	if _, skip := out.Attr("skip"); skip {
		return &out
	}

	switch out.Tag {
	case "input":
		fillInput(&out, val)
	case "textarea":
		out.Children = []*html.Node{html.Text(toString(val))}
	case "select":
		fillSelect(&out, val)
	}
	return &out
}

func fillInput(n *html.Node, val any) {
	switch stringAttr(n, "type") {
	case "checkbox":
		if list, ok := val.([]string); ok {
			setChecked(n, contains(list, stringAttr(n, "value")))
			return
		}
		setChecked(n, truthy(val))
	case "radio":
		setChecked(n, stringAttr(n, "value") == toString(val))
	default:
		n.SetAttr("value", toString(val))
	}
}

func fillSelect(n *html.Node, val any) {
	selected := func(optValue string) bool {
		if list, ok := val.([]string); ok {
			return contains(list, optValue)
		}
		return optValue == toString(val)
	}
	for _, opt := range n.Children {
		if opt.Kind != html.KindElement || opt.Tag != "option" {
			continue
		}
		if selected(stringAttr(opt, "value")) {
			opt.SetAttr("selected", true)
		} else {
			opt.DelAttr("selected")
		}
	}
}

func setChecked(n *html.Node, on bool) {
	if on {
		n.SetAttr("checked", true)
	} else {
		n.DelAttr("checked")
	}
}

// Inputs returns every descendant element with one of the given tags,
// in document order. With no tags it finds input elements. The nodes
// are the tree's own, not copies.
func Inputs(node *html.Node, tags ...string) []*html.Node {
	if len(tags) == 0 {
		tags = []string{"input"}
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var found []*html.Node
	html.Walk(node, func(n *html.Node) bool {
		if n.Kind == html.KindElement && want[n.Tag] {
			found = append(found, n)
		}
		return true
	})
	return found
}

func stringAttr(n *html.Node, key string) string {
	v, ok := n.Attr(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func truthy(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "0" && !strings.EqualFold(v, "false") && !strings.EqualFold(v, "off")
	case nil:
		return false
	default:
		return toFloat64(val) != 0
	}
}
