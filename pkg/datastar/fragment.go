package datastar

import (
	"fmt"
	"strings"

	"github.com/lumenkit/lumen/pkg/html"
)

// Fragment is one DOM update: content plus where and how to merge it.
// Fragments are built by handlers at response time and consumed once by
// the encoder; they are not retained.
type Fragment struct {
	// Node is the content to merge, rendered at encode time. When nil,
	// HTML is used verbatim instead.
	Node *html.Node

	// HTML is pre-rendered markup, used only when Node is nil.
	HTML string

	// Selector targets the merge. Empty means the client resolves the
	// target from the top fragment element's id.
	Selector string

	// Mode is the merge strategy. Zero value means DefaultMergeMode.
	Mode MergeMode

	// UseViewTransition wraps the merge in a view transition.
	UseViewTransition bool
}

// FragmentOption configures a Fragment built by stream helpers.
type FragmentOption func(*Fragment)

// Selector targets the merge at the elements matching a CSS selector.
func Selector(selector string) FragmentOption {
	return func(f *Fragment) { f.Selector = selector }
}

// SelectorID targets the merge at the element with the given id.
func SelectorID(id string) FragmentOption {
	return func(f *Fragment) { f.Selector = "#" + id }
}

// Mode sets the merge strategy.
func Mode(mode MergeMode) FragmentOption {
	return func(f *Fragment) { f.Mode = mode }
}

// ViewTransition wraps the merge in a view transition.
func ViewTransition() FragmentOption {
	return func(f *Fragment) { f.UseViewTransition = true }
}

// validateSelector rejects selectors that would corrupt the line-oriented
// framing or that cannot address an element. Empty is allowed: it means
// the selector data line is omitted.
func validateSelector(selector string) error {
	if selector == "" {
		return nil
	}
	if strings.ContainsAny(selector, "\n\r") {
		return fmt.Errorf("%w: contains line break", ErrInvalidSelector)
	}
	if strings.TrimSpace(selector) == "" {
		return fmt.Errorf("%w: blank", ErrInvalidSelector)
	}
	switch c := selector[0]; {
	case c == '#' || c == '.' || c == '[' || c == '*' || c == ':':
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	return nil
}
