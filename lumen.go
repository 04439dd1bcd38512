// Package lumen is a server-side component framework over the datastar
// protocol. Handlers are plain functions returning HTML nodes; the
// framework binds their parameters from the request and answers plain
// clients with full documents and reactive clients with SSE fragment
// merges.
//
// This is the recommended import for applications:
//
//	import (
//	    "github.com/lumenkit/lumen"
//	    "github.com/lumenkit/lumen/pkg/html"
//	)
//
//	func main() {
//	    app, err := lumen.New(lumen.Config{Page: lumen.Page{Title: "Hello"}})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    app.Get("/", func() *html.Node {
//	        return html.H1(html.Text("Hello"))
//	    })
//	    log.Fatal(app.Run(""))
//	}
package lumen

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/render"
	"github.com/lumenkit/lumen/pkg/respond"
	"github.com/lumenkit/lumen/pkg/session"
)

// =============================================================================
// Re-exported Types
// =============================================================================

// Node is an HTML element tree. Build one with the constructors in
// pkg/html.
type Node = html.Node

// Component is anything that renders itself to a Node.
type Component = html.Component

// Page is the document shell configuration.
type Page = render.Page

// Session is a visitor session, resolved into handler parameters
// declared as *lumen.Session.
type Session = session.Session

// Identity is the authenticated principal, resolved into handler
// parameters declared as *lumen.Identity. Nil means anonymous.
type Identity = auth.Identity

// Stream writes SSE frames for the lifetime of one request.
type Stream = datastar.Stream

// StreamFunc is a fragment producer. Return one from a handler to
// stream frames incrementally:
//
//	func Progress(p ProgressParams) lumen.StreamFunc {
//	    return func(s *lumen.Stream) error {
//	        for i := 0; i <= 100; i += 20 {
//	            if err := s.MergeFragments(progressBar(i)); err != nil {
//	                return err
//	            }
//	        }
//	        return nil
//	    }
//	}
type StreamFunc = datastar.StreamFunc

// Signals is an outbound signal patch for MergeSignals frames.
type Signals = datastar.Signals

// =============================================================================
// Response Value Helpers
// =============================================================================

// Redirect returns a redirect value. Reactive clients navigate via the
// protocol's location header with no 3xx; plain clients get a 303.
var Redirect = respond.Redirect

// HTTPHeader returns a response-header item, alone or in a []any
// return alongside nodes.
var HTTPHeader = respond.HTTPHeader

// FullPage marks a node as a complete page for every client kind.
var FullPage = respond.FullPage

// Fragment marks a node as fragment-only: plain clients get it bare,
// without the page shell.
var Fragment = respond.Fragment

// =============================================================================
// URL Helper
// =============================================================================

var qpPlaceholder = regexp.MustCompile(`\{([^:{}]+)(?::[^{}]*)?\}`)

// QP fills a route pattern's {captures} from key/value pairs and
// appends the leftovers as query parameters. Nil values encode empty;
// slice values repeat the parameter. Unmatched captures stay in place.
//
//	lumen.QP("/users/{id}", "id", 7, "tab", "posts")
//	// "/users/7?tab=posts"
func QP(pattern string, pairs ...any) string {
	if len(pairs)%2 != 0 {
		panic("lumen: QP wants key/value pairs")
	}

	values := make(map[string]any, len(pairs)/2)
	order := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("lumen: QP key %d must be a string, got %T", i/2, pairs[i]))
		}
		if _, seen := values[k]; !seen {
			order = append(order, k)
		}
		values[k] = pairs[i+1]
	}

	used := make(map[string]bool)
	path := qpPlaceholder.ReplaceAllStringFunc(pattern, func(m string) string {
		name := qpPlaceholder.FindStringSubmatch(m)[1]
		v, ok := values[name]
		if !ok {
			return m
		}
		used[name] = true
		return url.PathEscape(qpValue(v))
	})

	query := url.Values{}
	for _, k := range order {
		if used[k] {
			continue
		}
		switch vv := values[k].(type) {
		case []string:
			for _, s := range vv {
				query.Add(k, s)
			}
		case []any:
			for _, v := range vv {
				query.Add(k, qpValue(v))
			}
		default:
			query.Add(k, qpValue(values[k]))
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}

func qpValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
