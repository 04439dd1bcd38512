package respond

import (
	"net/http"

	"github.com/lumenkit/lumen/pkg/html"
)

// Redirection is the return value that sends the client elsewhere. How
// it is delivered (303 or protocol header) is decided at classification
// from the request's markers, not by the handler.
type Redirection struct {
	Location string
}

// Redirect builds a redirect return value.
func Redirect(location string) Redirection {
	return Redirection{Location: location}
}

// HeaderItem is a single response header requested by a handler, usable
// alone or inside a mixed []any return.
type HeaderItem struct {
	Key   string
	Value string
}

// HTTPHeader builds a response-header return value.
func HTTPHeader(key, value string) HeaderItem {
	return HeaderItem{Key: key, Value: value}
}

// Page forces full-page classification for a node regardless of the
// request's markers.
type Page struct {
	Node *html.Node
}

// FullPage marks a node as a complete page response.
func FullPage(n *html.Node) Page {
	return Page{Node: n}
}

// Partial forces fragment-shaped output: reactive clients get a merge
// frame, plain clients get the bare markup with no surrounding shell.
// This is the explicit opt-out from the full-page default.
type Partial struct {
	Node *html.Node
}

// Fragment marks a node as fragment-only.
func Fragment(n *html.Node) Partial {
	return Partial{Node: n}
}

// HeaderAccumulator collects response headers across a handler's run.
// Handlers take it as a reserved parameter; the dispatcher applies it
// before the response status is written.
type HeaderAccumulator struct {
	h http.Header
}

// NewHeaderAccumulator returns an empty accumulator.
func NewHeaderAccumulator() *HeaderAccumulator {
	return &HeaderAccumulator{h: http.Header{}}
}

// Set replaces the values of key.
func (a *HeaderAccumulator) Set(key, value string) {
	a.h.Set(key, value)
}

// Add appends a value to key.
func (a *HeaderAccumulator) Add(key, value string) {
	a.h.Add(key, value)
}

// Del removes key.
func (a *HeaderAccumulator) Del(key string) {
	a.h.Del(key)
}

// Header exposes the collected headers.
func (a *HeaderAccumulator) Header() http.Header {
	return a.h
}

// Apply copies the collected headers onto a response.
func (a *HeaderAccumulator) Apply(h http.Header) {
	for key, values := range a.h {
		for _, v := range values {
			h.Add(key, v)
		}
	}
}
