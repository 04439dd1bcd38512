package respond

import (
	"io"
	"net/http"

	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
)

// Kind discriminates the envelope variants.
type Kind uint8

const (
	// KindFullPage renders the node buffered, wrapped in the page shell
	// unless the tree is already a full document or marked partial.
	KindFullPage Kind = iota

	// KindFragments answers with an event stream: either the single
	// node as one merge frame, or a producer that writes many.
	KindFragments

	// KindRedirect navigates the client, by 303 or by protocol header.
	KindRedirect

	// KindPassthrough writes an opaque payload as-is.
	KindPassthrough
)

// String returns a short name for the envelope kind.
func (k Kind) String() string {
	switch k {
	case KindFullPage:
		return "full-page"
	case KindFragments:
		return "fragments"
	case KindRedirect:
		return "redirect"
	case KindPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// Envelope is the classified form of a handler's return value. Exactly
// the fields of its Kind are meaningful; the dispatcher writes it out.
type Envelope struct {
	Kind Kind

	// Full page and fragment payload.
	Node *html.Node

	// Partial serves the node bare for plain clients, skipping the page
	// shell. Set only by an explicit Fragment marker.
	Partial bool

	// Producer streams frames itself instead of merging Node once.
	Producer datastar.StreamFunc

	// Redirect payload.
	Location string

	// ClientRedirect selects the protocol-header navigation instead of
	// an HTTP 303. The two are mutually exclusive per response.
	ClientRedirect bool

	// Passthrough payload.
	Status      int
	ContentType string
	Body        []byte
	Reader      io.Reader
	Handler     http.Handler

	// Header carries handler-requested response headers.
	Header http.Header

	// Vary records that classification branched on the reactive-client
	// marker, so caches must key on it.
	Vary bool
}

// Apply copies the envelope's headers onto a response, including the
// Vary declaration for marker-dependent responses.
func (e *Envelope) Apply(h http.Header) {
	for key, values := range e.Header {
		for _, v := range values {
			h.Add(key, v)
		}
	}
	if e.Vary {
		h.Add("Vary", datastar.HeaderRequest)
	}
}
