package lumen

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/respond"
	"github.com/lumenkit/lumen/pkg/session"
)

// Ctx is the per-request framework object. Handlers receive one by
// declaring a *lumen.Ctx parameter; it gives access to the request, the
// session, the resolved identity, and response controls that apply
// before the response body is written.
//
//	func ShowPage(ctx *lumen.Ctx, p ShowParams) *html.Node {
//	    ctx.Logger().Info("showing", "id", p.ID)
//	    ...
//	}
type Ctx struct {
	app      *App
	req      *http.Request
	log      *slog.Logger
	headers  *respond.HeaderAccumulator
	sess     *session.Session
	identity *auth.Identity
	signals  *datastar.IncomingSignals
	status   int
	values   map[any]any

	// finished marks the session-save and header flush as done, so the
	// success and error paths cannot both run them.
	finished bool
}

// Request returns the underlying request.
func (c *Ctx) Request() *http.Request { return c.req }

// Context returns the request context. It is canceled when the client
// disconnects.
func (c *Ctx) Context() context.Context { return c.req.Context() }

// Method returns the request method.
func (c *Ctx) Method() string { return c.req.Method }

// Path returns the request path.
func (c *Ctx) Path() string { return c.req.URL.Path }

// Param returns the named path capture, or "" when absent.
func (c *Ctx) Param(name string) string { return chi.URLParam(c.req, name) }

// Query returns the first query value for name.
func (c *Ctx) Query(name string) string { return c.req.URL.Query().Get(name) }

// QueryValues returns all query parameters.
func (c *Ctx) QueryValues() url.Values { return c.req.URL.Query() }

// Header returns the named request header.
func (c *Ctx) Header(name string) string { return c.req.Header.Get(name) }

// Cookie returns the named request cookie.
func (c *Ctx) Cookie(name string) (*http.Cookie, error) { return c.req.Cookie(name) }

// IsReactive reports whether the request carries the reactive-client
// marker and therefore expects fragment frames rather than a document.
func (c *Ctx) IsReactive() bool { return datastar.IsReactive(c.req) }

// Signals returns the client's signal snapshot. Plain requests yield an
// empty snapshot; all read methods are safe on it.
func (c *Ctx) Signals() *datastar.IncomingSignals { return c.signals }

// Session returns the visitor session. It is never nil; fresh visitors
// get an empty session that is persisted only once written to.
func (c *Ctx) Session() *session.Session { return c.sess }

// Auth returns the resolved identity, or nil for anonymous requests.
func (c *Ctx) Auth() *auth.Identity { return c.identity }

// Logger returns the request logger.
func (c *Ctx) Logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

// SetHeader sets a response header. Effective for every response kind,
// including event streams, because headers are applied before the first
// byte is written.
func (c *Ctx) SetHeader(key, value string) { c.headers.Set(key, value) }

// AddHeader appends a response header value.
func (c *Ctx) AddHeader(key, value string) { c.headers.Add(key, value) }

// SetCookie adds a Set-Cookie header to the response.
func (c *Ctx) SetCookie(cookie *http.Cookie) {
	if v := cookie.String(); v != "" {
		c.headers.Add("Set-Cookie", v)
	}
}

// Status overrides the success status code for buffered responses.
// Event streams ignore it: their status is fixed at 200 when the stream
// opens.
func (c *Ctx) Status(code int) { c.status = code }

// SetValue stores a request-scoped value, typically from beforeware for
// a later handler.
func (c *Ctx) SetValue(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value returns a request-scoped value.
func (c *Ctx) Value(key any) any { return c.values[key] }

// Asset resolves a source asset name to its URL, using the fingerprint
// manifest when one is configured.
func (c *Ctx) Asset(source string) string { return c.app.Asset(source) }

// App returns the owning application.
func (c *Ctx) App() *App { return c.app }
