// Package lumentest is a harness for exercising Lumen apps in tests:
// it drives requests through the full dispatch pipeline, carries
// cookies between them like a browser, and parses event-stream
// responses into frames for assertion.
//
//	app := lumen.MustNew(lumen.Config{Session: session.Config{Secret: secret}})
//	app.Get("/hi", func() *html.Node { return html.Div(html.Text("hi")) })
//
//	c := lumentest.New(t, app)
//	c.Get("/hi").ExpectStatus(200).ExpectContains("hi")
package lumentest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/lumenkit/lumen"
	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/datastar"
)

// Client drives requests through an app. Cookies set by one response
// are sent with the next request, so session flows test end to end.
type Client struct {
	t       *testing.T
	app     *lumen.App
	cookies map[string]*http.Cookie
}

// New wraps app for testing.
func New(t *testing.T, app *lumen.App) *Client {
	t.Helper()
	return &Client{t: t, app: app, cookies: make(map[string]*http.Cookie)}
}

// Option adjusts one outgoing request.
type Option func(*http.Request)

// Reactive marks the request as coming from the live page's client, so
// the classifier answers with fragment frames.
func Reactive() Option {
	return func(r *http.Request) {
		r.Header.Set(datastar.HeaderRequest, "true")
	}
}

// HistoryRestore marks the request as a history-navigation replay.
func HistoryRestore() Option {
	return func(r *http.Request) {
		r.Header.Set(datastar.HeaderRequest, "true")
		r.Header.Set(datastar.HeaderHistoryRestore, "true")
	}
}

// Header sets a request header.
func Header(key, value string) Option {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get issues a GET request.
func (c *Client) Get(target string, opts ...Option) *Response {
	c.t.Helper()
	return c.Do(httptest.NewRequest(http.MethodGet, target, nil), opts...)
}

// Post issues a POST with an urlencoded form body.
func (c *Client) Post(target string, form url.Values, opts ...Option) *Response {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req, opts...)
}

// PostJSON issues a POST with payload marshaled as the JSON body.
func (c *Client) PostJSON(target string, payload any, opts ...Option) *Response {
	c.t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatalf("lumentest: marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req, opts...)
}

// Do sends any request through the app and records cookies from the
// response.
func (c *Client) Do(req *http.Request, opts ...Option) *Response {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	c.app.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return &Response{t: c.t, rec: rec}
}

// WithSession seeds the next requests' session with values, the way a
// prior visit would have.
func (c *Client) WithSession(values map[string]any) *Client {
	c.t.Helper()
	c.seedSession(func(sess *lumen.Session) {
		for k, v := range values {
			sess.Set(k, v)
		}
	})
	return c
}

// WithUser logs an identity into the client's session.
//
//	c := lumentest.New(t, app).WithUser(lumen.Identity{Subject: "u1", Roles: []string{"admin"}})
func (c *Client) WithUser(id lumen.Identity) *Client {
	c.t.Helper()
	c.seedSession(func(sess *lumen.Session) {
		auth.Login(sess, id)
	})
	return c
}

func (c *Client) seedSession(mutate func(*lumen.Session)) {
	c.t.Helper()

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range c.cookies {
		seed.AddCookie(ck)
	}
	sess := c.app.Sessions().Load(seed)
	mutate(sess)

	rec := httptest.NewRecorder()
	if err := c.app.Sessions().Save(rec, seed, sess); err != nil {
		c.t.Fatalf("lumentest: save session: %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
}

// Response wraps a recorded response with assertion helpers. The
// Expect methods report test errors and return the response, so checks
// chain.
type Response struct {
	t   *testing.T
	rec *httptest.ResponseRecorder
}

// Status returns the response status code.
func (r *Response) Status() int { return r.rec.Code }

// Body returns the response body.
func (r *Response) Body() string { return r.rec.Body.String() }

// Header returns a response header value.
func (r *Response) Header(key string) string { return r.rec.Header().Get(key) }

// Recorder exposes the underlying recorder for checks the helpers do
// not cover.
func (r *Response) Recorder() *httptest.ResponseRecorder { return r.rec }

// ExpectStatus asserts the status code.
func (r *Response) ExpectStatus(want int) *Response {
	r.t.Helper()
	if r.rec.Code != want {
		r.t.Errorf("status = %d, want %d\nbody: %s", r.rec.Code, want, truncate(r.Body(), 500))
	}
	return r
}

// ExpectContains asserts the body contains want.
func (r *Response) ExpectContains(want string) *Response {
	r.t.Helper()
	if !strings.Contains(r.Body(), want) {
		r.t.Errorf("body missing %q:\n%s", want, truncate(r.Body(), 500))
	}
	return r
}

// ExpectNotContains asserts the body does not contain s.
func (r *Response) ExpectNotContains(s string) *Response {
	r.t.Helper()
	if strings.Contains(r.Body(), s) {
		r.t.Errorf("body unexpectedly contains %q:\n%s", s, truncate(r.Body(), 500))
	}
	return r
}

// ExpectHeader asserts a response header value.
func (r *Response) ExpectHeader(key, want string) *Response {
	r.t.Helper()
	if got := r.rec.Header().Get(key); got != want {
		r.t.Errorf("header %s = %q, want %q", key, got, want)
	}
	return r
}

// ExpectRedirect asserts a plain-client redirect: 303 plus Location.
func (r *Response) ExpectRedirect(location string) *Response {
	r.t.Helper()
	r.ExpectStatus(http.StatusSeeOther)
	return r.ExpectHeader("Location", location)
}

// ExpectEventStream asserts the response is an SSE stream.
func (r *Response) ExpectEventStream() *Response {
	r.t.Helper()
	if ct := r.rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		r.t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	return r
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
