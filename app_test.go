package lumen

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/respond"
	"github.com/lumenkit/lumen/pkg/session"
)

// newTestApp builds an app with a fixed session secret so tests never
// touch a key file, and a silent logger.
func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if len(cfg.Session.Secret) == 0 {
		cfg.Session.Secret = []byte("0123456789abcdef0123456789abcdef")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	app, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app
}

func reactiveRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(datastar.HeaderRequest, "true")
	return req
}

func TestApp_PlainNode_WrappedInShell(t *testing.T) {
	app := newTestApp(t, Config{Page: Page{Title: "Shop"}})
	app.Get("/", func() *html.Node {
		return html.H1(html.Text("Welcome"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q, want text/html", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "<!doctype html>") {
		t.Errorf("body does not start with doctype: %.40q", body)
	}
	if !strings.Contains(body, "<title>Shop</title>") {
		t.Errorf("body missing shell title: %s", body)
	}
	if !strings.Contains(body, `src="/static/datastar.js"`) {
		t.Errorf("body missing runtime script tag: %s", body)
	}
	if !strings.Contains(body, "<h1>Welcome</h1>") {
		t.Errorf("body missing handler content: %s", body)
	}
	if got := rr.Header().Get("Vary"); got != datastar.HeaderRequest {
		t.Errorf("Vary = %q, want %q", got, datastar.HeaderRequest)
	}
}

func TestApp_FullDocument_NotRewrapped(t *testing.T) {
	app := newTestApp(t, Config{Page: Page{Title: "Ignored"}})
	app.Get("/", func() *html.Node {
		return html.Html(
			html.Head(html.Title("Custom")),
			html.Body(html.P(html.Text("hand-built"))),
		)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	body := rr.Body.String()
	if strings.Count(body, "<html") != 1 {
		t.Fatalf("document wrapped twice: %s", body)
	}
	if strings.Contains(body, "Ignored") {
		t.Errorf("shell title applied to a full document: %s", body)
	}
	// A complete document is the same for both client kinds, so the
	// response must not claim a marker dependency.
	if got := rr.Header().Get("Vary"); got != "" {
		t.Errorf("Vary = %q, want none", got)
	}
}

func TestApp_ReactiveNode_MergeFrames(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/panel", func() *html.Node {
		return html.Div(html.ID("panel"), html.Text("fresh"))
	})

	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, reactiveRequest(http.MethodGet, "/panel", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "event: "+datastar.EventMergeFragments) {
		t.Errorf("body missing merge event: %s", body)
	}
	if !strings.Contains(body, `<div id="panel">fresh</div>`) {
		t.Errorf("body missing rendered fragment: %s", body)
	}
	if got := rr.Header().Get("Vary"); got != datastar.HeaderRequest {
		t.Errorf("Vary = %q, want %q", got, datastar.HeaderRequest)
	}
}

func TestApp_FragmentMarker_BareForPlainClient(t *testing.T) {
	app := newTestApp(t, Config{Page: Page{Title: "Shop"}})
	app.Get("/widget", func() any {
		return Fragment(html.Div(html.ID("w"), html.Text("bare")))
	})

	req := httptest.NewRequest(http.MethodGet, "/widget", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	body := rr.Body.String()
	if strings.Contains(body, "<!doctype html>") {
		t.Errorf("fragment-marked response got the page shell: %s", body)
	}
	if !strings.Contains(body, `<div id="w">bare</div>`) {
		t.Errorf("body missing fragment markup: %s", body)
	}
	if got := rr.Header().Get("Vary"); got != datastar.HeaderRequest {
		t.Errorf("Vary = %q, want %q", got, datastar.HeaderRequest)
	}
}

func TestApp_FullPageMarker_DocumentForReactiveClient(t *testing.T) {
	app := newTestApp(t, Config{Page: Page{Title: "Shop"}})
	app.Get("/login", func() any {
		return FullPage(html.H1(html.Text("Sign in")))
	})

	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, reactiveRequest(http.MethodGet, "/login", nil))

	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rr.Body.String(), "<!doctype html>") {
		t.Errorf("marked full page did not produce a document: %s", rr.Body.String())
	}
}

func TestApp_PathAndQueryParams(t *testing.T) {
	type ShowParams struct {
		ID int
		Q  string
	}

	app := newTestApp(t, Config{})
	app.Get("/things/{id}", func(p ShowParams) *html.Node {
		return html.Div(html.Textf("id=%d q=%s", p.ID, p.Q))
	})

	req := httptest.NewRequest(http.MethodGet, "/things/42?q=widgets", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "id=42 q=widgets") {
		t.Errorf("params not resolved: %s", rr.Body.String())
	}
}

func TestApp_MissingParam_Returns422(t *testing.T) {
	type ShowParams struct {
		ID int
	}

	app := newTestApp(t, Config{})
	app.Get("/things", func(p ShowParams) *html.Node {
		return html.Div(html.Textf("%d", p.ID))
	})

	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rr.Body.String(), "id") {
		t.Errorf("error body does not name the parameter: %s", rr.Body.String())
	}
}

func TestApp_BadParamType_Returns422(t *testing.T) {
	type ShowParams struct {
		ID int
	}

	app := newTestApp(t, Config{})
	app.Get("/things/{id}", func(p ShowParams) *html.Node {
		return html.Div(html.Textf("%d", p.ID))
	})

	req := httptest.NewRequest(http.MethodGet, "/things/banana", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestApp_PassthroughJSON(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/api/ping", func() map[string]any {
		return map[string]any{"ok": true}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"ok":true}` {
		t.Errorf("body = %q", got)
	}
}

func TestApp_CtxStatus_OverridesPassthrough(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Post("/api/items", func(ctx *Ctx) map[string]string {
		ctx.Status(http.StatusCreated)
		return map[string]string{"id": "7"}
	})

	req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestApp_CtxStatus_OverridesFullPage(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/teapot", func(ctx *Ctx) *html.Node {
		ctx.Status(http.StatusTeapot)
		return html.P(html.Text("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
	if !strings.Contains(rr.Body.String(), "short and stout") {
		t.Errorf("body missing content: %s", rr.Body.String())
	}
}

func TestApp_NilReturn_NoContent(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Post("/fire", func() *html.Node {
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/fire", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("204 response has a body: %q", rr.Body.String())
	}
}

func TestApp_HeaderItemReturn(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/probe", func() any {
		return HTTPHeader("X-Build", "abc123")
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("X-Build"); got != "abc123" {
		t.Errorf("X-Build = %q, want abc123", got)
	}
}

func TestApp_MixedReturn_NodePlusHeader(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/mixed", func() any {
		return []any{
			HTTPHeader("X-Total", "3"),
			html.Div(html.Text("list")),
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/mixed", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("X-Total"); got != "3" {
		t.Errorf("X-Total = %q, want 3", got)
	}
	if !strings.Contains(rr.Body.String(), "list") {
		t.Errorf("body missing node content: %s", rr.Body.String())
	}
}

func TestApp_HandlerError_Returns500PlainMessage(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/boom", func() (*html.Node, error) {
		return nil, errors.New("database on fire")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "database on fire") {
		t.Errorf("500 body leaks error details: %s", rr.Body.String())
	}
}

func TestApp_HTTPError_CarriesStatusAndMessage(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/secret", func() (*html.Node, error) {
		return nil, Forbidden("members only")
	})

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), "members only") {
		t.Errorf("4xx body missing message: %s", rr.Body.String())
	}
}

func TestApp_UnsupportedReturn_Returns500(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/weird", func() any {
		return make(chan int)
	})

	req := httptest.NewRequest(http.MethodGet, "/weird", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestApp_NotFoundHandler(t *testing.T) {
	app := newTestApp(t, Config{})
	app.NotFound(func() *html.Node {
		return html.H1(html.Text("nothing here"))
	})

	req := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), "nothing here") {
		t.Errorf("body missing custom 404 content: %s", rr.Body.String())
	}
}

func TestApp_DefaultNotFound(t *testing.T) {
	app := newTestApp(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestApp_ErrorPage(t *testing.T) {
	app := newTestApp(t, Config{})
	app.ErrorPage(http.StatusInternalServerError, func(ctx *Ctx, err error) *html.Node {
		return html.H1(html.Text("something broke"))
	})
	app.Get("/boom", func() (*html.Node, error) {
		return nil, errors.New("kaput")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "something broke") {
		t.Errorf("body missing custom error page: %s", body)
	}
	if !strings.Contains(body, "<!doctype html>") {
		t.Errorf("error page not wrapped in shell: %s", body)
	}
	if strings.Contains(body, "kaput") {
		t.Errorf("error page leaks error details: %s", body)
	}
}

func TestApp_ErrorPage_NilFallsBack(t *testing.T) {
	app := newTestApp(t, Config{})
	app.ErrorPage(http.StatusNotFound, func(ctx *Ctx, err error) *html.Node {
		return nil
	})
	app.Get("/missing", func() (*html.Node, error) {
		return nil, NotFoundErr()
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), "not found") {
		t.Errorf("fallback body = %q", rr.Body.String())
	}
}

func TestApp_Route_RegistersGetAndPost(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Route("/contact", func(ctx *Ctx) *html.Node {
		return html.P(html.Textf("method=%s", ctx.Method()))
	})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/contact", nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d", method, rr.Code, http.StatusOK)
		}
		if !strings.Contains(rr.Body.String(), "method="+method) {
			t.Errorf("%s body = %q", method, rr.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodDelete, "/contact", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestApp_Use_WrapsRoutes(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Wrapped", "yes")
			next.ServeHTTP(w, r)
		})
	})
	app.Get("/", func() *html.Node { return html.Div() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Wrapped"); got != "yes" {
		t.Errorf("X-Wrapped = %q, want yes", got)
	}
}

func TestApp_Handle_BadHandlerPanics(t *testing.T) {
	app := newTestApp(t, Config{})

	defer func() {
		if recover() == nil {
			t.Fatal("registering an unplannable handler did not panic")
		}
	}()
	app.Get("/bad", func(n int) *html.Node { return nil })
}

func TestApp_EnvelopeReturn_PassesThrough(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/raw", func() any {
		return &respond.Envelope{
			Kind:        respond.KindPassthrough,
			Status:      http.StatusAccepted,
			ContentType: "text/plain",
			Body:        []byte("queued"),
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/raw", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if got := rr.Body.String(); got != "queued" {
		t.Errorf("body = %q, want queued", got)
	}
}

func TestApp_MustNew_PanicsOnBadConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNew with an unreadable manifest did not panic")
		}
	}()
	MustNew(Config{
		Session: session.Config{Secret: []byte("0123456789abcdef0123456789abcdef")},
		Static:  StaticConfig{Manifest: "/nonexistent/manifest.json"},
	})
}
