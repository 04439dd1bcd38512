package lumen

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/html"
)

func TestBeforeware_NilReturnContinues(t *testing.T) {
	app := newTestApp(t, Config{})

	var ran []string
	app.Beforeware(func() any {
		ran = append(ran, "before")
		return nil
	})
	app.Get("/", func() *html.Node {
		ran = append(ran, "handler")
		return html.Div()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if len(ran) != 2 || ran[0] != "before" || ran[1] != "handler" {
		t.Errorf("ran = %v, want [before handler]", ran)
	}
}

func TestBeforeware_TypedNilContinues(t *testing.T) {
	app := newTestApp(t, Config{})

	app.Beforeware(func() *html.Node {
		return nil
	})
	handlerRan := false
	app.Get("/", func() *html.Node {
		handlerRan = true
		return html.Div()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if !handlerRan {
		t.Error("typed-nil beforeware return blocked the handler")
	}
}

func TestBeforeware_ValueShortCircuits(t *testing.T) {
	app := newTestApp(t, Config{})

	app.Beforeware(func() any {
		return Redirect("/maintenance")
	})
	handlerRan := false
	app.Get("/", func() *html.Node {
		handlerRan = true
		return html.Div()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if handlerRan {
		t.Error("handler ran despite the short-circuit")
	}
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/maintenance" {
		t.Errorf("Location = %q, want /maintenance", got)
	}
}

func TestBeforeware_SkipPatterns(t *testing.T) {
	app := newTestApp(t, Config{})

	app.Beforeware(func() any {
		return Redirect("/login")
	}, "/login", "/static/.*", "/health")
	page := func() *html.Node { return html.Div(html.Text("open")) }
	app.Get("/login", page)
	app.Get("/health", page)
	app.Get("/static/app.css", page)
	app.Get("/statically", page)
	app.Get("/app", page)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/login", http.StatusOK},
		{"/health", http.StatusOK},
		{"/static/app.css", http.StatusOK},
		// Patterns match the whole path, not a prefix of it.
		{"/statically", http.StatusSeeOther},
		{"/app", http.StatusSeeOther},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rr := httptest.NewRecorder()
			app.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestBeforeware_ErrorStopsRequest(t *testing.T) {
	app := newTestApp(t, Config{})

	app.Beforeware(func() (any, error) {
		return nil, auth.ErrUnauthorized
	})
	app.Get("/", func() *html.Node { return html.Div() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestBeforeware_RunInRegistrationOrder(t *testing.T) {
	app := newTestApp(t, Config{})

	var ran []string
	app.Beforeware(func() any { ran = append(ran, "first"); return nil })
	app.Beforeware(func() any { ran = append(ran, "second"); return nil })
	app.Get("/", func() *html.Node { return html.Div() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Errorf("ran = %v, want [first second]", ran)
	}
}

func TestBeforeware_SeesRequestParameters(t *testing.T) {
	type TenantParams struct {
		Tenant string
	}

	app := newTestApp(t, Config{})
	app.Beforeware(func(ctx *Ctx, p TenantParams) any {
		if p.Tenant == "blocked" {
			return Fragment(html.P(html.Text("tenant suspended")))
		}
		ctx.SetValue("tenant", p.Tenant)
		return nil
	})
	app.Get("/dash/{tenant}", func(ctx *Ctx) *html.Node {
		tenant, _ := ctx.Value("tenant").(string)
		return html.Div(html.Textf("tenant=%s", tenant))
	})

	req := httptest.NewRequest(http.MethodGet, "/dash/acme", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), "tenant=acme") {
		t.Errorf("handler did not see beforeware value: %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/dash/blocked", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), "tenant suspended") {
		t.Errorf("blocked tenant not short-circuited: %s", rr.Body.String())
	}
}

func TestBeforeware_RequireLogin(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Beforeware(auth.RequireLogin("/login"), "/login")
	app.Get("/login", func() *html.Node { return html.H1(html.Text("Sign in")) })
	app.Get("/account", func() *html.Node { return html.H1(html.Text("Account")) })

	// Anonymous visitors bounce to the login page.
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}

	// The login page itself stays reachable.
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d", rr.Code, http.StatusOK)
	}
}
