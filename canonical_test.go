package lumen

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenkit/lumen/pkg/html"
)

func TestCanonical_RedirectsToOneURL(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/about", func() *html.Node { return html.Div() })

	tests := []struct {
		name         string
		target       string
		wantLocation string
	}{
		{"trailing slash", "/about/", "/about"},
		{"duplicate slashes", "/blog//post", "/blog/post"},
		{"dot segment", "/x/../about", "/about"},
		{"query preserved", "/about/?tab=team", "/about?tab=team"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rr := httptest.NewRecorder()
			app.ServeHTTP(rr, req)

			if rr.Code != http.StatusPermanentRedirect {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusPermanentRedirect)
			}
			if got := rr.Header().Get("Location"); got != tc.wantLocation {
				t.Errorf("Location = %q, want %q", got, tc.wantLocation)
			}
		})
	}
}

func TestCanonical_CleanPathServedDirectly(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/about", func() *html.Node { return html.Div(html.Text("about")) })

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCanonical_RootNotRedirected(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/", func() *html.Node { return html.Div() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCanonical_RejectsMalformedPaths(t *testing.T) {
	app := newTestApp(t, Config{})
	app.Get("/", func() *html.Node { return html.Div() })

	tests := []struct {
		name   string
		target string
	}{
		{"escapes root", "/../etc/passwd"},
		{"null byte", "/a%00b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rr := httptest.NewRecorder()
			app.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}
