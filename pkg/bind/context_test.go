package bind

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestBodyKindSelection(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        BodyKind
	}{
		{"get ignores body", http.MethodGet, "application/json", `{"a":1}`, BodyNone},
		{"head ignores body", http.MethodHead, "application/json", `{"a":1}`, BodyNone},
		{"urlencoded", http.MethodPost, "application/x-www-form-urlencoded", "a=1", BodyForm},
		{"json", http.MethodPost, "application/json", `{"a":1}`, BodyJSON},
		{"json with charset", http.MethodPost, "application/json; charset=utf-8", `{"a":1}`, BodyJSON},
		{"json suffix", http.MethodPost, "application/problem+json", `{"a":1}`, BodyJSON},
		{"unknown type", http.MethodPost, "text/plain", "hi", BodyNone},
		{"no content type", http.MethodPost, "", "hi", BodyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			rc := NewRequestContext(r, nil)
			if got := rc.BodyKind(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBodyParsedOnce(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=ada&tag=a&tag=b"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rc := NewRequestContext(r, nil)

	first, ok := rc.Form("name")
	if !ok || first[0] != "ada" {
		t.Fatalf("first read: got %v, %v", first, ok)
	}
	// The body reader is spent; a second lookup must serve the memo.
	second, ok := rc.Form("name")
	if !ok || second[0] != "ada" {
		t.Fatalf("second read: got %v, %v", second, ok)
	}
	if tags, _ := rc.Form("tag"); len(tags) != 2 {
		t.Errorf("got %d tag values, want 2", len(tags))
	}
	// Exactly one strategy per request: the form body has no JSON view.
	if _, ok := rc.JSONField("name"); ok {
		t.Error("form body unexpectedly visible as JSON")
	}
	if err := rc.BodyErr(); err != nil {
		t.Errorf("unexpected body error: %v", err)
	}
}

func TestJSONBodyFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada","age":36,"address":{"city":"london"}}`))
	r.Header.Set("Content-Type", "application/json")
	rc := NewRequestContext(r, nil)

	raw, ok := rc.JSONField("name")
	if !ok {
		t.Fatal("name field missing")
	}
	if string(raw) != `"ada"` {
		t.Errorf("got %s, want %q", raw, `"ada"`)
	}
	if raw, ok := rc.JSONField("address"); !ok || string(raw) != `{"city":"london"}` {
		t.Errorf("address: got %s, %v", raw, ok)
	}
	if _, ok := rc.JSONField("missing"); ok {
		t.Error("missing field reported present")
	}
	if !bytes.Contains(rc.BodyRaw(), []byte(`"ada"`)) {
		t.Error("raw body not retained")
	}
}

func TestJSONBodyNonObject(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2,3]`))
	r.Header.Set("Content-Type", "application/json")
	rc := NewRequestContext(r, nil)

	if got := rc.BodyKind(); got != BodyJSON {
		t.Fatalf("got %s, want json", got)
	}
	if _, ok := rc.JSONField("0"); ok {
		t.Error("array body should expose no fields")
	}
	if string(rc.BodyRaw()) != `[1,2,3]` {
		t.Errorf("raw body: got %s", rc.BodyRaw())
	}
}

func TestMultipartBody(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", "report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fw, err := mw.CreateFormFile("upload", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fw.Write([]byte("contents")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rc := NewRequestContext(r, nil)

	if got := rc.BodyKind(); got != BodyForm {
		t.Fatalf("got %s, want form", got)
	}
	if vs, ok := rc.Form("title"); !ok || vs[0] != "report" {
		t.Errorf("title: got %v, %v", vs, ok)
	}
	files, ok := rc.Files("upload")
	if !ok || len(files) != 1 {
		t.Fatalf("upload: got %d files, ok=%v", len(files), ok)
	}
	if files[0].Filename != "notes.txt" {
		t.Errorf("got %q, want %q", files[0].Filename, "notes.txt")
	}
	if _, ok := rc.Files("absent"); ok {
		t.Error("absent file reported present")
	}
}

func TestQueryMultiValued(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?tag=a&tag=b&q=x", nil)
	rc := NewRequestContext(r, nil)

	tags, ok := rc.Query("tag")
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("got %v, %v", tags, ok)
	}
	if _, ok := rc.Query("missing"); ok {
		t.Error("missing query key reported present")
	}
}

func TestCookieAndHeaderAccess(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	r.Header.Set("X-Trace", "abc123")
	rc := NewRequestContext(r, nil)

	if v, ok := rc.Cookie("theme"); !ok || v != "dark" {
		t.Errorf("cookie: got %q, %v", v, ok)
	}
	if _, ok := rc.Cookie("absent"); ok {
		t.Error("absent cookie reported present")
	}
	if v, ok := rc.Header("x-trace"); !ok || v != "abc123" {
		t.Errorf("header: got %q, %v", v, ok)
	}
	if _, ok := rc.Header("X-Missing"); ok {
		t.Error("absent header reported present")
	}
}

type fakeSession struct {
	id string
}

func TestReservedLookup(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := NewRequestContext(r, nil)
	rc.Provide("session", &fakeSession{id: "s1"})

	// Typed match.
	v, ok := rc.reserved(reflect.TypeOf((*fakeSession)(nil)), "")
	if !ok {
		t.Fatal("typed lookup failed")
	}
	if v.(*fakeSession).id != "s1" {
		t.Errorf("got %q, want %q", v.(*fakeSession).id, "s1")
	}

	// The request itself is provided automatically.
	if v, ok := rc.reserved(reflect.TypeOf((*http.Request)(nil)), ""); !ok || v.(*http.Request) != r {
		t.Error("request not available as reserved object")
	}

	// Name fallback for untyped parameters.
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	if v, ok := rc.reserved(anyType, "session"); !ok || v.(*fakeSession).id != "s1" {
		t.Error("name fallback failed")
	}
	if _, ok := rc.reserved(anyType, "nope"); ok {
		t.Error("unknown name reported present")
	}
	if _, ok := rc.reserved(reflect.TypeOf((*bytes.Buffer)(nil)), ""); ok {
		t.Error("unregistered type reported present")
	}
}

func TestPathCaptures(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	captures := map[string]string{"id": "42"}
	rc := NewRequestContext(r, func(name string) string { return captures[name] })

	if v, ok := rc.Path("id"); !ok || v != "42" {
		t.Errorf("got %q, %v", v, ok)
	}
	if _, ok := rc.Path("other"); ok {
		t.Error("absent capture reported present")
	}
}
