package dev

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWatcherDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	os.WriteFile(src, []byte("package main"), 0o644)

	w := NewWatcher(WatcherConfig{Paths: []string{dir}})
	w.scan(false)

	if changes := w.scan(true); len(changes) != 0 {
		t.Fatalf("unchanged tree reported %v", changes)
	}

	// Modify. Walk compares mod times, so push it forward explicitly
	// rather than racing the filesystem clock.
	future := time.Now().Add(time.Second)
	os.Chtimes(src, future, future)
	changes := w.scan(true)
	if len(changes) != 1 || changes[0].Path != src || changes[0].Kind != ChangeGo {
		t.Fatalf("modify reported %v", changes)
	}

	// Create.
	css := filepath.Join(dir, "app.css")
	os.WriteFile(css, []byte("body{}"), 0o644)
	changes = w.scan(true)
	if len(changes) != 1 || changes[0].Kind != ChangeCSS {
		t.Fatalf("create reported %v", changes)
	}

	// Delete.
	os.Remove(src)
	changes = w.scan(true)
	if len(changes) != 1 || changes[0].Path != src {
		t.Fatalf("delete reported %v", changes)
	}
}

func TestWatcherIgnores(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "dist"), 0o755)
	os.WriteFile(filepath.Join(dir, "dist", "server"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "main_test.go"), []byte("package main"), 0o644)
	os.WriteFile(filepath.Join(dir, "scratch.swp"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	w := NewWatcher(WatcherConfig{Paths: []string{dir}, Ignore: []string{"*.txt"}})
	w.scan(false)

	if len(w.modTimes) != 0 {
		t.Errorf("tracked ignored files: %v", w.modTimes)
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name    string
		changes []Change
		want    ChangeKind
	}{
		{"css only", []Change{{Kind: ChangeCSS}}, ChangeCSS},
		{"asset wins over css", []Change{{Kind: ChangeCSS}, {Kind: ChangeAsset}}, ChangeAsset},
		{"go wins over all", []Change{{Kind: ChangeAsset}, {Kind: ChangeGo}, {Kind: ChangeCSS}}, ChangeGo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coalesce(tt.changes); got != tt.want {
				t.Errorf("Coalesce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReloadHubBroadcast(t *testing.T) {
	hub := NewReloadHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.ShowError("boom")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := `{"type":"error","error":"boom"}`; string(data) != want {
		t.Errorf("message = %s, want %s", data, want)
	}
}

func TestInjectClientScript(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		injected    bool
	}{
		{"html with body tag", "text/html; charset=utf-8", "<html><body>hi</body></html>", true},
		{"html without body tag", "text/html", "<p>fragment</p>", true},
		{"json untouched", "application/json", `{"a":1}`, false},
		{"event stream untouched", "text/event-stream", "data: x\n\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Header: http.Header{"Content-Type": []string{tt.contentType}},
				Body:   io.NopCloser(strings.NewReader(tt.body)),
			}
			if err := injectClientScript(resp); err != nil {
				t.Fatalf("inject: %v", err)
			}

			out, _ := io.ReadAll(resp.Body)
			got := strings.Contains(string(out), "lumen-error-overlay")
			if got != tt.injected {
				t.Errorf("injected = %v, want %v\n%s", got, tt.injected, out)
			}
			if tt.injected && !strings.HasSuffix(strings.TrimSpace(string(out)), "</script></body></html>") &&
				strings.Contains(tt.body, "</body>") {
				t.Errorf("script not placed before </body>:\n%s", out)
			}
		})
	}
}

func TestInjectSkipsCompressed(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{
			"Content-Type":     []string{"text/html"},
			"Content-Encoding": []string{"gzip"},
		},
		Body: io.NopCloser(strings.NewReader("not really gzip")),
	}
	if err := injectClientScript(resp); err != nil {
		t.Fatalf("inject: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(out), "<script>") {
		t.Error("script injected into compressed response")
	}
}
