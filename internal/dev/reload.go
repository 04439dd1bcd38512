package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// SocketPath is where browsers connect for reload messages. The proxy
// intercepts it before anything reaches the app.
const SocketPath = "/_lumen/reload"

// Message types pushed to browsers.
const (
	msgReload = "reload"
	msgCSS    = "css"
	msgError  = "error"
	msgClear  = "clear"
)

type reloadMessage struct {
	Type  string `json:"type"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// ReloadHub fans reload messages out to connected browsers.
type ReloadHub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewReloadHub creates an empty hub.
func NewReloadHub() *ReloadHub {
	return &ReloadHub{
		conns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The dev server is localhost-only; origin checks just get
			// in the way of LAN testing.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and holds it until the browser
// goes away.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Reload tells every browser to reload the page.
func (h *ReloadHub) Reload() { h.broadcast(reloadMessage{Type: msgReload}) }

// SwapCSS tells every browser to re-fetch stylesheets in place.
func (h *ReloadHub) SwapCSS(file string) { h.broadcast(reloadMessage{Type: msgCSS, File: file}) }

// ShowError puts a build error overlay on every browser.
func (h *ReloadHub) ShowError(text string) { h.broadcast(reloadMessage{Type: msgError, Error: text}) }

// ClearError removes the overlay.
func (h *ReloadHub) ClearError() { h.broadcast(reloadMessage{Type: msgClear}) }

// Clients returns the number of connected browsers.
func (h *ReloadHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close drops every connection.
func (h *ReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *ReloadHub) broadcast(msg reloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientScript is injected before </body> on proxied HTML responses.
// It connects to SocketPath and acts on the hub's messages.
const ClientScript = `<script>
(function() {
	"use strict";
	var delay = 1000;

	function connect() {
		var proto = location.protocol === "https:" ? "wss:" : "ws:";
		var ws = new WebSocket(proto + "//" + location.host + "` + SocketPath + `");

		ws.onopen = function() {
			delay = 1000;
			clearOverlay();
		};

		ws.onmessage = function(e) {
			var msg;
			try { msg = JSON.parse(e.data); } catch (err) { return; }
			if (msg.type === "reload") location.reload();
			else if (msg.type === "css") swapCSS();
			else if (msg.type === "error") showOverlay(msg.error);
			else if (msg.type === "clear") clearOverlay();
		};

		ws.onclose = function() {
			setTimeout(function() {
				delay = Math.min(delay * 2, 30000);
				connect();
			}, delay);
		};
	}

	function swapCSS() {
		document.querySelectorAll('link[rel="stylesheet"]').forEach(function(link) {
			var url = new URL(link.href);
			url.searchParams.set("_t", Date.now());
			link.href = url.toString();
		});
	}

	function showOverlay(text) {
		clearOverlay();
		var overlay = document.createElement("div");
		overlay.id = "lumen-error-overlay";
		overlay.style.cssText = "position:fixed;inset:0;background:rgba(0,0,0,.9);color:#fff;font-family:monospace;padding:2rem;overflow:auto;z-index:999999;";
		var pre = document.createElement("pre");
		pre.style.cssText = "white-space:pre-wrap;background:#1a1a1a;padding:1rem;border-radius:6px;";
		pre.textContent = text;
		overlay.appendChild(pre);
		document.body.appendChild(overlay);
	}

	function clearOverlay() {
		var overlay = document.getElementById("lumen-error-overlay");
		if (overlay) overlay.remove();
	}

	connect();
})();
</script>`
