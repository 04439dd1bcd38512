package datastar

import (
	"net/http"
	"time"
)

// SSE event names recognized by the reactive client.
const (
	// EventMergeFragments carries rendered HTML to merge into the DOM.
	EventMergeFragments = "datastar-merge-fragments"

	// EventMergeSignals carries a JSON object to merge into client signals.
	EventMergeSignals = "datastar-merge-signals"

	// EventRemoveFragments removes the elements matching a selector.
	EventRemoveFragments = "datastar-remove-fragments"

	// EventExecuteScript evaluates a script in the client.
	EventExecuteScript = "datastar-execute-script"
)

// Data line field prefixes. Each data line is "data: <field> <value>".
const (
	fieldSelector          = "selector"
	fieldMergeMode         = "mergeMode"
	fieldFragments         = "fragments"
	fieldSignals           = "signals"
	fieldOnlyIfMissing     = "onlyIfMissing"
	fieldUseViewTransition = "useViewTransition"
	fieldScript            = "script"
	fieldAutoRemove        = "autoRemove"
)

// DefaultRetry is the reconnect hint written into every frame. The client
// owns resumption: after a disconnect it reconnects and re-requests its
// stream; the server never replays frames.
const DefaultRetry = time.Second

// Request marker headers. Their presence drives response classification:
// a marked request gets fragment frames and header-level redirects, an
// unmarked one gets full documents and HTTP 303s.
const (
	// HeaderRequest is sent by the reactive client on every request it
	// originates. The value is the literal string "true".
	HeaderRequest = "Datastar-Request"

	// HeaderHistoryRestore marks a history-navigation replay. Such
	// requests need a full document even though the general marker is
	// present, so they are never classified as reactive.
	HeaderHistoryRestore = "Datastar-History-Restore"

	// HeaderLocation carries a header-level redirect target for the
	// reactive client, replacing the HTTP 3xx + Location pair.
	HeaderLocation = "Datastar-Location"
)

const markerValue = "true"

// IsReactive reports whether the request originates from the reactive
// client and expects fragment frames. History-restore requests are
// excluded: the client replays them for a full document.
func IsReactive(r *http.Request) bool {
	if r == nil {
		return false
	}
	return r.Header.Get(HeaderRequest) == markerValue && !IsHistoryRestore(r)
}

// IsHistoryRestore reports whether the request is a history-navigation
// replay.
func IsHistoryRestore(r *http.Request) bool {
	return r != nil && r.Header.Get(HeaderHistoryRestore) == markerValue
}

// WriteSSEHeaders prepares a response for event streaming. Proxy buffering
// is disabled so frames reach the client as they are flushed.
func WriteSSEHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("X-Content-Type-Options", "nosniff")
}
