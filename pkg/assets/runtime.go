package assets

import (
	_ "embed"
	"net/http"
	"strconv"
)

// RuntimeVersion is the pinned upstream datastar release the framework
// speaks. The SSE event vocabulary is version-sensitive, so bumping it
// means revisiting the frame encoder too.
const RuntimeVersion = "v1.0.0-beta.11"

//go:embed datastar.js
var runtimeJS []byte

const runtimeETag = `"datastar-` + RuntimeVersion + `"`

// ServeRuntime writes the embedded reactive runtime loader. The app
// mounts it at the stable runtime URL so the default page shell works
// without any build step.
func ServeRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	w.Header().Set("ETag", runtimeETag)
	if r.Header.Get("If-None-Match") == runtimeETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(runtimeJS)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(runtimeJS)
}
