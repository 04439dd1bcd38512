package respond

import (
	"io"
	"net/http"

	"github.com/lumenkit/lumen/pkg/datastar"
)

// WriteRedirect delivers a redirect envelope. Reactive clients get the
// protocol's header-level navigation with an empty body; plain clients
// get a standard 303 with Location. Never both.
func WriteRedirect(w http.ResponseWriter, e *Envelope) {
	e.Apply(w.Header())
	if e.ClientRedirect {
		w.Header().Set(datastar.HeaderLocation, e.Location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Location", e.Location)
	w.WriteHeader(http.StatusSeeOther)
}

// WritePassthrough delivers an opaque payload envelope. A Handler
// payload takes over the response entirely.
func WritePassthrough(w http.ResponseWriter, r *http.Request, e *Envelope) error {
	if e.Handler != nil {
		e.Apply(w.Header())
		e.Handler.ServeHTTP(w, r)
		return nil
	}

	e.Apply(w.Header())
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch {
	case e.Body != nil:
		_, err := w.Write(e.Body)
		return err
	case e.Reader != nil:
		_, err := io.Copy(w, e.Reader)
		return err
	}
	return nil
}
