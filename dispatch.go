package lumen

import (
	"bytes"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"

	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/bind"
	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/render"
	"github.com/lumenkit/lumen/pkg/respond"
)

// dispatch runs one request through the pipeline: load session, resolve
// identity, bind parameters, run beforeware and the handler, classify
// the return value, write the envelope. status presets Ctx.Status for
// routes like the not-found handler.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request, spec *bind.Spec, status int) {
	if a.cfg.MaxBodyBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxBodyBytes)
	}

	sess := a.sessions.Load(r)
	ctx := &Ctx{
		app:     a,
		req:     r,
		log:     a.log,
		headers: respond.NewHeaderAccumulator(),
		sess:    sess,
		status:  status,
	}

	ident, err := a.authn.Authenticate(r, sess)
	if err != nil {
		a.writeError(w, r, ctx, err)
		return
	}
	ctx.identity = ident

	rc := bind.NewRequestContext(r, func(name string) string {
		return chi.URLParam(r, name)
	})
	rc.Provide("ctx", ctx)
	rc.Provide("app", a)
	rc.Provide("session", sess)
	rc.Provide("headers", ctx.headers)
	if ident != nil {
		rc.Provide("auth", ident)
	}
	ctx.signals = a.requestSignals(rc)
	rc.Provide("signals", ctx.signals)

	for i := range a.before {
		b := &a.before[i]
		if b.skips(r.URL.Path) {
			continue
		}
		out, err := b.spec.Call(rc)
		if err != nil {
			a.writeError(w, r, ctx, err)
			return
		}
		if !isNilValue(out) {
			a.writeValue(w, r, ctx, out)
			return
		}
	}

	out, err := spec.Call(rc)
	if err != nil {
		a.writeError(w, r, ctx, err)
		return
	}
	a.writeValue(w, r, ctx, out)
}

// requestSignals builds the client's signal snapshot. For GET requests
// the snapshot rides in the query string; otherwise it is the JSON
// body, shared with field binding through the memoized parse. Plain
// requests and malformed documents yield an empty snapshot.
func (a *App) requestSignals(rc *bind.RequestContext) *datastar.IncomingSignals {
	r := rc.Request()
	if !datastar.IsReactive(r) {
		return &datastar.IncomingSignals{}
	}

	if r.Method == http.MethodGet {
		sig, err := datastar.ReadSignals(r)
		if err != nil {
			a.log.Debug("malformed signals", "path", r.URL.Path, "error", err)
			return &datastar.IncomingSignals{}
		}
		return sig
	}

	if rc.BodyKind() == bind.BodyJSON {
		sig, err := datastar.ParseSignals(rc.BodyRaw())
		if err != nil {
			a.log.Debug("malformed signals", "path", r.URL.Path, "error", err)
			return &datastar.IncomingSignals{}
		}
		return sig
	}
	return &datastar.IncomingSignals{}
}

// writeValue classifies a handler's return value and writes it out.
// Typed nils count as no response, same as an untyped nil.
func (a *App) writeValue(w http.ResponseWriter, r *http.Request, ctx *Ctx, v any) {
	if isNilValue(v) {
		v = nil
	}
	env, err := respond.Classify(datastar.IsReactive(r), v)
	if err != nil {
		a.writeError(w, r, ctx, err)
		return
	}
	a.writeEnvelope(w, r, ctx, env)
}

// writeEnvelope delivers a classified response. The session cookie and
// handler headers go out first; after that the envelope kind decides
// the body.
func (a *App) writeEnvelope(w http.ResponseWriter, r *http.Request, ctx *Ctx, e *respond.Envelope) {
	a.finishHeaders(w, r, ctx)

	switch e.Kind {
	case respond.KindRedirect:
		respond.WriteRedirect(w, e)

	case respond.KindFullPage:
		a.writeFullPage(w, r, ctx, e)

	case respond.KindFragments:
		a.writeFragments(w, r, ctx, e)

	default:
		if ctx.status != 0 && (e.Status == 0 || e.Status == http.StatusOK) {
			e.Status = ctx.status
		}
		if err := respond.WritePassthrough(w, r, e); err != nil {
			a.log.Debug("passthrough write failed", "path", r.URL.Path, "error", err)
		}
	}
}

// writeFullPage renders a document response. Rendering is buffered, so
// a failure maps to a clean 500 with nothing flushed. Content that is
// not already a full document is wrapped in the page shell, unless the
// handler marked it partial.
func (a *App) writeFullPage(w http.ResponseWriter, r *http.Request, ctx *Ctx, e *respond.Envelope) {
	node := e.Node
	if !e.Partial && !render.IsFullPage(node) {
		node = a.cfg.Page.Build(node)
	}

	var buf bytes.Buffer
	if err := a.renderer.Write(&buf, node); err != nil {
		a.writeError(w, r, ctx, err)
		return
	}

	e.Apply(w.Header())
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	status := ctx.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		a.log.Debug("page write failed", "path", r.URL.Path, "error", err)
	}
}

// writeFragments delivers an event-stream response. Single-merge
// responses are encoded before the stream opens, so render failures
// still map to a clean 500. Producers stream frame by frame; once the
// first frame is out, errors terminate the stream and are only logged.
func (a *App) writeFragments(w http.ResponseWriter, r *http.Request, ctx *Ctx, e *respond.Envelope) {
	// The stream declares the marker dependency itself.
	e.Vary = false
	e.Apply(w.Header())

	if e.Producer == nil {
		enc := datastar.NewEncoder(datastar.WithRenderer(a.renderer))
		if err := enc.EncodeFragment(datastar.Fragment{Node: e.Node}); err != nil {
			a.writeError(w, r, ctx, err)
			return
		}
		datastar.WriteSSEHeaders(w.Header())
		w.Header().Add("Vary", datastar.HeaderRequest)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(enc.Bytes()); err != nil {
			a.log.Debug("fragment write failed", "path", r.URL.Path, "error", err)
		}
		return
	}

	stream := datastar.NewStream(w, r, datastar.WithRenderer(a.renderer))
	if err := e.Producer(stream); err != nil {
		if errors.Is(err, datastar.ErrInterrupted) {
			a.log.Debug("stream interrupted",
				"path", r.URL.Path, "frames", stream.Frames())
		} else {
			a.log.Error("stream producer failed",
				"path", r.URL.Path, "frames", stream.Frames(), "error", err)
		}
	}
}

// writeError maps an error to a transport status and a client-safe
// body. 4xx messages are shown to the client; 5xx responses carry only
// the status text, with details going to the log.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, ctx *Ctx, err error) {
	status := errorStatus(err)

	if status >= http.StatusInternalServerError {
		a.log.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		a.log.Debug("request rejected",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	a.finishHeaders(w, r, ctx)

	if page := a.errorPages[status]; page != nil {
		if node := page(ctx, err); node != nil {
			if !render.IsFullPage(node) {
				node = a.cfg.Page.Build(node)
			}
			var buf bytes.Buffer
			rerr := a.renderer.Write(&buf, node)
			if rerr == nil {
				if w.Header().Get("Content-Type") == "" {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
				}
				w.WriteHeader(status)
				w.Write(buf.Bytes())
				return
			}
			a.log.Error("error page render failed", "status", status, "error", rerr)
		}
	}

	http.Error(w, publicMessage(status, err), status)
}

// finishHeaders saves the session and applies handler headers, exactly
// once per request. Must run before the first WriteHeader so the
// session cookie and accumulated headers make it out.
func (a *App) finishHeaders(w http.ResponseWriter, r *http.Request, ctx *Ctx) {
	if ctx.finished {
		return
	}
	ctx.finished = true
	if err := a.sessions.Save(w, r, ctx.sess); err != nil {
		a.log.Error("session save failed", "path", r.URL.Path, "error", err)
	}
	ctx.headers.Apply(w.Header())
}

// errorStatus maps an error to its transport status: typed errors carry
// their own code, auth sentinels map to 401/403, everything else is a
// 500.
func errorStatus(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if code, ok := auth.StatusCode(err); ok {
		return code
	}
	return http.StatusInternalServerError
}

// publicMessage is the response body for plain error responses.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// isNilValue treats typed-nil beforeware returns like an absent
// response, matching the untyped nil case.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
