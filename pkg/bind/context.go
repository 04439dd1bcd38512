package bind

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
)

// BodyKind is the single body-parse strategy chosen for a request.
type BodyKind uint8

const (
	// BodyNone means the request carries no parseable body.
	BodyNone BodyKind = iota

	// BodyForm means urlencoded or multipart form fields (and files).
	BodyForm

	// BodyJSON means a single JSON document.
	BodyJSON
)

// String returns a short name for the body kind.
func (k BodyKind) String() string {
	switch k {
	case BodyForm:
		return "form"
	case BodyJSON:
		return "json"
	default:
		return "none"
	}
}

// maxFormMemory bounds the in-memory portion of multipart parsing;
// larger file parts spill to disk.
const maxFormMemory = 32 << 20

// RequestContext is the read-only view of one request that resolution
// draws from: path captures, query, headers, cookies, the lazily parsed
// body, and the framework objects reserved parameters bind to. The body
// is parsed at most once, on first need, with exactly one strategy.
type RequestContext struct {
	req       *http.Request
	pathValue func(string) string
	query     url.Values

	bodyOnce sync.Once
	body     bodyData

	objects []reservedObject
}

type bodyData struct {
	kind  BodyKind
	form  url.Values
	files map[string][]*multipart.FileHeader
	json  map[string]json.RawMessage
	raw   []byte
	err   error
}

type reservedObject struct {
	name  string
	value any
}

// NewRequestContext builds the resolution view of a request. pathValue
// looks up a path capture by name; nil means the route has none. The
// request itself is always available under the reserved name "request".
func NewRequestContext(r *http.Request, pathValue func(string) string) *RequestContext {
	if pathValue == nil {
		pathValue = func(string) string { return "" }
	}
	rc := &RequestContext{
		req:       r,
		pathValue: pathValue,
		query:     r.URL.Query(),
	}
	rc.Provide("request", r)
	return rc
}

// Provide registers a framework object for reserved-parameter binding.
// Objects match by declared type first; name is the fallback for
// parameters declared as plain any.
func (rc *RequestContext) Provide(name string, value any) {
	rc.objects = append(rc.objects, reservedObject{name: name, value: value})
}

// Request returns the underlying request.
func (rc *RequestContext) Request() *http.Request {
	return rc.req
}

// Path returns the path capture for name.
func (rc *RequestContext) Path(name string) (string, bool) {
	v := rc.pathValue(name)
	return v, v != ""
}

// Query returns all query values for name in submission order.
func (rc *RequestContext) Query(name string) ([]string, bool) {
	vs, ok := rc.query[name]
	return vs, ok
}

// Cookie returns the named cookie's value.
func (rc *RequestContext) Cookie(name string) (string, bool) {
	c, err := rc.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Header returns the named header. Lookup canonicalizes, so callers pass
// either wire or canonical form.
func (rc *RequestContext) Header(name string) (string, bool) {
	vs := rc.req.Header.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Form returns all form field values for name. Parsing the body happens
// here on first use.
func (rc *RequestContext) Form(name string) ([]string, bool) {
	rc.parseBody()
	if rc.body.kind != BodyForm {
		return nil, false
	}
	vs, ok := rc.body.form[name]
	return vs, ok
}

// JSONField returns the raw top-level JSON body field for name.
func (rc *RequestContext) JSONField(name string) (json.RawMessage, bool) {
	rc.parseBody()
	if rc.body.kind != BodyJSON {
		return nil, false
	}
	raw, ok := rc.body.json[name]
	return raw, ok
}

// Files returns the uploaded files for name. The second return is false
// when the body is not multipart or carries no such part.
func (rc *RequestContext) Files(name string) ([]*multipart.FileHeader, bool) {
	rc.parseBody()
	fhs, ok := rc.body.files[name]
	return fhs, ok && len(fhs) > 0
}

// BodyKind reports which parse strategy the request body selected.
func (rc *RequestContext) BodyKind() BodyKind {
	rc.parseBody()
	return rc.body.kind
}

// BodyRaw returns the raw JSON body, nil for non-JSON bodies.
func (rc *RequestContext) BodyRaw() []byte {
	rc.parseBody()
	return rc.body.raw
}

// BodyErr returns the memoized body parse failure, if any.
func (rc *RequestContext) BodyErr() error {
	rc.parseBody()
	return rc.body.err
}

// parseBody chooses and runs the body parse exactly once.
func (rc *RequestContext) parseBody() {
	rc.bodyOnce.Do(func() {
		rc.body = parseRequestBody(rc.req)
	})
}

func parseRequestBody(r *http.Request) bodyData {
	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return bodyData{kind: BodyNone}
	}

	ct := r.Header.Get("Content-Type")
	mediaType := ct
	if ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			mediaType = mt
		}
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return bodyData{kind: BodyForm, err: fmt.Errorf("bind: parse form: %w", err)}
		}
		return bodyData{kind: BodyForm, form: r.PostForm}

	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return bodyData{kind: BodyForm, err: fmt.Errorf("bind: parse multipart form: %w", err)}
		}
		data := bodyData{kind: BodyForm, form: r.PostForm}
		if r.MultipartForm != nil {
			data.files = r.MultipartForm.File
		}
		return data

	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return bodyData{kind: BodyJSON, err: fmt.Errorf("bind: read body: %w", err)}
		}
		data := bodyData{kind: BodyJSON, raw: raw}
		if len(raw) > 0 {
			fields := make(map[string]json.RawMessage)
			if err := json.Unmarshal(raw, &fields); err != nil {
				// Non-object documents still bind whole-body parameters.
				data.json = nil
			} else {
				data.json = fields
			}
		}
		return data

	default:
		return bodyData{kind: BodyNone}
	}
}

// reserved finds a provided object assignable to t. A nil or empty
// interface type skips type matching; name is then the only key.
func (rc *RequestContext) reserved(t reflect.Type, name string) (any, bool) {
	typed := t != nil && !(t.Kind() == reflect.Interface && t.NumMethod() == 0)
	if typed {
		for _, obj := range rc.objects {
			if obj.value == nil {
				continue
			}
			if reflect.TypeOf(obj.value).AssignableTo(t) {
				return obj.value, true
			}
		}
	}
	if name != "" {
		for _, obj := range rc.objects {
			if obj.name == name {
				return obj.value, true
			}
		}
	}
	return nil, false
}
