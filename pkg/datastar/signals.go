package datastar

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Signals is an outbound signal patch: dot-path keys mapped to
// JSON-encodable values. Keys nest on dots, so {"user.name": "ada"}
// merges as {"user": {"name": "ada"}}. Keys must be non-empty; values
// must survive JSON encoding. Serialization is deterministic: keys are
// applied in sorted order.
type Signals map[string]any

// marshal produces the single JSON document for the signals data line.
func (s Signals) marshal() ([]byte, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		if k == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidSignals)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw := []byte("{}")
	var err error
	for _, k := range keys {
		raw, err = sjson.SetBytes(raw, k, s[k])
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidSignals, k, err)
		}
	}
	return raw, nil
}

// queryParam is where the reactive client puts its signal snapshot on
// requests without a body.
const queryParam = "datastar"

// IncomingSignals is the client's signal snapshot attached to a request.
// The zero value is an empty snapshot.
type IncomingSignals struct {
	raw []byte
}

// ParseSignals validates a raw signal document. A nil or empty document
// parses to an empty snapshot.
func ParseSignals(raw []byte) (*IncomingSignals, error) {
	if len(raw) == 0 {
		return &IncomingSignals{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed JSON document", ErrInvalidSignals)
	}
	return &IncomingSignals{raw: raw}, nil
}

// ReadSignals extracts the client's signal snapshot from a request: the
// "datastar" query parameter for GET requests, the JSON body otherwise.
// It consumes the body; inside a handler, prefer the snapshot the
// framework resolves for you, which shares the memoized body.
func ReadSignals(r *http.Request) (*IncomingSignals, error) {
	if r.Method == http.MethodGet {
		return ParseSignals([]byte(r.URL.Query().Get(queryParam)))
	}
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		return &IncomingSignals{}, nil
	}
	if r.Body == nil {
		return &IncomingSignals{}, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrInvalidSignals, err)
	}
	return ParseSignals(raw)
}

// Get returns the value at a dot path.
func (in *IncomingSignals) Get(path string) gjson.Result {
	if in == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(in.raw, path)
}

// Exists reports whether a value is present at a dot path.
func (in *IncomingSignals) Exists(path string) bool {
	return in.Get(path).Exists()
}

// Raw returns the underlying JSON document. Nil for an empty snapshot.
func (in *IncomingSignals) Raw() []byte {
	if in == nil {
		return nil
	}
	return in.raw
}

// Empty reports whether the snapshot carries no document.
func (in *IncomingSignals) Empty() bool {
	return in == nil || len(in.raw) == 0
}

// Unmarshal decodes the whole snapshot into dst.
func (in *IncomingSignals) Unmarshal(dst any) error {
	if in.Empty() {
		return nil
	}
	if err := json.Unmarshal(in.raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignals, err)
	}
	return nil
}
