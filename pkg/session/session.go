package session

import (
	"encoding/json"
	"fmt"
)

// Session is one request's view of the visitor's session. Reads and
// writes go to an in-memory map; nothing touches the cookie or store
// until the dispatcher calls Sessions.Save at the end of the request.
// A Session is not safe for concurrent use; each request gets its own.
type Session struct {
	id        string
	values    map[string]any
	fresh     bool
	dirty     bool
	destroyed bool
}

func newSession(id string, values map[string]any, fresh bool) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{id: id, values: values, fresh: fresh}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Fresh reports whether this session was created on this request rather
// than restored from the client.
func (s *Session) Fresh() bool {
	return s.fresh
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string under key, or "" when absent or not a
// string.
func (s *Session) GetString(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the integer under key. Values restored from the cookie
// come back as JSON numbers, so float64 is accepted too.
func (s *Session) GetInt(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// GetBool returns the boolean under key, or false.
func (s *Session) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// Unmarshal decodes a structured value stored under key into dst.
func (s *Session) Unmarshal(key string, dst any) error {
	v, ok := s.values[key]
	if !ok {
		return fmt.Errorf("session: no value under %q", key)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: value under %q: %w", key, err)
	}
	return json.Unmarshal(raw, dst)
}

// Set stores a value. It must be JSON-encodable or saving will fail.
func (s *Session) Set(key string, value any) {
	s.values[key] = value
	s.dirty = true
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Clear removes every value but keeps the session alive.
func (s *Session) Clear() {
	if len(s.values) > 0 {
		s.dirty = true
	}
	s.values = make(map[string]any)
}

// Destroy empties the session and marks it for removal: the cookie is
// expired and any server-side state deleted on save.
func (s *Session) Destroy() {
	s.values = make(map[string]any)
	s.destroyed = true
	s.dirty = true
}

// Destroyed reports whether Destroy was called.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Dirty reports whether the session changed this request.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Len returns the number of stored values.
func (s *Session) Len() int {
	return len(s.values)
}

// Values returns a copy of the stored values.
func (s *Session) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
