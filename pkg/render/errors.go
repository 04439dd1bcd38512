package render

import "fmt"

// Error reports a node that could not be serialized, such as an attribute
// holding a value with no HTML representation. It maps to a server error
// at the dispatch boundary and is never partially flushed for buffered
// responses.
type Error struct {
	Tag  string // element tag being rendered
	Attr string // offending attribute, if any
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("render <%s> attribute %q: %v", e.Tag, e.Attr, e.Err)
	}
	return fmt.Sprintf("render <%s>: %v", e.Tag, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
