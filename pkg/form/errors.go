package form

import "github.com/lumenkit/lumen/pkg/html"

// Rules maps field names to their validators.
type Rules map[string][]Validator

// Errors holds validation failures keyed by field name.
type Errors map[string][]string

// Validate runs every rule against the matching value and collects the
// failures. Missing fields validate as empty values, so only Required
// catches them.
func Validate(values any, rules Rules) Errors {
	obj := valuesOf(values)
	errs := make(Errors)
	for field, validators := range rules {
		for _, v := range validators {
			if err := v(obj[field]); err != nil {
				errs[field] = append(errs[field], err.Error())
			}
		}
	}
	return errs
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Field returns the messages for one field.
func (e Errors) Field(name string) []string { return e[name] }

// Add records a failure outside the validator run, e.g. a uniqueness
// check against storage.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Node renders one field's messages as a fragment-friendly container:
//
//	<div id="name-errors" class="field-errors">
//	    <span class="field-error">...</span>
//	</div>
//
// The id lets reactive handlers morph the container in place; an empty
// message list renders the empty container, clearing earlier errors.
func (e Errors) Node(field string) *html.Node {
	children := []any{html.ID(field + "-errors"), html.Class("field-errors")}
	for _, msg := range e[field] {
		children = append(children, html.Span(html.Class("field-error"), html.Text(msg)))
	}
	return html.Div(children...)
}
