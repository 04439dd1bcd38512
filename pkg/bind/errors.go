package bind

import (
	"fmt"
	"net/http"
	"reflect"
)

// UnresolvedParameterError reports a required parameter no source could
// satisfy. It maps to a client error: the request as sent cannot bind.
type UnresolvedParameterError struct {
	Name   string
	Reason string
}

func (e *UnresolvedParameterError) Error() string {
	return fmt.Sprintf("bind: parameter %q unresolved: %s", e.Name, e.Reason)
}

// StatusCode maps the error to 422 at the dispatch boundary.
func (e *UnresolvedParameterError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// TypeCoercionError reports a raw value that was present but could not be
// converted to the parameter's declared type.
type TypeCoercionError struct {
	Name       string
	RawValue   string
	TargetType reflect.Type
	Err        error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("bind: parameter %q: cannot coerce %q to %s", e.Name, e.RawValue, e.TargetType)
}

// StatusCode maps the error to 422 at the dispatch boundary.
func (e *TypeCoercionError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func (e *TypeCoercionError) Unwrap() error {
	return e.Err
}
