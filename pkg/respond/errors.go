package respond

import (
	"fmt"
	"net/http"
)

// UnsupportedReturnValueError reports a handler return value the
// classifier cannot interpret. It is a server-side programming error.
type UnsupportedReturnValueError struct {
	Value any
}

func (e *UnsupportedReturnValueError) Error() string {
	return fmt.Sprintf("respond: cannot classify handler return value of type %T", e.Value)
}

// StatusCode maps the error to 500 at the dispatch boundary.
func (e *UnsupportedReturnValueError) StatusCode() int {
	return http.StatusInternalServerError
}
