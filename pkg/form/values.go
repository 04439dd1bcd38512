package form

import (
	"reflect"
	"strings"
)

// valuesOf flattens a struct or map into the name→value mapping Fill
// consumes. Struct fields use their `form` tag when present, else the
// lowercased field name; a tag of "-" excludes the field.
func valuesOf(values any) map[string]any {
	if values == nil {
		return nil
	}
	if m, ok := values.(map[string]any); ok {
		return m
	}

	rv := reflect.ValueOf(values)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	out := make(map[string]any, rv.NumField())
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("form")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		out[name] = rv.Field(i).Interface()
	}
	return out
}
