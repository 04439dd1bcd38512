package bind

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Resolve produces the argument list for the handler from one request.
// Each data-struct field walks the source chain fixed at registration:
// reserved object, path capture, nested record, cookie or header for
// wrapped fields, query, body field, declared default.
func (s *Spec) Resolve(rc *RequestContext) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(s.args))
	for _, arg := range s.args {
		v, err := s.resolveArg(&arg, rc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// Call resolves arguments and invokes the handler. The first return is
// the handler's value result, if it declares one.
func (s *Spec) Call(rc *RequestContext) (any, error) {
	args, err := s.Resolve(rc)
	if err != nil {
		return nil, err
	}
	results := s.fn.Call(args)

	var out any
	var callErr error
	if s.errOut {
		if e := results[len(results)-1]; !e.IsNil() {
			callErr = e.Interface().(error)
		}
		results = results[:len(results)-1]
	}
	if len(results) == 1 {
		out = results[0].Interface()
	}
	return out, callErr
}

func (s *Spec) resolveArg(arg *argSpec, rc *RequestContext) (reflect.Value, error) {
	if arg.reserved {
		if v, ok := rc.reserved(arg.typ, ""); ok {
			return reflect.ValueOf(v), nil
		}
		return reflect.Zero(arg.typ), nil
	}

	sv := reflect.New(arg.structTyp).Elem()
	for i := range arg.fields {
		f := &arg.fields[i]
		v, err := resolveField(f, rc, "")
		if err != nil {
			return reflect.Value{}, err
		}
		if v.IsValid() {
			sv.FieldByIndex(f.index).Set(v)
		}
	}
	if arg.isPtr {
		return sv.Addr(), nil
	}
	return sv, nil
}

// resolveField returns the field's value, an invalid value to keep the
// zero value, or an error. prefix carries the dotted path for nested
// record fields so errors name the full parameter.
func resolveField(f *fieldSpec, rc *RequestContext, prefix string) (reflect.Value, error) {
	name := f.name
	if prefix != "" {
		name = prefix + "." + f.name
	}

	if f.reserved {
		if v, ok := rc.reserved(f.typ, f.reservedName); ok {
			return reflect.ValueOf(v), nil
		}
		return reflect.Value{}, nil
	}

	switch f.src {
	case sourceCookie:
		if raw, ok := rc.Cookie(f.name); ok {
			return f.wrap(name, raw)
		}
		return f.finish(name, "no cookie %q", f.name)
	case sourceHeader:
		if raw, ok := rc.Header(f.headerName); ok {
			return f.wrap(name, raw)
		}
		return f.finish(name, "no header %q", f.headerName)
	}

	if f.isFile || f.isFileSlice {
		return resolveFile(f, rc, name)
	}

	if f.conv != nil || f.isSlice {
		if raw, ok := rc.Path(f.name); ok {
			if f.isSlice {
				return f.coerceSlice(name, strings.Split(raw, "/"))
			}
			return f.coerce(name, raw)
		}
	}

	if f.isStruct {
		return resolveRecord(f, rc, name)
	}

	if vs, ok := rc.Query(f.name); ok && len(vs) > 0 {
		if f.isSlice {
			return f.coerceSlice(name, vs)
		}
		if f.conv != nil {
			return f.coerce(name, vs[0])
		}
	}

	switch rc.BodyKind() {
	case BodyForm:
		if vs, ok := rc.Form(f.name); ok && len(vs) > 0 {
			if f.isSlice {
				return f.coerceSlice(name, vs)
			}
			if f.conv != nil {
				return f.coerce(name, vs[0])
			}
		}
	case BodyJSON:
		if raw, ok := rc.JSONField(f.name); ok {
			return f.unmarshalJSON(name, raw)
		}
	}

	return f.finish(name, "no value in path, query, body, or defaults")
}

// resolveRecord builds a nested struct field from merged query and form
// values. When nothing matched and the body is JSON, the document field
// of the same name is used instead.
func resolveRecord(f *fieldSpec, rc *RequestContext, name string) (reflect.Value, error) {
	st := f.typ
	isPtr := st.Kind() == reflect.Pointer
	if isPtr {
		st = st.Elem()
	}

	sv := reflect.New(st).Elem()
	found := false
	var firstErr error
	for i := range f.nested {
		nf := &f.nested[i]
		v, err := resolveNestedField(nf, rc, name, &found)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if v.IsValid() {
			sv.FieldByIndex(nf.index).Set(v)
		}
	}

	if !found {
		if rc.BodyKind() == BodyJSON {
			if raw, ok := rc.JSONField(f.name); ok {
				return f.unmarshalJSON(name, raw)
			}
		}
		if firstErr != nil {
			return f.finish(name, "no value in query, form, or body")
		}
	}
	if firstErr != nil {
		return reflect.Value{}, firstErr
	}
	if isPtr {
		return sv.Addr(), nil
	}
	return sv, nil
}

// resolveNestedField is the rule for record members: query, then form,
// then default. found is set when a request value, not a default, bound.
func resolveNestedField(f *fieldSpec, rc *RequestContext, prefix string, found *bool) (reflect.Value, error) {
	name := prefix + "." + f.name

	if vs, ok := rc.Query(f.name); ok && len(vs) > 0 {
		*found = true
		if f.isSlice {
			return f.coerceSlice(name, vs)
		}
		if f.conv != nil {
			return f.coerce(name, vs[0])
		}
	}
	if rc.BodyKind() == BodyForm {
		if vs, ok := rc.Form(f.name); ok && len(vs) > 0 {
			*found = true
			if f.isSlice {
				return f.coerceSlice(name, vs)
			}
			if f.conv != nil {
				return f.coerce(name, vs[0])
			}
		}
	}
	return f.finish(name, "no value in query or form")
}

func resolveFile(f *fieldSpec, rc *RequestContext, name string) (reflect.Value, error) {
	files, ok := rc.Files(f.name)
	if !ok || len(files) == 0 {
		if f.isFileSlice {
			return reflect.MakeSlice(fileHeaderSliceType, 0, 0), nil
		}
		if rc.BodyKind() != BodyForm {
			return reflect.Value{}, &UnresolvedParameterError{Name: name, Reason: "file upload requires a multipart form body"}
		}
		return reflect.Value{}, &UnresolvedParameterError{Name: name, Reason: "no file uploaded under this name"}
	}
	if f.isFileSlice {
		return reflect.ValueOf(files), nil
	}
	return reflect.ValueOf(files[0]), nil
}

// coerce converts one text value into the field's type.
func (f *fieldSpec) coerce(name, raw string) (reflect.Value, error) {
	v, err := f.conv(raw)
	if err != nil {
		return reflect.Value{}, &TypeCoercionError{Name: name, RawValue: raw, TargetType: f.targetType(), Err: err}
	}
	return v, nil
}

func (f *fieldSpec) coerceSlice(name string, raws []string) (reflect.Value, error) {
	out := reflect.MakeSlice(f.typ, 0, len(raws))
	for _, raw := range raws {
		v, err := f.elemConv(raw)
		if err != nil {
			return reflect.Value{}, &TypeCoercionError{Name: name, RawValue: raw, TargetType: f.typ.Elem(), Err: err}
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

// wrap coerces raw and boxes it in the field's Cookie or Header wrapper.
func (f *fieldSpec) wrap(name, raw string) (reflect.Value, error) {
	v, err := f.conv(raw)
	if err != nil {
		return reflect.Value{}, &TypeCoercionError{Name: name, RawValue: raw, TargetType: f.targetType(), Err: err}
	}
	w := reflect.New(f.typ).Elem()
	w.FieldByName("Value").Set(v)
	return w, nil
}

func (f *fieldSpec) unmarshalJSON(name string, raw json.RawMessage) (reflect.Value, error) {
	pv := reflect.New(f.typ)
	if err := json.Unmarshal(raw, pv.Interface()); err != nil {
		return reflect.Value{}, &TypeCoercionError{Name: name, RawValue: string(raw), TargetType: f.typ, Err: err}
	}
	return pv.Elem(), nil
}

// finish ends the chain: the declared default if any, otherwise the
// absence rules. Booleans read as false, slices as empty, pointers as
// nil; everything else is unresolved.
func (f *fieldSpec) finish(name, reason string, args ...any) (reflect.Value, error) {
	if f.hasDefault {
		return f.defaultVal, nil
	}
	if f.isBool {
		// Zero of the declared type, so named bools assign cleanly.
		return reflect.Zero(f.typ), nil
	}
	if f.isSlice {
		return reflect.MakeSlice(f.typ, 0, 0), nil
	}
	if f.optional {
		return reflect.Value{}, nil
	}
	return reflect.Value{}, &UnresolvedParameterError{Name: name, Reason: fmt.Sprintf(reason, args...)}
}

func (f *fieldSpec) targetType() reflect.Type {
	if f.inner != nil {
		return f.inner
	}
	return f.typ
}
