package bind

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
)

// source is the inferred binding source for a struct field.
type source uint8

const (
	// sourceAuto walks the standard chain: path capture, nested record,
	// query, body field, default.
	sourceAuto source = iota

	// sourceCookie reads only the cookie of the binding name.
	sourceCookie

	// sourceHeader reads only the header derived from the binding name.
	sourceHeader
)

// Reserved declares a framework object type that handlers receive
// directly instead of binding from request data. Name is the fallback
// key for struct fields declared as plain any.
type Reserved struct {
	Type reflect.Type
	Name string
}

// ReservedType builds a Reserved entry from a value of the target type.
// Use a typed nil for pointers and a pointer-to-interface for interfaces:
//
//	bind.ReservedType((*http.Request)(nil), "request")
//	bind.ReservedType((*lumen.Ctx)(nil), "ctx")
func ReservedType(v any, name string) Reserved {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	return Reserved{Type: t, Name: name}
}

// Binder turns handler functions into cached parameter specs. Reserved
// types are fixed at construction; the binder itself is stateless and
// safe for concurrent use.
type Binder struct {
	reserved []Reserved
}

// NewBinder creates a binder. *http.Request is always reserved under the
// name "request"; callers add their own framework types.
func NewBinder(reserved ...Reserved) *Binder {
	all := make([]Reserved, 0, len(reserved)+1)
	all = append(all, Reserved{Type: reflect.TypeOf((*http.Request)(nil)), Name: "request"})
	all = append(all, reserved...)
	return &Binder{reserved: all}
}

// Spec is the cached binding plan for one handler: built once at
// registration, immutable, and safe for concurrent resolution.
type Spec struct {
	fn     reflect.Value
	args   []argSpec
	numOut int
	errOut bool
}

type argSpec struct {
	typ       reflect.Type
	reserved  bool
	isPtr     bool
	structTyp reflect.Type
	fields    []fieldSpec
}

type fieldSpec struct {
	index      []int
	name       string
	headerName string
	typ        reflect.Type

	src source

	// wrapper holds the Cookie/Header instantiation; inner its payload.
	inner reflect.Type

	conv     converter
	elemConv converter

	isBool      bool
	isSlice     bool
	isFile      bool
	isFileSlice bool
	optional    bool

	reserved     bool
	reservedName string

	isStruct bool
	nested   []fieldSpec

	hasDefault bool
	defaultVal reflect.Value
}

var (
	fileHeaderType      = reflect.TypeOf((*multipart.FileHeader)(nil))
	fileHeaderSliceType = reflect.TypeOf([]*multipart.FileHeader(nil))
	errorType           = reflect.TypeOf((*error)(nil)).Elem()
	sourcedType         = reflect.TypeOf((*sourced)(nil)).Elem()
)

// Spec builds the binding plan for fn. Handlers take any mix of reserved
// framework objects and data structs; they return nothing, a value, an
// error, or a value and an error.
func (b *Binder) Spec(fn any) (*Spec, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("bind: handler must be a function, got %T", fn)
	}
	t := v.Type()

	s := &Spec{fn: v, numOut: t.NumOut()}
	switch s.numOut {
	case 0, 1:
		s.errOut = s.numOut == 1 && t.Out(0) == errorType
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("bind: handler's second return must be error, got %s", t.Out(1))
		}
		s.errOut = true
	default:
		return nil, fmt.Errorf("bind: handler returns %d values, want at most 2", s.numOut)
	}

	for i := 0; i < t.NumIn(); i++ {
		arg, err := b.buildArg(t.In(i))
		if err != nil {
			return nil, fmt.Errorf("bind: handler parameter %d: %w", i+1, err)
		}
		s.args = append(s.args, arg)
	}
	return s, nil
}

// MustSpec is Spec for registration paths where a bad handler is a
// programming error.
func (b *Binder) MustSpec(fn any) *Spec {
	s, err := b.Spec(fn)
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Binder) isReserved(t reflect.Type) bool {
	for _, r := range b.reserved {
		if r.Type == t {
			return true
		}
	}
	return false
}

func (b *Binder) reservedName(t reflect.Type, fieldName string) string {
	if t.Kind() != reflect.Interface || t.NumMethod() != 0 {
		return ""
	}
	for _, r := range b.reserved {
		if r.Name != "" && r.Name == fieldName {
			return r.Name
		}
	}
	return ""
}

func (b *Binder) buildArg(t reflect.Type) (argSpec, error) {
	if b.isReserved(t) {
		return argSpec{typ: t, reserved: true}, nil
	}

	st := t
	isPtr := st.Kind() == reflect.Pointer
	if isPtr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return argSpec{}, fmt.Errorf("unsupported type %s (not a reserved object or data struct)", t)
	}

	fields, err := b.buildFields(st)
	if err != nil {
		return argSpec{}, err
	}
	return argSpec{typ: t, isPtr: isPtr, structTyp: st, fields: fields}, nil
}

// buildFields walks a data struct's exported fields, flattening untagged
// embedded structs, and precomputes each field's binding plan.
func (b *Binder) buildFields(st reflect.Type) ([]fieldSpec, error) {
	var fields []fieldSpec
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.PkgPath != "" {
			continue
		}

		if field.Anonymous && field.Tag.Get("param") == "" &&
			field.Type.Kind() == reflect.Struct && !isLeafStruct(field.Type) {
			sub, err := b.buildFields(field.Type)
			if err != nil {
				return nil, err
			}
			for _, f := range sub {
				f.index = append([]int{i}, f.index...)
				fields = append(fields, f)
			}
			continue
		}

		f, err := b.buildField(field)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		f.index = []int{i}
		fields = append(fields, *f)
	}
	return fields, nil
}

func (b *Binder) buildField(field reflect.StructField) (*fieldSpec, error) {
	name := field.Tag.Get("param")
	if name == "-" {
		return nil, nil
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	f := &fieldSpec{name: name, typ: field.Type}

	// Cookie and Header wrappers bind from exactly one source.
	if field.Type.Implements(sourcedType) {
		zero := reflect.Zero(field.Type).Interface().(sourced)
		f.src = zero.bindSource()
		valueField, ok := field.Type.FieldByName("Value")
		if !ok {
			return nil, fmt.Errorf("field %s: wrapper missing Value", field.Name)
		}
		f.inner = valueField.Type
		f.conv = newConverter(f.inner)
		if f.conv == nil {
			return nil, fmt.Errorf("field %s: %s is not coercible from text", field.Name, f.inner)
		}
		f.headerName = strings.ReplaceAll(name, "_", "-")
		if err := b.applyDefault(f, field); err != nil {
			return nil, err
		}
		return f, nil
	}

	if b.isReserved(field.Type) {
		f.reserved = true
		return f, nil
	}
	if rn := b.reservedName(field.Type, name); rn != "" {
		f.reserved = true
		f.reservedName = rn
		return f, nil
	}

	switch field.Type {
	case fileHeaderType:
		f.isFile = true
		return f, nil
	case fileHeaderSliceType:
		f.isFileSlice = true
		return f, nil
	}

	f.optional = field.Type.Kind() == reflect.Pointer
	f.isBool = field.Type.Kind() == reflect.Bool

	if conv := newConverter(field.Type); conv != nil {
		f.conv = conv
		if err := b.applyDefault(f, field); err != nil {
			return nil, err
		}
		return f, nil
	}

	if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() != reflect.Uint8 {
		if elemConv := newConverter(field.Type.Elem()); elemConv != nil {
			f.isSlice = true
			f.elemConv = elemConv
			return f, nil
		}
	}

	st := field.Type
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		nested, err := b.buildFields(st)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		f.isStruct = true
		f.nested = nested
		return f, nil
	}

	// Anything else binds only from a JSON body field.
	return f, nil
}

// applyDefault pre-coerces the default tag at registration so a bad
// default fails startup, not a request.
func (b *Binder) applyDefault(f *fieldSpec, field reflect.StructField) error {
	raw, ok := field.Tag.Lookup("default")
	if !ok {
		return nil
	}
	v, err := f.conv(raw)
	if err != nil {
		return fmt.Errorf("field %s: bad default %q: %v", field.Name, raw, err)
	}
	if f.inner != nil {
		w := reflect.New(f.typ).Elem()
		w.FieldByName("Value").Set(v)
		v = w
	}
	f.hasDefault = true
	f.defaultVal = v
	return nil
}

// isLeafStruct reports struct types treated as scalars, not records.
func isLeafStruct(t reflect.Type) bool {
	return t == timeType || t.Implements(sourcedType)
}
