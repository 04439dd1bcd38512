package bind

import (
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestSpecRejectsNonFunctions(t *testing.T) {
	b := NewBinder()
	for _, fn := range []any{nil, 42, "handler", struct{}{}} {
		if _, err := b.Spec(fn); err == nil {
			t.Errorf("expected error for %T", fn)
		}
	}
}

func TestSpecReturnShapes(t *testing.T) {
	b := NewBinder()
	tests := []struct {
		name    string
		fn      any
		wantErr bool
	}{
		{"none", func() {}, false},
		{"value", func() int { return 0 }, false},
		{"error only", func() error { return nil }, false},
		{"value and error", func() (int, error) { return 0, nil }, false},
		{"second not error", func() (int, string) { return 0, "" }, true},
		{"three results", func() (int, int, error) { return 0, 0, nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Spec(tt.fn)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSpecFieldNaming(t *testing.T) {
	type params struct {
		Query   string `param:"q"`
		Page    int
		Skipped string `param:"-"`
		hidden  string
	}

	b := NewBinder()
	s, err := b.Spec(func(p params) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := s.args[0].fields
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].name != "q" {
		t.Errorf("got %q, want %q", fields[0].name, "q")
	}
	if fields[1].name != "page" {
		t.Errorf("got %q, want %q", fields[1].name, "page")
	}
}

func TestSpecWrapperFields(t *testing.T) {
	type params struct {
		Theme     Cookie[string] `param:"theme"`
		UserAgent Header[string] `param:"user_agent"`
		Count     Header[int]    `param:"x_count"`
	}
	b := NewBinder()
	s, err := b.Spec(func(p params) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := s.args[0].fields

	if fields[0].src != sourceCookie {
		t.Error("cookie wrapper not detected")
	}
	if fields[1].src != sourceHeader {
		t.Error("header wrapper not detected")
	}
	if fields[1].headerName != "user-agent" {
		t.Errorf("got %q, want %q", fields[1].headerName, "user-agent")
	}
	if fields[2].headerName != "x-count" {
		t.Errorf("got %q, want %q", fields[2].headerName, "x-count")
	}
	if fields[2].inner != reflect.TypeOf(0) {
		t.Errorf("inner type: got %s, want int", fields[2].inner)
	}
}

func TestSpecDefaultsPrecoerced(t *testing.T) {
	type good struct {
		Page int `default:"3"`
	}
	b := NewBinder()
	s, err := b.Spec(func(p good) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := s.args[0].fields[0]
	if !f.hasDefault || f.defaultVal.Interface().(int) != 3 {
		t.Errorf("default not precoerced: %+v", f.hasDefault)
	}

	type bad struct {
		Page int `default:"soon"`
	}
	if _, err := b.Spec(func(p bad) {}); err == nil {
		t.Fatal("expected registration error for bad default")
	} else if !strings.Contains(err.Error(), "Page") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestSpecEmbeddedFlattening(t *testing.T) {
	type paging struct {
		Page int `default:"1"`
		Size int `default:"20"`
	}
	type params struct {
		paging
		Query string `param:"q"`
	}
	b := NewBinder()
	s, err := b.Spec(func(p params) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := s.args[0].fields
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}
	if fields[0].name != "page" || len(fields[0].index) != 2 {
		t.Errorf("embedded field not flattened: %q %v", fields[0].name, fields[0].index)
	}
	if fields[2].name != "q" {
		t.Errorf("got %q, want %q", fields[2].name, "q")
	}
}

func TestSpecReservedArguments(t *testing.T) {
	b := NewBinder()
	s, err := b.Spec(func(r *http.Request) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.args[0].reserved {
		t.Error("*http.Request argument not reserved")
	}

	type ctx struct{ val string }
	b2 := NewBinder(ReservedType((*ctx)(nil), "ctx"))
	s2, err := b2.Spec(func(c *ctx) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s2.args[0].reserved {
		t.Error("registered type not reserved")
	}
}

func TestSpecReservedFieldByName(t *testing.T) {
	b := NewBinder()
	type params struct {
		Request any
		Query   string `param:"q"`
	}
	s, err := b.Spec(func(p params) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := s.args[0].fields[0]
	if !f.reserved || f.reservedName != "request" {
		t.Errorf("any-typed request field not reserved by name: %+v", f.reserved)
	}
}

func TestSpecRejectsUnsupportedArguments(t *testing.T) {
	b := NewBinder()
	for _, fn := range []any{
		func(n int) {},
		func(s string) {},
		func(ch chan int) {},
	} {
		if _, err := b.Spec(fn); err == nil {
			t.Errorf("expected error for %T", fn)
		}
	}
}

func TestSpecFileFields(t *testing.T) {
	type upload struct {
		Doc    *multipart.FileHeader
		Images []*multipart.FileHeader
	}
	b := NewBinder()
	s, err := b.Spec(func(p upload) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := s.args[0].fields
	if !fields[0].isFile {
		t.Error("single file field not detected")
	}
	if !fields[1].isFileSlice {
		t.Error("file slice field not detected")
	}
}

func TestSpecPointerStructArgument(t *testing.T) {
	type params struct {
		Query string `param:"q"`
	}
	b := NewBinder()
	s, err := b.Spec(func(p *params) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.args[0].isPtr {
		t.Error("pointer data struct not detected")
	}
}

func TestMustSpecPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewBinder().MustSpec(42)
}
