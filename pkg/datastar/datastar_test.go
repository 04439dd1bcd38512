package datastar

import (
	"net/http/httptest"
	"testing"
)

func TestIsReactive(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{
			name:    "no markers",
			headers: nil,
			want:    false,
		},
		{
			name:    "marker present",
			headers: map[string]string{HeaderRequest: "true"},
			want:    true,
		},
		{
			name:    "marker with wrong value",
			headers: map[string]string{HeaderRequest: "1"},
			want:    false,
		},
		{
			name: "history restore suppresses marker",
			headers: map[string]string{
				HeaderRequest:        "true",
				HeaderHistoryRestore: "true",
			},
			want: false,
		},
		{
			name:    "history restore alone",
			headers: map[string]string{HeaderHistoryRestore: "true"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := IsReactive(r); got != tt.want {
				t.Errorf("IsReactive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsHistoryRestore(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if IsHistoryRestore(r) {
		t.Error("unmarked request classified as history restore")
	}
	r.Header.Set(HeaderHistoryRestore, "true")
	if !IsHistoryRestore(r) {
		t.Error("marked request not classified as history restore")
	}
}

func TestMergeModeValid(t *testing.T) {
	valid := []MergeMode{
		ModeMorph, ModeInner, ModeOuter, ModePrepend, ModeAppend,
		ModeBefore, ModeAfter, ModeReplace, ModeRemove,
	}
	for _, m := range valid {
		if !m.Valid() {
			t.Errorf("%s reported invalid", m)
		}
	}

	invalid := []MergeMode{"", "Morph", "MORPH", "sideways", "inner "}
	for _, m := range invalid {
		if m.Valid() {
			t.Errorf("%q reported valid", string(m))
		}
	}
}

func TestNilRequestMarkers(t *testing.T) {
	if IsReactive(nil) {
		t.Error("IsReactive(nil) = true")
	}
	if IsHistoryRestore(nil) {
		t.Error("IsHistoryRestore(nil) = true")
	}
}
