package html

import "testing"

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "id", "id"},
		{"trailing underscore", "type_", "type"},
		{"class alias", "cls", "class"},
		{"klass alias", "klass", "class"},
		{"for alias", "fr", "for"},
		{"htmlFor alias", "htmlFor", "for"},
		{"underscore to hyphen", "aria_label", "aria-label"},
		{"at prefix", "_at_click", "@click"},
		{"ds event", "ds_on_click", "data-on-click"},
		{"ds event multiword", "ds_on_key_down", "data-on-key-down"},
		{"ds intersect modifier", "ds_on_intersect_once", "data-on-intersect.once"},
		{"ds interval modifier", "ds_on_interval_500ms", "data-on-interval.500ms"},
		{"ds attr", "ds_attr_disabled", "data-attr-disabled"},
		{"ds plain", "ds_show", "data-show"},
		{"ds signals", "ds_signals", "data-signals"},
		{"ds multiword", "ds_persist_session", "data-persist-session"},
		{"already canonical", "data-on-click", "data-on-click"},
		{"already canonical data", "data-signals", "data-signals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.in); got != tt.want {
				t.Errorf("CanonicalKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalKeyIdempotent(t *testing.T) {
	keys := []string{"cls", "type_", "ds_on_click", "ds_on_intersect_once", "aria_label", "_at_click"}
	for _, k := range keys {
		once := CanonicalKey(k)
		if twice := CanonicalKey(once); twice != once {
			t.Errorf("CanonicalKey not idempotent for %q: %q then %q", k, once, twice)
		}
	}
}
