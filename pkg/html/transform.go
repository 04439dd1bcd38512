package html

import "strings"

// attrAliases maps identifier-friendly names to their canonical attribute
// names.
var attrAliases = map[string]string{
	"cls":     "class",
	"klass":   "class",
	"fr":      "for",
	"htmlFor": "for",
}

// namedTags are tags that pick up name=id when an id is given and no name
// was set explicitly.
var namedTags = map[string]bool{
	"a":        true,
	"button":   true,
	"fieldset": true,
	"form":     true,
	"iframe":   true,
	"img":      true,
	"input":    true,
	"map":      true,
	"meta":     true,
	"object":   true,
	"output":   true,
	"param":    true,
	"select":   true,
	"textarea": true,
}

// CanonicalKey rewrites an identifier-style attribute name to its wire
// name. The transform is purely syntactic and idempotent:
//
//	cls          -> class
//	type_        -> type
//	_at_click    -> @click
//	aria_label   -> aria-label
//	ds_on_click  -> data-on-click
//	ds_signals   -> data-signals
//	ds_attr_x    -> data-attr-x
func CanonicalKey(key string) string {
	if k, ok := attrAliases[key]; ok {
		return k
	}
	if strings.HasPrefix(key, "_at_") {
		key = "@" + key[len("_at_"):]
	}
	key = strings.TrimSuffix(key, "_")
	if strings.HasPrefix(key, "ds_") {
		return datastarKey(key)
	}
	return strings.ReplaceAll(key, "_", "-")
}

// datastarKey expands the ds_* shorthand family into data-* attribute
// names understood by the reactive client.
func datastarKey(key string) string {
	rest := key[len("ds_"):]
	switch {
	case strings.HasPrefix(rest, "on_"):
		ev := rest[len("on_"):]
		// intersect/interval take runtime modifiers after a dot:
		// ds_on_intersect_once -> data-on-intersect.once
		if i := strings.IndexByte(ev, '_'); i > 0 {
			if base := ev[:i]; base == "intersect" || base == "interval" {
				return "data-on-" + base + "." + ev[i+1:]
			}
		}
		return "data-on-" + strings.ReplaceAll(ev, "_", "-")
	case strings.HasPrefix(rest, "attr_"):
		return "data-attr-" + strings.ReplaceAll(rest[len("attr_"):], "_", "-")
	default:
		return "data-" + strings.ReplaceAll(rest, "_", "-")
	}
}
