package html

import "reflect"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Escaped text node
	KindRaw                   // Pre-rendered markup, emitted verbatim
	KindGroup                 // Grouping without a wrapper element
	KindComponent             // Deferred node-producing object
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	case KindGroup:
		return "Group"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Node is a markup element. Attributes are kept as an ordered list:
// serialization emits them in insertion order.
type Node struct {
	Kind     Kind
	Tag      string  // Element tag name (e.g., "div")
	Attrs    []Attr  // Ordered attributes
	Children []*Node // Child nodes
	Text     string  // For KindText and KindRaw
	Comp     Component
}

// Attr is a single attribute. Value may be a string, a number, a bool,
// or nil; data-* attributes additionally accept maps and slices, which
// serialize as JSON.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a Node.
type Component interface {
	Render() *Node
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *Node
}

// Render implements Component.
func (f *FuncComponent) Render() *Node {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *Node) Component {
	return &FuncComponent{render: render}
}

// autoID marks an id attribute whose value should be supplied by the
// renderer's ID generator.
type autoID struct{}

// AutoID requests a generated id. The value is assigned at render time by
// the renderer's ID generator, so construction stays deterministic.
func AutoID() Attr {
	return Attr{Key: "id", Value: autoID{}}
}

// IsAutoID reports whether an attribute value is the auto-id marker.
func IsAutoID(v any) bool {
	_, ok := v.(autoID)
	return ok
}

// Attr returns the value of the named attribute, which is canonicalized
// before lookup.
func (n *Node) Attr(key string) (any, bool) {
	key = CanonicalKey(key)
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// SetAttr sets an attribute. An existing key keeps its position; a new key
// is appended, preserving insertion order.
func (n *Node) SetAttr(key string, value any) {
	key = CanonicalKey(key)
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// DelAttr removes an attribute if present.
func (n *Node) DelAttr(key string) {
	key = CanonicalKey(key)
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the node's id attribute, or "" if unset or auto-generated.
func (n *Node) ID() string {
	v, ok := n.Attr("id")
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Equal reports whether two trees are structurally identical: same kinds,
// tags, attribute sequences, text, and children. Components compare by
// identity, not by rendered output.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if !sameComponent(a.Comp, b.Comp) {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i].Key != b.Attrs[i].Key {
			return false
		}
		if !reflect.DeepEqual(a.Attrs[i].Value, b.Attrs[i].Value) {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// sameComponent compares components by identity. A component whose
// dynamic type is not comparable never equals anything but itself being
// absent, so value components with map or func fields stay safe to pass
// through Equal.
func sameComponent(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
