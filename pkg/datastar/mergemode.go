package datastar

// MergeMode selects how a fragment is merged into the existing DOM.
type MergeMode string

const (
	// ModeMorph diffs the fragment against the target and applies only
	// the changed attributes and children. This is the default.
	ModeMorph MergeMode = "morph"

	// ModeInner replaces the target's inner HTML.
	ModeInner MergeMode = "inner"

	// ModeOuter replaces the target element entirely.
	ModeOuter MergeMode = "outer"

	// ModePrepend inserts the fragment as the target's first child.
	ModePrepend MergeMode = "prepend"

	// ModeAppend inserts the fragment as the target's last child.
	ModeAppend MergeMode = "append"

	// ModeBefore inserts the fragment before the target.
	ModeBefore MergeMode = "before"

	// ModeAfter inserts the fragment after the target.
	ModeAfter MergeMode = "after"

	// ModeReplace swaps the target for the fragment without morphing.
	ModeReplace MergeMode = "replace"

	// ModeRemove deletes the target; the fragment content is unused.
	ModeRemove MergeMode = "remove"
)

// DefaultMergeMode is used when a fragment does not specify one.
const DefaultMergeMode = ModeMorph

// Valid reports whether the mode is a recognized merge mode token.
func (m MergeMode) Valid() bool {
	switch m {
	case ModeMorph, ModeInner, ModeOuter, ModePrepend, ModeAppend,
		ModeBefore, ModeAfter, ModeReplace, ModeRemove:
		return true
	}
	return false
}

// String returns the wire token for the mode.
func (m MergeMode) String() string {
	return string(m)
}
