package datastar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lumenkit/lumen/pkg/render"
)

// Encoder builds SSE frames into an internal buffer. It is stateless
// across frames apart from the buffer itself; frame order on the wire is
// the order of Encode calls.
//
// Frame layout, one per Encode call:
//
//	event: <name>
//	retry: <milliseconds>
//	data: <field> <value>
//	...
//	<blank line>
type Encoder struct {
	buf      []byte
	renderer *render.Renderer
	retry    time.Duration
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithRenderer sets the renderer used for fragment nodes. The default is
// a compact renderer with the production id generator.
func WithRenderer(r *render.Renderer) EncoderOption {
	return func(e *Encoder) { e.renderer = r }
}

// WithRetry sets the reconnect hint written into each frame.
func WithRetry(d time.Duration) EncoderOption {
	return func(e *Encoder) { e.retry = d }
}

// NewEncoder creates an encoder with a default initial capacity.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		buf:   make([]byte, 0, 256),
		retry: DefaultRetry,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = render.New(render.Config{})
	}
	return e
}

// Reset resets the encoder to empty state, reusing the underlying buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded frames. The returned slice is valid until the
// next call to Reset or any Encode method.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes currently encoded.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// EncodeFragment appends one fragment-merge frame. The fragment's node is
// rendered here; a node that cannot be serialized surfaces the render
// error and leaves the buffer unchanged.
func (e *Encoder) EncodeFragment(f Fragment) error {
	mode := f.Mode
	if mode == "" {
		mode = DefaultMergeMode
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMergeMode, string(f.Mode))
	}
	if err := validateSelector(f.Selector); err != nil {
		return err
	}

	markup := f.HTML
	if f.Node != nil {
		rendered, err := e.renderer.String(f.Node)
		if err != nil {
			return fmt.Errorf("datastar: render fragment: %w", err)
		}
		markup = rendered
	}

	e.beginEvent(EventMergeFragments)
	if f.Selector != "" {
		e.dataLine(fieldSelector, f.Selector)
	}
	e.dataLine(fieldMergeMode, mode.String())
	if f.UseViewTransition {
		e.dataLine(fieldUseViewTransition, "true")
	}
	// Each physical line of markup gets its own data line; the blank-line
	// terminator makes embedded newlines impossible to carry any other way.
	for _, line := range splitLines(markup) {
		e.dataLine(fieldFragments, line)
	}
	e.endEvent()
	return nil
}

// splitLines normalizes line endings and splits into physical lines. A
// trailing newline (pretty renderers emit one) produces no extra line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimRight(s, "\n")
	return strings.Split(s, "\n")
}

// EncodeSignals appends one signal-merge frame. onlyIfMissing asks the
// client to keep already-present signal values.
func (e *Encoder) EncodeSignals(signals Signals, onlyIfMissing bool) error {
	doc, err := signals.marshal()
	if err != nil {
		return err
	}

	e.beginEvent(EventMergeSignals)
	if onlyIfMissing {
		e.dataLine(fieldOnlyIfMissing, "true")
	}
	for _, line := range splitLines(string(doc)) {
		e.dataLine(fieldSignals, line)
	}
	e.endEvent()
	return nil
}

// EncodeRemove appends a fragment-removal frame. The selector is required.
func (e *Encoder) EncodeRemove(selector string) error {
	if selector == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	if err := validateSelector(selector); err != nil {
		return err
	}

	e.beginEvent(EventRemoveFragments)
	e.dataLine(fieldSelector, selector)
	e.endEvent()
	return nil
}

// EncodeScript appends a script-execution frame. autoRemove controls
// whether the client drops the script element after running it; true is
// the client default and is omitted from the wire.
func (e *Encoder) EncodeScript(script string, autoRemove bool) error {
	e.beginEvent(EventExecuteScript)
	if !autoRemove {
		e.dataLine(fieldAutoRemove, "false")
	}
	for _, line := range splitLines(script) {
		e.dataLine(fieldScript, line)
	}
	e.endEvent()
	return nil
}

// beginEvent appends the event and retry lines.
func (e *Encoder) beginEvent(name string) {
	e.buf = append(e.buf, "event: "...)
	e.buf = append(e.buf, name...)
	e.buf = append(e.buf, '\n')
	e.buf = append(e.buf, "retry: "...)
	e.buf = strconv.AppendInt(e.buf, e.retry.Milliseconds(), 10)
	e.buf = append(e.buf, '\n')
}

// dataLine appends one "data: <field> <value>" line.
func (e *Encoder) dataLine(field, value string) {
	e.buf = append(e.buf, "data: "...)
	e.buf = append(e.buf, field...)
	e.buf = append(e.buf, ' ')
	e.buf = append(e.buf, value...)
	e.buf = append(e.buf, '\n')
}

// endEvent appends the blank-line terminator.
func (e *Encoder) endEvent() {
	e.buf = append(e.buf, '\n')
}
