package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lumenkit/lumen/pkg/html"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// IDs supplies values for auto-generated id attributes. Rendering is
	// deterministic apart from this generator; tests inject SequentialIDs.
	// Defaults to a fresh UUIDGenerator.
	IDs IDGenerator
}

// Renderer serializes html.Node trees to HTML text.
type Renderer struct {
	config Config
}

// New creates a Renderer with the given configuration.
func New(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.IDs == nil {
		config.IDs = NewUUIDGenerator()
	}
	return &Renderer{config: config}
}

// String renders a node tree to a string.
func (r *Renderer) String(node *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders a node tree to the given writer. A root element whose tag
// is "html" is preceded by the HTML5 doctype; fragments are emitted bare.
func (r *Renderer) Write(w io.Writer, node *html.Node) error {
	if node != nil && node.Kind == html.KindElement && node.Tag == "html" {
		if _, err := io.WriteString(w, "<!doctype html>"); err != nil {
			return err
		}
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
	}
	return r.renderNode(w, node, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *html.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case html.KindElement:
		return r.renderElement(w, node, depth)
	case html.KindText:
		_, err := io.WriteString(w, escapeText(node.Text))
		return err
	case html.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case html.KindGroup:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	case html.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render(), depth)
	default:
		return &Error{Tag: node.Tag, Err: fmt.Errorf("unknown node kind %d", node.Kind)}
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *html.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	// Void elements take no children; any supplied are silently dropped.
	if html.IsVoidElement(tag) {
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "</"+tag+">"); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}

	return nil
}

// renderAttributes emits attributes in insertion order. Boolean values
// follow flag semantics (true renders the bare name, false and nil render
// nothing) except under data-* keys, where the reactive client expects the
// literal strings "true"/"false".
func (r *Renderer) renderAttributes(w io.Writer, node *html.Node) error {
	for _, a := range node.Attrs {
		if a.Key == "" {
			continue
		}

		value := a.Value
		if html.IsAutoID(value) {
			value = r.config.IDs.NextID()
		}

		s, present, err := attrString(a.Key, value)
		if err != nil {
			return &Error{Tag: node.Tag, Attr: a.Key, Err: err}
		}
		if !present {
			continue
		}
		if s == flagPresent {
			if _, err := io.WriteString(w, " "+a.Key); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(w, " "+a.Key+`="`+escapeAttr(s)+`"`); err != nil {
			return err
		}
	}
	return nil
}

// flagPresent is the sentinel attrString returns for a bare boolean flag.
const flagPresent = "\x00flag"

// attrString converts an attribute value to its serialized form. The
// second return is false when the attribute must be omitted entirely.
func attrString(key string, value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		if strings.HasPrefix(key, "data-") {
			return strconv.FormatBool(v), true, nil
		}
		if v {
			return flagPresent, true, nil
		}
		return "", false, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true, nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true, nil
	case []string:
		// Token lists (class names and the like) join with spaces.
		return strings.Join(v, " "), true, nil
	case fmt.Stringer:
		return v.String(), true, nil
	default:
		if strings.HasPrefix(key, "data-") {
			// Structured values under data-* serialize as JSON for the
			// reactive client (signals objects in particular).
			b, err := json.Marshal(v)
			if err != nil {
				return "", false, fmt.Errorf("marshal %s: %w", key, err)
			}
			return string(b), true, nil
		}
		return "", false, fmt.Errorf("unsupported attribute value %T", value)
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
