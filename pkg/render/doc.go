// Package render serializes html.Node trees to HTML text.
//
// The renderer produces well-formed fragments or, when the root tag is
// html, a complete document with doctype. It handles:
//
//   - Text and attribute escaping (XSS prevention)
//   - Void element handling (input, br, img, etc.)
//   - Boolean flag attributes (disabled, checked, etc.)
//   - Attribute output in insertion order
//   - Auto-generated element ids via an explicit IDGenerator
//   - Document shell assembly with head partitioning
//
// # Basic Usage
//
// To render a node tree to a string:
//
//	r := render.New(render.Config{})
//	out, err := r.String(node)
//
// To write to an io.Writer:
//
//	err := r.Write(w, node)
//
// # Determinism
//
// Rendering identical input yields identical output. The only external
// influence is the IDGenerator consulted for nodes constructed with
// html.AutoID; inject SequentialIDs in tests for reproducible ids.
//
// # Full pages
//
// Page describes the document shell (charset and viewport metas, title,
// the reactive client script) wrapped around handler content:
//
//	page := render.Page{Title: "Home"}
//	err := r.Document(w, page, content...)
//
// Head-only tags returned by handlers (title, meta, link, style, base)
// are partitioned into <head> automatically.
//
// # Streaming
//
// For large pages, StreamingRenderer flushes the head immediately and
// then each top-level body node as it completes:
//
//	sr := render.NewStreaming(w, config)
//	err := sr.Document(page, content...)
//
// # Security
//
// All text content is escaped by default. Raw markup can be inserted with
// html.Raw, but should only be used with trusted content.
package render
