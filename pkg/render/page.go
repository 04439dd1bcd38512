package render

import (
	"io"

	"github.com/lumenkit/lumen/pkg/html"
)

// DefaultRuntimeSrc is where the reactive client runtime is served from.
const DefaultRuntimeSrc = "/static/datastar.js"

// Page describes the document shell wrapped around handler content when a
// full page is produced. The zero value is usable.
type Page struct {
	// Title is the page title. An explicit <title> in handler content wins.
	Title string

	// Lang is the html element's lang attribute. Defaults to "en".
	Lang string

	// Canonical adds a rel=canonical link when set.
	Canonical string

	// Head holds extra head entries appended after the defaults.
	Head []*html.Node

	// HTMLAttrs and BodyAttrs are attached to the html and body elements.
	HTMLAttrs []html.Attr
	BodyAttrs []html.Attr

	// RuntimeSrc overrides where the reactive client script is loaded
	// from. Empty means DefaultRuntimeSrc; "-" disables the script tag.
	RuntimeSrc string
}

// Build assembles a complete document tree. Head-only tags found at the
// top level of content (title, meta, link, style, base) are moved into
// <head>; everything else becomes the body.
func (p Page) Build(content ...*html.Node) *html.Node {
	headExtra, body := PartitionHead(content)

	lang := p.Lang
	if lang == "" {
		lang = "en"
	}

	head := []any{
		html.Meta(html.Charset("utf-8")),
		html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
	}
	if !containsTag(headExtra, "title") && p.Title != "" {
		head = append(head, html.Title(p.Title))
	}
	if p.Canonical != "" {
		head = append(head, html.Link(html.Rel("canonical"), html.Href(p.Canonical)))
	}
	src := p.RuntimeSrc
	if src == "" {
		src = DefaultRuntimeSrc
	}
	if src != "-" {
		head = append(head, html.Script(html.Src(src), html.ModuleType()))
	}
	for _, n := range headExtra {
		head = append(head, n)
	}
	for _, n := range p.Head {
		head = append(head, n)
	}

	bodyArgs := make([]any, 0, len(p.BodyAttrs)+len(body))
	for _, a := range p.BodyAttrs {
		bodyArgs = append(bodyArgs, a)
	}
	for _, n := range body {
		bodyArgs = append(bodyArgs, n)
	}

	htmlArgs := []any{html.Lang(lang)}
	for _, a := range p.HTMLAttrs {
		htmlArgs = append(htmlArgs, a)
	}
	htmlArgs = append(htmlArgs, html.Head(head...), html.Body(bodyArgs...))

	return html.Html(htmlArgs...)
}

// Document renders a full page around content and writes it out.
func (r *Renderer) Document(w io.Writer, page Page, content ...*html.Node) error {
	return r.Write(w, page.Build(content...))
}

// PartitionHead splits top-level nodes into head entries and body content.
// Groups are flattened one level, mirroring construction.
func PartitionHead(nodes []*html.Node) (head, body []*html.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Kind == html.KindGroup {
			h, b := PartitionHead(n.Children)
			head = append(head, h...)
			body = append(body, b...)
			continue
		}
		if n.Kind == html.KindElement && isHeadTag(n.Tag) {
			head = append(head, n)
			continue
		}
		body = append(body, n)
	}
	return head, body
}

// IsFullPage reports whether any top-level node (descending through
// groups) is a document root. Handlers returning such a tree bypass the
// page shell entirely.
func IsFullPage(nodes ...*html.Node) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Kind == html.KindGroup && IsFullPage(n.Children...) {
			return true
		}
		if n.Kind == html.KindElement && n.Tag == "html" {
			return true
		}
	}
	return false
}

// containsTag reports whether any node in the slice has the given tag.
func containsTag(nodes []*html.Node, tag string) bool {
	for _, n := range nodes {
		if n != nil && n.Kind == html.KindElement && n.Tag == tag {
			return true
		}
	}
	return false
}
