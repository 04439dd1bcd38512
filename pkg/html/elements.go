package html

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// newElement creates a Node with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, Component, string.
// Child slices are flattened one level; nils are skipped so attributes and
// children can be conditional.
func newElement(tag string, args []any) *Node {
	node := &Node{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			applyAttr(node, v)

		case []Attr:
			for _, a := range v {
				applyAttr(node, a)
			}

		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case Component:
			node.Children = append(node.Children, &Node{
				Kind: KindComponent,
				Comp: v,
			})

		case string:
			node.Children = append(node.Children, &Node{
				Kind: KindText,
				Text: v,
			})
		}
	}

	applyAutoName(node)
	return node
}

// applyAttr canonicalizes the key and sets it, keeping insertion order.
func applyAttr(node *Node, a Attr) {
	if a.Key == "" {
		return
	}
	node.SetAttr(a.Key, a.Value)
}

// applyAutoName mirrors an explicit id into name for form-ish tags that
// carry no name of their own.
func applyAutoName(node *Node) {
	if !namedTags[node.Tag] {
		return
	}
	id := node.ID()
	if id == "" {
		return
	}
	if _, ok := node.Attr("name"); ok {
		return
	}
	node.SetAttr("name", id)
}

// E creates an element with an arbitrary tag name.
func E(tag string, args ...any) *Node {
	return newElement(tag, args)
}

// Document structure elements

func Html(args ...any) *Node  { return newElement("html", args) }
func Head(args ...any) *Node  { return newElement("head", args) }
func Body(args ...any) *Node  { return newElement("body", args) }
func Title(args ...any) *Node { return newElement("title", args) }
func Meta(args ...any) *Node  { return newElement("meta", args) }
func Link(args ...any) *Node  { return newElement("link", args) }
func Base(args ...any) *Node  { return newElement("base", args) }

// Content sectioning elements

func Header(args ...any) *Node  { return newElement("header", args) }
func Footer(args ...any) *Node  { return newElement("footer", args) }
func Main(args ...any) *Node    { return newElement("main", args) }
func Nav(args ...any) *Node     { return newElement("nav", args) }
func Section(args ...any) *Node { return newElement("section", args) }
func Article(args ...any) *Node { return newElement("article", args) }
func Aside(args ...any) *Node   { return newElement("aside", args) }
func Address(args ...any) *Node { return newElement("address", args) }
func H1(args ...any) *Node      { return newElement("h1", args) }
func H2(args ...any) *Node      { return newElement("h2", args) }
func H3(args ...any) *Node      { return newElement("h3", args) }
func H4(args ...any) *Node      { return newElement("h4", args) }
func H5(args ...any) *Node      { return newElement("h5", args) }
func H6(args ...any) *Node      { return newElement("h6", args) }
func Hgroup(args ...any) *Node  { return newElement("hgroup", args) }

// Text content elements

func Div(args ...any) *Node        { return newElement("div", args) }
func P(args ...any) *Node          { return newElement("p", args) }
func Span(args ...any) *Node       { return newElement("span", args) }
func Pre(args ...any) *Node        { return newElement("pre", args) }
func Blockquote(args ...any) *Node { return newElement("blockquote", args) }
func Ul(args ...any) *Node         { return newElement("ul", args) }
func Ol(args ...any) *Node         { return newElement("ol", args) }
func Li(args ...any) *Node         { return newElement("li", args) }
func Dl(args ...any) *Node         { return newElement("dl", args) }
func Dt(args ...any) *Node         { return newElement("dt", args) }
func Dd(args ...any) *Node         { return newElement("dd", args) }
func Hr(args ...any) *Node         { return newElement("hr", args) }
func Figure(args ...any) *Node     { return newElement("figure", args) }
func Figcaption(args ...any) *Node { return newElement("figcaption", args) }

// Inline text semantics

func A(args ...any) *Node      { return newElement("a", args) }
func Strong(args ...any) *Node { return newElement("strong", args) }
func Em(args ...any) *Node     { return newElement("em", args) }
func B(args ...any) *Node      { return newElement("b", args) }
func I(args ...any) *Node      { return newElement("i", args) }
func U(args ...any) *Node      { return newElement("u", args) }
func S(args ...any) *Node      { return newElement("s", args) }
func Small(args ...any) *Node  { return newElement("small", args) }
func Mark(args ...any) *Node   { return newElement("mark", args) }
func Sub(args ...any) *Node    { return newElement("sub", args) }
func Sup(args ...any) *Node    { return newElement("sup", args) }
func Code(args ...any) *Node   { return newElement("code", args) }
func Kbd(args ...any) *Node    { return newElement("kbd", args) }
func Samp(args ...any) *Node   { return newElement("samp", args) }
func Var(args ...any) *Node    { return newElement("var", args) }
func Abbr(args ...any) *Node   { return newElement("abbr", args) }
func Time_(args ...any) *Node  { return newElement("time", args) }
func Cite(args ...any) *Node   { return newElement("cite", args) }
func Q(args ...any) *Node      { return newElement("q", args) }
func Dfn(args ...any) *Node    { return newElement("dfn", args) }
func Bdi(args ...any) *Node    { return newElement("bdi", args) }
func Bdo(args ...any) *Node    { return newElement("bdo", args) }
func Br(args ...any) *Node     { return newElement("br", args) }
func Wbr(args ...any) *Node    { return newElement("wbr", args) }

// Form elements

func Form(args ...any) *Node     { return newElement("form", args) }
func Input(args ...any) *Node    { return newElement("input", args) }
func Textarea(args ...any) *Node { return newElement("textarea", args) }
func Select(args ...any) *Node   { return newElement("select", args) }
func Option(args ...any) *Node   { return newElement("option", args) }
func Optgroup(args ...any) *Node { return newElement("optgroup", args) }
func Button(args ...any) *Node   { return newElement("button", args) }
func Label(args ...any) *Node    { return newElement("label", args) }
func Fieldset(args ...any) *Node { return newElement("fieldset", args) }
func Legend(args ...any) *Node   { return newElement("legend", args) }
func Datalist(args ...any) *Node { return newElement("datalist", args) }
func Output(args ...any) *Node   { return newElement("output", args) }
func Progress(args ...any) *Node { return newElement("progress", args) }
func Meter(args ...any) *Node    { return newElement("meter", args) }

// Table elements

func Table(args ...any) *Node    { return newElement("table", args) }
func Thead(args ...any) *Node    { return newElement("thead", args) }
func Tbody(args ...any) *Node    { return newElement("tbody", args) }
func Tfoot(args ...any) *Node    { return newElement("tfoot", args) }
func Tr(args ...any) *Node       { return newElement("tr", args) }
func Th(args ...any) *Node       { return newElement("th", args) }
func Td(args ...any) *Node       { return newElement("td", args) }
func Caption(args ...any) *Node  { return newElement("caption", args) }
func Colgroup(args ...any) *Node { return newElement("colgroup", args) }
func Col(args ...any) *Node      { return newElement("col", args) }

// Media elements

func Img(args ...any) *Node     { return newElement("img", args) }
func Picture(args ...any) *Node { return newElement("picture", args) }
func Source(args ...any) *Node  { return newElement("source", args) }
func Video(args ...any) *Node   { return newElement("video", args) }
func Audio(args ...any) *Node   { return newElement("audio", args) }
func Track(args ...any) *Node   { return newElement("track", args) }
func Iframe(args ...any) *Node  { return newElement("iframe", args) }
func Embed(args ...any) *Node   { return newElement("embed", args) }
func Object(args ...any) *Node  { return newElement("object", args) }
func Canvas(args ...any) *Node  { return newElement("canvas", args) }
func Svg(args ...any) *Node     { return newElement("svg", args) }
func Map_(args ...any) *Node    { return newElement("map", args) }
func Area(args ...any) *Node    { return newElement("area", args) }

// Interactive elements

func Details(args ...any) *Node { return newElement("details", args) }
func Summary(args ...any) *Node { return newElement("summary", args) }
func Dialog(args ...any) *Node  { return newElement("dialog", args) }
func Menu(args ...any) *Node    { return newElement("menu", args) }

// Scripting elements

func Script(args ...any) *Node   { return newElement("script", args) }
func Noscript(args ...any) *Node { return newElement("noscript", args) }
func Template(args ...any) *Node { return newElement("template", args) }
func Slot(args ...any) *Node     { return newElement("slot", args) }
func Style(args ...any) *Node    { return newElement("style", args) }
