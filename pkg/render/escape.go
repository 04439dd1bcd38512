package render

import "strings"

// textEscaper escapes text content for safe inclusion in HTML.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrEscaper additionally escapes whitespace control characters so that
// attribute values can never break out of their quotes or introduce
// physical line breaks into rendered output.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeText escapes text for HTML content position.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes text for HTML attribute value position.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
