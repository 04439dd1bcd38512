package render

// inlineElements are elements that are typically rendered inline
// and don't need newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"bdi":    true,
	"bdo":    true,
	"br":     true,
	"cite":   true,
	"code":   true,
	"data":   true,
	"dfn":    true,
	"em":     true,
	"i":      true,
	"kbd":    true,
	"mark":   true,
	"q":      true,
	"s":      true,
	"samp":   true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
	"var":    true,
	"wbr":    true,
}

// isInlineElement returns true if the tag is an inline element.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// headTags are the tags that belong in the document head. PartitionHead
// moves them there when a handler returns them mixed into page content.
var headTags = map[string]bool{
	"title": true,
	"meta":  true,
	"link":  true,
	"style": true,
	"base":  true,
}

// isHeadTag returns true if the tag belongs in the document head.
func isHeadTag(tag string) bool {
	return headTags[tag]
}
