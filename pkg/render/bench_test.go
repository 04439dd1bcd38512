package render

import (
	"fmt"
	"io"
	"testing"

	"github.com/lumenkit/lumen/pkg/html"
)

func BenchmarkRenderSimple(b *testing.B) {
	r := New(Config{})
	node := html.Div(html.Class("card"),
		html.H1("Title"),
		html.P("Content"),
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(io.Discard, node)
	}
}

func BenchmarkRenderLargeTree(b *testing.B) {
	r := New(Config{})

	// Build a tree with 1000 elements
	var items []any
	for i := 0; i < 1000; i++ {
		items = append(items, html.Li(fmt.Sprintf("Item %d", i)))
	}
	node := html.Ul(items...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(io.Discard, node)
	}
}

func BenchmarkRenderAttributeHeavy(b *testing.B) {
	r := New(Config{})

	var buttons []any
	for i := 0; i < 100; i++ {
		buttons = append(buttons, html.Button(
			html.KV("ds_on_click", fmt.Sprintf("$count%d++", i)),
			html.Class("btn"),
			html.Text(fmt.Sprintf("Button %d", i)),
		))
	}
	node := html.Div(buttons...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(io.Discard, node)
	}
}

func BenchmarkRenderDocument(b *testing.B) {
	r := New(Config{})
	page := Page{Title: "Test Page"}
	content := html.Div(html.H1("Hello"), html.P("World"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Document(io.Discard, page, content)
	}
}

func BenchmarkRenderDeepNesting(b *testing.B) {
	r := New(Config{})

	// Build a deeply nested tree (20 levels)
	node := html.Span(html.Text("Leaf"))
	for i := 0; i < 20; i++ {
		node = html.Div(node)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(io.Discard, node)
	}
}

func BenchmarkRenderEscaping(b *testing.B) {
	r := New(Config{})
	node := html.Div(html.Text(`<script>alert("x") & more</script> repeated content with & entities`))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(io.Discard, node)
	}
}

func BenchmarkRenderAutoIDs(b *testing.B) {
	var items []any
	for i := 0; i < 50; i++ {
		items = append(items, html.Div(html.AutoID()))
	}
	node := html.Div(items...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := New(Config{IDs: NewSequentialIDs()})
		r.Write(io.Discard, node)
	}
}
