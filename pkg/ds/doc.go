// Package ds provides typed constructors for the data-* attributes the
// reactive client reads. Each helper returns a plain html.Attr, so they
// mix freely with regular attributes:
//
//	html.Input(
//	    html.Type("text"),
//	    ds.Bind("query"),
//	    ds.On("input", "@get('/search')", ds.Debounce(300*time.Millisecond)),
//	)
//
//	html.Div(
//	    ds.Signals(map[string]any{"count": 0}),
//	    html.Button(ds.On("click", "$count++"), html.Text("+1")),
//	    html.Span(ds.Text("$count")),
//	)
//
// Attribute values are client-side expressions and pass through
// verbatim; only Signals serializes its argument as JSON. The same
// attributes can be spelled as ds_* keys on element constructors
// (html.KV("ds_on_click", ...)), this package just adds names the
// compiler can check.
package ds
