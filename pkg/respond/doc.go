// Package respond classifies handler return values into response
// envelopes and writes the transport-shaped parts out.
//
// Classification is a pure function over the return value plus the
// request's reactive-client marker. Handlers may return markup
// (*html.Node, html.Component), explicit markers (FullPage, Fragment),
// a Redirect value, header items, a fragment producer
// (datastar.StreamFunc), raw payloads (string, []byte, io.Reader,
// http.Handler), or plain data (struct, map, slice) which serializes
// as JSON.
//
// The marker decides delivery, never content: the same Redirect value
// becomes an HTTP 303 for a plain browser and a Datastar-Location
// header for the reactive client, and bare markup becomes a full page
// for the former and a merge frame for the latter. Every envelope whose
// classification branched on the marker carries Vary so intermediary
// caches split on it. Plain clients are never silently handed a bare
// fragment; that requires the explicit Fragment marker.
package respond
