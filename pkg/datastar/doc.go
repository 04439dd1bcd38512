// Package datastar implements the server side of the Datastar SSE
// protocol: text event frames that merge HTML fragments and signal state
// into an already-loaded page.
//
// # Wire Format
//
// Every frame is line-oriented UTF-8 text terminated by a blank line:
//
//	event: <name>
//	retry: <milliseconds>
//	data: <field> <value>
//	...
//	<blank line>
//
// Recognized event names:
//
//   - datastar-merge-fragments: merge rendered HTML into the DOM
//   - datastar-merge-signals: merge a JSON object into client signals
//   - datastar-remove-fragments: remove elements matching a selector
//   - datastar-execute-script: evaluate a script on the client
//
// A fragment-merge frame carries an optional "selector" data line, a
// "mergeMode" line, and one "fragments" line per physical line of the
// rendered HTML. Multi-line markup is never newline-escaped; the framing
// requires the split. Example:
//
//	event: datastar-merge-fragments
//	retry: 1000
//	data: mergeMode morph
//	data: fragments <div id="counter">5</div>
//
// # Request Markers
//
// The reactive client marks its requests with the Datastar-Request
// header. Marked requests receive fragment frames where unmarked ones
// receive full documents, and header-level redirects (Datastar-Location)
// where unmarked ones receive HTTP 303s. History-navigation replays carry
// Datastar-History-Restore and are always treated as unmarked. IsReactive
// folds both markers into the classification answer.
//
// # Streaming
//
// Stream owns one client connection for the lifetime of a request. Frames
// are written strictly in call order, each flushed before the next is
// accepted, and never reordered or batched. When the client disconnects,
// every subsequent call returns an error wrapping ErrInterrupted so a
// producing handler stops promptly:
//
//	stream := datastar.NewStream(w, r)
//	for _, item := range items {
//		if err := stream.MergeFragments(itemRow(item)); err != nil {
//			return
//		}
//	}
//
// Reconnection is the client's job: the retry hint tells it when to
// reconnect and re-request its stream. The server never replays frames,
// so frames carry no id line.
//
// # Signals
//
// Outbound Signals map dot-path keys to values; keys nest on dots and are
// applied in sorted order so wire output is reproducible. Inbound
// snapshots parse with ReadSignals and are queried by the same dot paths:
//
//	signals, _ := datastar.ReadSignals(r)
//	count := signals.Get("count").Int()
package datastar
