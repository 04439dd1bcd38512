package ds

import (
	"strconv"
	"strings"
	"time"

	"github.com/lumenkit/lumen/pkg/html"
)

// Modifier is a behavior suffix on an event attribute. Modifiers join
// the attribute name with dots, in the order given:
//
//	ds.On("input", "@get('/search')", ds.Debounce(300*time.Millisecond), ds.Once)
//
// renders data-on-input.debounce_300ms.once.
type Modifier string

const (
	// Once removes the listener after its first run.
	Once Modifier = "once"

	// Window attaches the listener to the window instead of the element.
	Window Modifier = "window"

	// Outside fires when the event happens outside the element.
	// Useful for closing dropdowns and modals.
	Outside Modifier = "outside"

	// Prevent calls preventDefault before the expression runs.
	Prevent Modifier = "prevent"

	// Stop calls stopPropagation before the expression runs.
	Stop Modifier = "stop"

	// Passive marks the listener passive; the expression cannot
	// cancel the event.
	Passive Modifier = "passive"

	// Capture attaches the listener in the capture phase.
	Capture Modifier = "capture"

	// Half fires intersect when half the element is visible.
	Half Modifier = "half"

	// Full fires intersect only when the whole element is visible.
	Full Modifier = "full"
)

// Debounce delays the expression until the event has been quiet for d.
func Debounce(d time.Duration) Modifier {
	return Modifier("debounce_" + millis(d))
}

// Throttle runs the expression at most once per d.
func Throttle(d time.Duration) Modifier {
	return Modifier("throttle_" + millis(d))
}

// Delay waits d after the event before running the expression.
func Delay(d time.Duration) Modifier {
	return Modifier("delay_" + millis(d))
}

// On runs an expression when the named event fires on the element:
//
//	html.Button(ds.On("click", "@post('/cart/add')"), html.Text("Add"))
func On(event, expr string, mods ...Modifier) html.Attr {
	return html.Attr{Key: eventKey(event, mods), Value: expr}
}

// OnIntersect runs an expression when the element scrolls into view.
// Combine with Once for lazy loading:
//
//	html.Div(ds.OnIntersect("@get('/feed/more')", ds.Once))
func OnIntersect(expr string, mods ...Modifier) html.Attr {
	return html.Attr{Key: eventKey("intersect", mods), Value: expr}
}

// OnInterval runs an expression on a timer. A non-positive interval
// leaves the client's default in place.
func OnInterval(expr string, every time.Duration) html.Attr {
	key := "data-on-interval"
	if every > 0 {
		key += "." + millis(every)
	}
	return html.Attr{Key: key, Value: expr}
}

// OnLoad runs an expression once the element loads.
func OnLoad(expr string) html.Attr {
	return html.Attr{Key: "data-on-load", Value: expr}
}

func eventKey(event string, mods []Modifier) string {
	var b strings.Builder
	b.WriteString("data-on-")
	b.WriteString(strings.ReplaceAll(event, "_", "-"))
	for _, m := range mods {
		if m == "" {
			continue
		}
		b.WriteByte('.')
		b.WriteString(string(m))
	}
	return b.String()
}

// millis renders a duration as integer milliseconds, the only unit the
// client parses. Sub-millisecond durations round up so a tiny debounce
// never becomes zero.
func millis(d time.Duration) string {
	ms := d.Milliseconds()
	if ms == 0 && d > 0 {
		ms = 1
	}
	return strconv.FormatInt(ms, 10) + "ms"
}
