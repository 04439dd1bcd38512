// Package toast carries flash notifications across requests. A handler
// records a toast in the session, usually right before redirecting; the
// next full page renders it inside the toast region, while reactive
// handlers push it immediately as an append fragment instead.
package toast

import (
	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/session"
)

// SessionKey is where pending toasts wait in the session.
const SessionKey = "lumen.toasts"

// RegionID is the id of the container toasts render into. Push targets
// it, so layouts embedding Region() get live toasts for free.
const RegionID = "lumen-toasts"

// Type classifies a toast for styling.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast is one pending notification.
type Toast struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Add queues a toast for the visitor's next rendered page.
func Add(sess *session.Session, typ Type, message string) {
	toasts := pending(sess)
	toasts = append(toasts, Toast{Type: typ, Message: message})
	sess.Set(SessionKey, toasts)
}

// Success queues a success toast.
//
//	toast.Success(sess, "Changes saved")
func Success(sess *session.Session, message string) { Add(sess, TypeSuccess, message) }

// Error queues an error toast.
func Error(sess *session.Session, message string) { Add(sess, TypeError, message) }

// Warning queues a warning toast.
func Warning(sess *session.Session, message string) { Add(sess, TypeWarning, message) }

// Info queues an info toast.
func Info(sess *session.Session, message string) { Add(sess, TypeInfo, message) }

// Pop drains the pending toasts. The session is only dirtied when
// something was actually queued, so read-only requests stay cheap.
func Pop(sess *session.Session) []Toast {
	toasts := pending(sess)
	if len(toasts) > 0 {
		sess.Delete(SessionKey)
	}
	return toasts
}

func pending(sess *session.Session) []Toast {
	if sess == nil {
		return nil
	}
	if _, ok := sess.Get(SessionKey); !ok {
		return nil
	}
	// Values that crossed a cookie round-trip come back as generic
	// JSON; Unmarshal re-types them.
	var toasts []Toast
	if err := sess.Unmarshal(SessionKey, &toasts); err != nil {
		return nil
	}
	return toasts
}

// Region renders the toast container with any pending toasts drained
// from the session. Layouts place it once, near the end of body.
func Region(sess *session.Session) *html.Node {
	items := []any{html.ID(RegionID), html.Class("toasts"), html.AriaLive("polite")}
	for _, tt := range Pop(sess) {
		items = append(items, Node(tt))
	}
	return html.Div(items...)
}

// Node renders one toast.
func Node(t Toast) *html.Node {
	return html.Div(
		html.Class("toast", "toast-"+string(t.Type)),
		html.Role("status"),
		html.Span(html.Class("toast-message"), html.Text(t.Message)),
	)
}

// Push appends a toast to the live page's toast region over the
// stream, bypassing the session queue.
//
//	func Save(sess *lumen.Session) lumen.StreamFunc {
//	    return func(s *lumen.Stream) error {
//	        return toast.Push(s, toast.Toast{Type: toast.TypeSuccess, Message: "Saved"})
//	    }
//	}
func Push(s *datastar.Stream, t Toast) error {
	return s.MergeFragments(Node(t),
		datastar.SelectorID(RegionID),
		datastar.Mode(datastar.ModeAppend),
	)
}
