package datastar

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/lumenkit/lumen/pkg/html"
)

// StreamFunc is a fragment producer. A handler returns one to take over
// the response as an event stream; the dispatcher opens the stream and
// runs the producer until it returns or the client disconnects.
type StreamFunc func(*Stream) error

// Stream writes SSE frames to one client for the lifetime of a request.
// Frames go out in call order; each write completes and flushes before
// the next frame is accepted. All methods are safe for concurrent use.
//
// Once the client disconnects every subsequent call returns an error
// wrapping ErrInterrupted. Handlers should stop producing at the first
// non-nil return; the disconnect itself is not a handler failure.
type Stream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	enc     *Encoder
	frames  int
	failed  error
}

// NewStream prepares w for event streaming and returns the stream. The
// SSE headers and status are written immediately, so the response status
// can no longer change after this call.
func NewStream(w http.ResponseWriter, r *http.Request, opts ...EncoderOption) *Stream {
	WriteSSEHeaders(w.Header())
	w.Header().Add("Vary", HeaderRequest)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	return &Stream{
		w:       w,
		flusher: flusher,
		ctx:     r.Context(),
		enc:     NewEncoder(opts...),
	}
}

// Context returns the request context. It is canceled when the client
// disconnects; long-running producers should select on it between frames.
func (s *Stream) Context() context.Context {
	return s.ctx
}

// Frames returns the number of frames successfully written so far.
func (s *Stream) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Err returns the sticky stream error, nil while the stream is healthy.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// MergeFragments renders node and sends it as a fragment-merge frame.
func (s *Stream) MergeFragments(node *html.Node, opts ...FragmentOption) error {
	f := Fragment{Node: node}
	for _, opt := range opts {
		opt(&f)
	}
	return s.send(func(e *Encoder) error { return e.EncodeFragment(f) })
}

// MergeHTML sends pre-rendered markup as a fragment-merge frame.
func (s *Stream) MergeHTML(markup string, opts ...FragmentOption) error {
	f := Fragment{HTML: markup}
	for _, opt := range opts {
		opt(&f)
	}
	return s.send(func(e *Encoder) error { return e.EncodeFragment(f) })
}

// MergeFragment sends an explicit Fragment.
func (s *Stream) MergeFragment(f Fragment) error {
	return s.send(func(e *Encoder) error { return e.EncodeFragment(f) })
}

// MergeSignals sends a signal-merge frame.
func (s *Stream) MergeSignals(signals Signals) error {
	return s.send(func(e *Encoder) error { return e.EncodeSignals(signals, false) })
}

// MergeSignalsIfMissing sends a signal-merge frame that only fills in
// signals the client does not already hold.
func (s *Stream) MergeSignalsIfMissing(signals Signals) error {
	return s.send(func(e *Encoder) error { return e.EncodeSignals(signals, true) })
}

// RemoveFragments removes the elements matching selector on the client.
func (s *Stream) RemoveFragments(selector string) error {
	return s.send(func(e *Encoder) error { return e.EncodeRemove(selector) })
}

// ExecuteScript runs script on the client. The script element is removed
// after execution.
func (s *Stream) ExecuteScript(script string) error {
	return s.send(func(e *Encoder) error { return e.EncodeScript(script, true) })
}

// Redirect navigates the client mid-stream. For redirects decided before
// any frame is written, prefer the header-level mechanism so the client
// skips stream setup entirely.
func (s *Stream) Redirect(url string) error {
	return s.ExecuteScript(fmt.Sprintf("window.location.href = %q", url))
}

// send encodes one frame and writes it out under the stream lock.
func (s *Stream) send(encode func(*Encoder) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failed != nil {
		return s.failed
	}
	if err := s.ctx.Err(); err != nil {
		s.failed = fmt.Errorf("%w: %v", ErrInterrupted, err)
		return s.failed
	}

	s.enc.Reset()
	if err := encode(s.enc); err != nil {
		// Encoding failures are frame-local; the stream stays usable.
		return err
	}

	if _, err := s.w.Write(s.enc.Bytes()); err != nil {
		s.failed = fmt.Errorf("%w: %v", ErrInterrupted, err)
		return s.failed
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	s.frames++
	return nil
}
