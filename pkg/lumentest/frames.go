package lumentest

import (
	"strings"
)

// Frame is one parsed SSE frame.
type Frame struct {
	Event string
	Retry string
	Data  []string // "data:" payloads, prefix stripped, in order
}

// Field collects the values of one data field, e.g. Field("fragments")
// returns each fragment line. Multi-line payloads come back joined with
// newlines by the convenience accessors below.
func (f Frame) Field(name string) []string {
	var out []string
	for _, d := range f.Data {
		if rest, ok := strings.CutPrefix(d, name+" "); ok {
			out = append(out, rest)
		}
	}
	return out
}

// Selector returns the frame's selector field, or "".
func (f Frame) Selector() string { return first(f.Field("selector")) }

// MergeMode returns the frame's mergeMode field, or "".
func (f Frame) MergeMode() string { return first(f.Field("mergeMode")) }

// FragmentHTML reassembles the frame's fragment lines into HTML.
func (f Frame) FragmentHTML() string { return strings.Join(f.Field("fragments"), "\n") }

// SignalsJSON reassembles the frame's signal lines into one JSON document.
func (f Frame) SignalsJSON() string { return strings.Join(f.Field("signals"), "\n") }

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// Frames parses the response body as a sequence of SSE frames.
func (r *Response) Frames() []Frame {
	r.t.Helper()
	return ParseFrames(r.Body())
}

// ExpectFrames asserts the stream carries exactly n frames and returns
// them.
func (r *Response) ExpectFrames(n int) []Frame {
	r.t.Helper()
	frames := r.Frames()
	if len(frames) != n {
		r.t.Errorf("stream has %d frames, want %d\n%s", len(frames), n, truncate(r.Body(), 800))
	}
	return frames
}

// ParseFrames splits raw SSE text into frames. Frames end at a blank
// line; unterminated trailing data is ignored, matching what a client
// would act on.
func ParseFrames(raw string) []Frame {
	var frames []Frame
	var cur Frame
	var open bool

	flush := func() {
		if open {
			frames = append(frames, cur)
			cur = Frame{}
			open = false
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "event: "):
			cur.Event = line[len("event: "):]
			open = true
		case strings.HasPrefix(line, "retry: "):
			cur.Retry = line[len("retry: "):]
			open = true
		case strings.HasPrefix(line, "data: "):
			cur.Data = append(cur.Data, line[len("data: "):])
			open = true
		}
	}
	return frames
}
