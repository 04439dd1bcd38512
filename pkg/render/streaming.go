package render

import (
	"io"
	"net/http"

	"github.com/lumenkit/lumen/pkg/html"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes content incrementally for faster time-to-first-byte.
type StreamingRenderer struct {
	*Renderer
	flusher http.Flusher
	w       io.Writer
}

// NewStreaming creates a streaming renderer that writes to an
// http.ResponseWriter. If the writer implements http.Flusher, content is
// flushed after the head and after each top-level body node.
func NewStreaming(w http.ResponseWriter, config Config) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer: New(config),
		flusher:  flusher,
		w:        w,
	}
}

// Document renders a full page with incremental flushing. The head is
// flushed immediately for faster first paint, then each top-level content
// node as it completes.
func (s *StreamingRenderer) Document(page Page, content ...*html.Node) error {
	doc := page.Build(content...)

	if _, err := io.WriteString(s.w, "<!doctype html>"); err != nil {
		return err
	}

	// doc is html(head, body) by construction.
	if _, err := io.WriteString(s.w, "<html"); err != nil {
		return err
	}
	if err := s.renderAttributes(s.w, doc); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, ">"); err != nil {
		return err
	}

	head := doc.Children[0]
	body := doc.Children[1]

	if err := s.renderNode(s.w, head, 0); err != nil {
		return err
	}
	s.flush()

	if _, err := io.WriteString(s.w, "<body"); err != nil {
		return err
	}
	if err := s.renderAttributes(s.w, body); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, ">"); err != nil {
		return err
	}

	for _, child := range body.Children {
		if err := s.renderNode(s.w, child, 0); err != nil {
			return err
		}
		s.flush()
	}

	if _, err := io.WriteString(s.w, "</body></html>"); err != nil {
		return err
	}
	s.flush()

	return nil
}

// flush flushes the writer if it supports flushing.
func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// FlushableWriter wraps an io.Writer with flush counting. It is useful for
// testing streaming behavior without a real http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
