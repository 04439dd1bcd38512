package datastar

import "errors"

// Protocol errors.
var (
	// ErrInvalidMergeMode is returned for a merge mode token outside the
	// recognized set.
	ErrInvalidMergeMode = errors.New("datastar: invalid merge mode")

	// ErrInvalidSelector is returned for a selector that could corrupt
	// frame framing or cannot address an element.
	ErrInvalidSelector = errors.New("datastar: invalid selector")

	// ErrInvalidSignals is returned when a signal patch cannot be
	// serialized or an inbound signal document is not valid JSON.
	ErrInvalidSignals = errors.New("datastar: invalid signals")

	// ErrInterrupted is returned by stream operations after the client
	// has disconnected. Production should stop; the disconnect is not a
	// handler error.
	ErrInterrupted = errors.New("datastar: stream interrupted")
)
