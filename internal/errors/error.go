package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category groups diagnostics by the subsystem that raised them.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryBuild  Category = "build"
	CategoryDev    Category = "dev"
	CategoryCLI    Category = "cli"
)

// Location is a position in a source or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a diagnostic for CLI and tooling failures: a coded message
// with optional location, suggestion, and documentation pointer. The
// runtime packages use plain wrapped errors; this richer shape exists
// for humans at a terminal.
type Error struct {
	Code       string // registry identifier, e.g. "L101"
	Category   Category
	Message    string
	Detail     string
	Location   *Location
	Context    []string // source lines around Location
	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Wrapped }

// WithLocation pins the diagnostic to a file position and captures the
// surrounding lines for display.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextLines(file, line, 5)
	return e
}

// WithLocationFromError parses a "file:line:column: message" prefix,
// the format both the Go toolchain and the TOML decoder emit.
func (e *Error) WithLocationFromError(err error) *Error {
	if err == nil {
		return e
	}
	parts := strings.SplitN(err.Error(), ":", 4)
	if len(parts) >= 3 {
		var line, col int
		fmt.Sscanf(parts[1], "%d", &line)
		fmt.Sscanf(parts[2], "%d", &col)
		if line > 0 {
			return e.WithLocation(parts[0], line, col)
		}
	}
	return e
}

// WithSuggestion adds a fix hint.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a longer explanation.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap records the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New builds a diagnostic from a registered code. Unregistered codes
// still produce a usable error rather than panicking mid-report.
func New(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "unknown error"}
	}
	return &Error{
		Code:       code,
		Category:   tmpl.Category,
		Message:    tmpl.Message,
		Detail:     tmpl.Detail,
		Suggestion: tmpl.Suggestion,
		DocURL:     tmpl.DocURL,
	}
}

// Newf builds an uncoded diagnostic.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// From wraps err under a registered code, passing existing diagnostics
// through untouched.
func From(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*Error); ok {
		return de
	}
	return New(code).Wrap(err)
}

func contextLines(filename string, target, window int) []string {
	f, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer f.Close()

	start := target - window/2
	end := target + window/2

	var lines []string
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		if n >= start && n <= end {
			lines = append(lines, scanner.Text())
		}
		if n > end {
			break
		}
	}
	return lines
}
