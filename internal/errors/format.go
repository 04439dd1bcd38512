package errors

import (
	"fmt"
	"os"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls ANSI output; disabled for dumb terminals and
// captured output.
var colorEnabled = true

// DisableColors turns off ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI color output back on.
func EnableColors() { colorEnabled = true }

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(s string) string  { return paint(colorRed, s) }
func cyan(s string) string { return paint(colorCyan, s) }
func gray(s string) string { return paint(colorGray, s) }
func bold(s string) string { return paint(colorBold, s) }

// Format renders the diagnostic for a terminal: header, location with
// source context, detail, suggestion, and doc pointer.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(red(bold("error")))
	if e.Code != "" {
		b.WriteString(bold("[" + e.Code + "]"))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "\n  %s\n", cyan(e.Location.String()))
		if len(e.Context) > 0 {
			start := e.Location.Line - len(e.Context)/2
			for i, line := range e.Context {
				n := start + i
				marker := "  "
				if n == e.Location.Line {
					marker = red("→ ")
				}
				fmt.Fprintf(&b, "  %s%4d %s %s\n", marker, n, gray("│"), line)
				if n == e.Location.Line && e.Location.Column > 0 {
					b.WriteString(strings.Repeat(" ", 11+e.Location.Column))
					b.WriteString(red("^"))
					b.WriteString("\n")
				}
			}
		}
	}

	if e.Detail != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "\n  %s %v\n", gray("cause:"), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", bold("hint:"), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", gray("docs:"), cyan(e.DocURL))
	}
	return b.String()
}

// Report prints the diagnostic to stderr. Plain errors print as a bare
// error line.
func Report(err error) {
	if err == nil {
		return
	}
	if de, ok := err.(*Error); ok {
		fmt.Fprint(os.Stderr, de.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red(bold("error")), err)
}
