// Package errors provides coded diagnostics for the lumen CLI and
// tooling: terminal-formatted errors with a source location, a fix
// suggestion, and a documentation link. Application-facing packages
// use ordinary wrapped errors; this package exists for messages a
// human reads at a terminal during create/dev/build.
//
//	return errors.New("L101").
//	    WithLocationFromError(compileErr).
//	    Wrap(compileErr)
package errors
