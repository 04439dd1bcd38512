// Package routepath normalizes request paths before routing.
//
// Every request path is canonicalized once, up front. Paths that
// normalize to something else get one permanent redirect, so each
// resource has a single canonical URL; paths that cannot be made safe
// are rejected outright.
package routepath

import (
	"errors"
	"strings"
)

// CanonicalizeResult is the outcome of canonicalizing one path.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed reports whether the path was modified. A changed path is
	// redirected rather than served, so crawlers converge on one URL.
	Changed bool
}

// Canonicalization errors. All of them reject the request; none are
// recoverable by normalization.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a URL path:
//   - strips the trailing slash (except for root "/")
//   - collapses duplicate slashes (/blog//post -> /blog/post)
//   - drops "." segments (/blog/./post -> /blog/post)
//   - resolves ".." segments (/blog/../other -> /other)
//
// It rejects paths containing a backslash, a NUL byte (literal or
// %00), an invalid percent-escape, or a ".." that would climb above
// root. Callers should pass the escaped form of the path so literal
// percent signs in decoded segments are not mistaken for escapes.
//
// A query string may ride along; it is preserved untouched.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	original := path

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	segments := strings.Split(path, "/")
	var result []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	path = "/" + strings.Join(result, "/")
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	return CanonicalizeResult{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// validatePercentEscapes checks that every % starts a %XX escape with
// two hex digits.
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) {
			return ErrInvalidPercentEscape
		}
		if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// SafeRedirectPath canonicalizes a user-supplied return-to path, for
// the "?next=/account" pattern after login. It admits relative paths
// only, so a crafted next parameter cannot send visitors off-site:
//
//	next, err := routepath.SafeRedirectPath(ctx.Query("next"))
//	if err != nil {
//	    next = "/"
//	}
//	return lumen.Redirect(next)
func SafeRedirectPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	result, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}
	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}
