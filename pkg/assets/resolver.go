package assets

import "strings"

// Resolver maps a source asset name to the URL path it is served under.
// App.Asset and Ctx.Asset delegate here.
type Resolver interface {
	Asset(source string) string
}

// resolver handles both modes: with a manifest it rewrites names to
// their fingerprinted copies, without one it only applies the prefix.
type resolver struct {
	manifest Manifest
	prefix   string
}

// NewResolver resolves names through a build manifest and mounts them
// under prefix.
func NewResolver(m Manifest, prefix string) Resolver {
	return resolver{manifest: m, prefix: normalizePrefix(prefix)}
}

// NewPassthroughResolver mounts names under prefix unchanged, for
// development where no build has run. Markup stays identical to
// production apart from the missing fingerprints.
func NewPassthroughResolver(prefix string) Resolver {
	return resolver{prefix: normalizePrefix(prefix)}
}

func (r resolver) Asset(source string) string {
	source = strings.TrimPrefix(source, "/")
	if r.manifest != nil {
		source = r.manifest.Resolve(source)
	}
	return r.prefix + source
}

// normalizePrefix pins the prefix between slashes. "" and "/" both mean
// the site root.
func normalizePrefix(prefix string) string {
	if prefix == "" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
