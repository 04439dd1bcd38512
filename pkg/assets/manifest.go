// Package assets bridges the build pipeline and the running app. A
// production build fingerprints the static tree and records the renames
// in manifest.json; the app loads that manifest once at startup and
// resolves source names to the cache-busted URLs it actually serves.
//
//	m, _ := assets.Load("dist/manifest.json")
//	r := assets.NewResolver(m, "/static/")
//
//	// In a component:
//	html.Link(html.Rel("stylesheet"), html.Href(r.Asset("app.css")))
//	// <link rel="stylesheet" href="/static/app.e5f6a7b8.css">
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// Manifest maps source asset names to their fingerprinted copies. Names
// are slash-separated and relative to the static root on both sides.
// Builds write the map once; the app never mutates it afterwards.
type Manifest map[string]string

// FingerprintName inserts a content hash before the extension, keeping
// any directory part: "css/app.css" with hash "1a2b3c4d" becomes
// "css/app.1a2b3c4d.css". Extensionless names get the hash appended.
func FingerprintName(rel, hash string) string {
	ext := path.Ext(rel)
	return strings.TrimSuffix(rel, ext) + "." + hash + ext
}

// Load reads a manifest.json written by a build: one flat JSON object
// of source-to-fingerprinted names.
func Load(file string) (Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: %s is not an asset manifest: %w", file, err)
	}
	return m, nil
}

// Write stores the manifest as indented JSON. Keys marshal sorted, so
// identical builds produce byte-identical manifests.
func (m Manifest) Write(file string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, append(data, '\n'), 0o644)
}

// Resolve returns the fingerprinted name for source, or source itself
// when the build never saw it. Passing unknown names through keeps
// dev-only files resolvable with the same call sites.
func (m Manifest) Resolve(source string) string {
	if hashed, ok := m[source]; ok {
		return hashed
	}
	return source
}
