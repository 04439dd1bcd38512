// Package dev runs the development server: a reverse proxy in front of
// the app process that rebuilds on source changes and pushes reload
// messages to connected browsers over a websocket.
package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ChangeKind classifies what a changed file affects.
type ChangeKind int

const (
	// ChangeGo requires a rebuild and restart.
	ChangeGo ChangeKind = iota

	// ChangeCSS can be hot-swapped without reloading the page.
	ChangeCSS

	// ChangeAsset needs a full page reload but no rebuild.
	ChangeAsset
)

// Change is one detected file change.
type Change struct {
	Path string
	Kind ChangeKind
}

// DefaultIgnore lists the names and patterns never worth rebuilding
// over.
var DefaultIgnore = []string{
	".git",
	".lumen",
	".sesskey",
	"node_modules",
	"dist",
	"*_test.go",
	"*.tmp",
	"*.swp",
	"*~",
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are the directories to scan.
	Paths []string

	// Ignore extends DefaultIgnore. Entries match either a path
	// segment exactly or the base name as a glob.
	Ignore []string

	// Interval is the poll interval. Default 200ms.
	Interval time.Duration
}

// Watcher polls the filesystem for modified, created, and deleted
// files. Polling is deliberate: it needs no platform notification APIs
// and one scan per interval is cheap at project scale.
type Watcher struct {
	cfg      WatcherConfig
	ignore   []string
	modTimes map[string]time.Time
}

// NewWatcher creates a watcher. The first scan happens inside Run, so
// files existing before Run never report as created.
func NewWatcher(cfg WatcherConfig) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 200 * time.Millisecond
	}
	return &Watcher{
		cfg:      cfg,
		ignore:   append(append([]string{}, DefaultIgnore...), cfg.Ignore...),
		modTimes: make(map[string]time.Time),
	}
}

// Run polls until ctx is done, sending each interval's changes as one
// batch. The channel is not closed on return.
func (w *Watcher) Run(ctx context.Context, events chan<- []Change) error {
	w.scan(false)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if changes := w.scan(true); len(changes) > 0 {
				select {
				case events <- changes:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// scan walks the watched paths and diffs mod times against the last
// scan. Deleted files are detected by their absence.
func (w *Watcher) scan(report bool) []Change {
	var changes []Change
	seen := make(map[string]bool, len(w.modTimes))

	for _, root := range w.cfg.Paths {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if w.ignored(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if w.ignored(path) {
				return nil
			}

			seen[path] = true
			mod := info.ModTime()
			last, known := w.modTimes[path]
			w.modTimes[path] = mod

			if report && (!known || mod.After(last)) {
				changes = append(changes, Change{Path: path, Kind: classify(path)})
			}
			return nil
		})
	}

	for path := range w.modTimes {
		if !seen[path] {
			delete(w.modTimes, path)
			if report {
				changes = append(changes, Change{Path: path, Kind: classify(path)})
			}
		}
	}

	return changes
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if base == pattern {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".mod", ".toml":
		return ChangeGo
	case ".css":
		return ChangeCSS
	default:
		return ChangeAsset
	}
}

// Coalesce reduces a batch to its strongest consequence: a rebuild
// subsumes a reload, and a reload subsumes a CSS swap.
func Coalesce(changes []Change) ChangeKind {
	kind := ChangeCSS
	for _, c := range changes {
		switch c.Kind {
		case ChangeGo:
			return ChangeGo
		case ChangeAsset:
			kind = ChangeAsset
		}
	}
	return kind
}
