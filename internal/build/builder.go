// Package build produces the production artifacts for a project: the
// compiled binary, the fingerprinted static tree, and the manifest.json
// that pkg/assets resolves against at runtime.
package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lumenkit/lumen/internal/config"
	"github.com/lumenkit/lumen/internal/errors"
	"github.com/lumenkit/lumen/pkg/assets"
)

// Result describes a finished build.
type Result struct {
	Duration time.Duration

	// Binary is the compiled server's path.
	Binary string

	// StaticDir is the fingerprinted static tree's path.
	StaticDir string

	// Manifest maps source asset names to fingerprinted names,
	// mirroring what was written to manifest.json.
	Manifest assets.Manifest
}

// Options adjusts a build beyond what lumen.toml says.
type Options struct {
	// Output overrides the configured output directory.
	Output string

	// Tags adds build tags on top of the configured ones.
	Tags []string

	// Binary names the compiled server. Default "server".
	Binary string

	// OnProgress receives step announcements for CLI display.
	OnProgress func(step string)
}

// Builder runs production builds for one project.
type Builder struct {
	cfg  config.Config
	opts Options
}

// New creates a builder. Options layer over the project file.
func New(cfg config.Config, opts Options) *Builder {
	if opts.Binary == "" {
		opts.Binary = "server"
	}
	opts.Tags = append(opts.Tags, cfg.Build.Tags...)
	return &Builder{cfg: cfg, opts: opts}
}

func (b *Builder) outputDir() string {
	if b.opts.Output != "" {
		return b.opts.Output
	}
	return b.cfg.OutputDir()
}

// Build compiles the project and assembles the output directory:
//
//	dist/
//	├── server          compiled binary
//	├── manifest.json   source name to fingerprinted name
//	└── static/         fingerprinted asset copies
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	out := b.outputDir()

	b.progress("cleaning " + out)
	if err := os.RemoveAll(out); err != nil {
		return nil, errors.From(err, "L102")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, errors.From(err, "L102")
	}

	b.progress("compiling")
	binary := filepath.Join(out, b.opts.Binary)
	if err := b.compile(ctx, binary); err != nil {
		return nil, err
	}

	b.progress("fingerprinting assets")
	staticOut := filepath.Join(out, "static")
	manifest, err := b.fingerprint(staticOut)
	if err != nil {
		return nil, err
	}

	if err := manifest.Write(filepath.Join(out, "manifest.json")); err != nil {
		return nil, errors.From(err, "L102")
	}

	return &Result{
		Duration:  time.Since(start),
		Binary:    binary,
		StaticDir: staticOut,
		Manifest:  manifest,
	}, nil
}

// Clean removes the output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.outputDir())
}

func (b *Builder) compile(ctx context.Context, output string) error {
	abs, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	args := []string{"build", "-trimpath", "-o", abs}
	ldflags := "-s -w"
	if b.cfg.Build.Ldflags != "" {
		ldflags = b.cfg.Build.Ldflags + " " + ldflags
	}
	args = append(args, "-ldflags", ldflags)
	if len(b.opts.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.opts.Tags, ","))
	}
	main := b.cfg.App.Main
	if main == "" {
		main = "."
	}
	args = append(args, "./"+filepath.ToSlash(filepath.Clean(main)))

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.cfg.Root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return b.compileError(stderr.String(), err)
	}
	return nil
}

var locLine = regexp.MustCompile(`^(.+\.go):(\d+):(\d+): (.*)$`)

// compileError turns go build stderr into a located diagnostic. The
// full compiler output stays in the detail; the first positioned line
// becomes the location.
func (b *Builder) compileError(stderr string, cause error) error {
	de := errors.New("L101").Wrap(cause)
	if s := strings.TrimSpace(stderr); s != "" {
		de = de.WithDetail("%s", s)
	}
	for _, line := range strings.Split(stderr, "\n") {
		m := locLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		file := m[1]
		if !filepath.IsAbs(file) {
			file = filepath.Join(b.cfg.Root, file)
		}
		var lineNo, col int
		fmt.Sscanf(m[2], "%d", &lineNo)
		fmt.Sscanf(m[3], "%d", &col)
		return de.WithLocation(file, lineNo, col)
	}
	return de
}

// fingerprint copies the static tree into dst, renaming each file to
// name.<hash8>.ext, and returns the source-to-fingerprinted mapping.
// A missing static directory is not an error; the manifest is empty.
func (b *Builder) fingerprint(dst string) (assets.Manifest, error) {
	manifest := make(assets.Manifest)

	src := b.cfg.StaticDir()
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return manifest, nil
	}

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		hashed := assets.FingerprintName(rel, hash[:8])

		target := filepath.Join(dst, filepath.FromSlash(hashed))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, target); err != nil {
			return err
		}

		manifest[rel] = hashed
		return nil
	})
	if err != nil {
		return nil, errors.From(err, "L102")
	}
	return manifest, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func (b *Builder) progress(step string) {
	if b.opts.OnProgress != nil {
		b.opts.OnProgress(step)
	}
}
