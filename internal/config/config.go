// Package config loads the lumen.toml project file the CLI works from.
// Runtime configuration stays on lumen.Config and the environment; this
// file only describes the project on disk: where sources and static
// assets live, how to build, and what the dev server should do.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lumenkit/lumen/internal/errors"
)

// FileName is the project file's name.
const FileName = "lumen.toml"

// Config is the parsed project file.
type Config struct {
	App    AppConfig    `toml:"app"`
	Build  BuildConfig  `toml:"build"`
	Dev    DevConfig    `toml:"dev"`
	Static StaticConfig `toml:"static"`

	// Root is the directory containing lumen.toml, set by Load.
	Root string `toml:"-"`
}

// AppConfig identifies the project.
type AppConfig struct {
	// Name is the project name, used in scaffolding and logs.
	Name string `toml:"name"`

	// Module is the Go module path, informational for tooling.
	Module string `toml:"module"`

	// Main is the package built and run, relative to Root. Default ".".
	Main string `toml:"main"`
}

// BuildConfig controls `lumen build`.
type BuildConfig struct {
	// Output is the build output directory. Default "dist".
	Output string `toml:"output"`

	// Tags are extra build tags, e.g. "s3" for the S3 upload store.
	Tags []string `toml:"tags"`

	// Ldflags are passed through to the Go linker.
	Ldflags string `toml:"ldflags"`
}

// DevConfig controls `lumen dev`.
type DevConfig struct {
	// Port is the dev server's public port. Default 3000.
	Port int `toml:"port"`

	// AppPort is where the watched app process listens. Default 3001.
	AppPort int `toml:"app_port"`

	// Watch lists directories to watch, relative to Root. Default ["."].
	Watch []string `toml:"watch"`

	// Ignore adds glob patterns to the built-in ignore list.
	Ignore []string `toml:"ignore"`
}

// StaticConfig locates the project's static assets.
type StaticConfig struct {
	// Dir is the static asset directory. Default "static".
	Dir string `toml:"dir"`
}

// Default returns the configuration a bare lumen.toml implies.
func Default() Config {
	return Config{
		App:    AppConfig{Main: "."},
		Build:  BuildConfig{Output: "dist"},
		Dev:    DevConfig{Port: 3000, AppPort: 3001, Watch: []string{"."}},
		Static: StaticConfig{Dir: "static"},
	}
}

// Load reads and validates dir/lumen.toml.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)

	if _, err := os.Stat(path); err != nil {
		return cfg, errors.New("L001").WithDetail("looked for %s", path)
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		de := errors.New("L002").Wrap(err)
		if perr, ok := err.(toml.ParseError); ok {
			de = de.WithLocation(path, perr.Position.Line, perr.Position.Col)
		}
		return cfg, de
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New("L003").
			WithDetail("unknown keys in %s: %s", FileName, strings.Join(keys, ", ")).
			WithSuggestion("Remove the keys or check their spelling.")
	}

	cfg.Root = dir
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Find walks from dir upward to the filesystem root looking for a
// project file, then loads it.
func Find(dir string) (Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Default(), err
	}
	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, FileName)); err == nil {
			return Load(d)
		}
		if d == filepath.Dir(d) {
			return Default(), errors.New("L001").WithDetail("searched from %s upward", abs)
		}
	}
}

// Write serializes cfg to dir/lumen.toml, for scaffolding.
func Write(dir string, cfg Config) error {
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) validate() error {
	if c.Dev.Port <= 0 || c.Dev.Port > 65535 {
		return errors.New("L003").WithDetail("dev.port %d is out of range", c.Dev.Port)
	}
	if c.Dev.AppPort <= 0 || c.Dev.AppPort > 65535 {
		return errors.New("L003").WithDetail("dev.app_port %d is out of range", c.Dev.AppPort)
	}
	if c.Dev.Port == c.Dev.AppPort {
		return errors.New("L003").
			WithDetail("dev.port and dev.app_port are both %d", c.Dev.Port).
			WithSuggestion("The dev proxy and the app need distinct ports.")
	}
	if strings.Contains(c.Build.Output, "..") {
		return errors.New("L003").WithDetail("build.output %q escapes the project", c.Build.Output)
	}
	return nil
}

// OutputDir returns the absolute build output directory.
func (c *Config) OutputDir() string { return filepath.Join(c.Root, c.Build.Output) }

// StaticDir returns the absolute static asset directory.
func (c *Config) StaticDir() string { return filepath.Join(c.Root, c.Static.Dir) }
