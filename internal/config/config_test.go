package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	lumenerrors "github.com/lumenkit/lumen/internal/errors"
)

func writeToml(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, `
[app]
name = "demo"
module = "example.com/demo"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "demo" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "demo")
	}
	if cfg.Build.Output != "dist" {
		t.Errorf("Build.Output = %q, want dist", cfg.Build.Output)
	}
	if cfg.Dev.Port != 3000 || cfg.Dev.AppPort != 3001 {
		t.Errorf("Dev ports = %d/%d, want 3000/3001", cfg.Dev.Port, cfg.Dev.AppPort)
	}
	if cfg.Static.Dir != "static" {
		t.Errorf("Static.Dir = %q, want static", cfg.Static.Dir)
	}
	if cfg.Root != dir {
		t.Errorf("Root = %q, want %q", cfg.Root, dir)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, `
[app]
name = "demo"

[build]
output = "out"
tags = ["s3"]

[dev]
port = 8080
app_port = 8081
watch = ["cmd", "pkg"]

[static]
dir = "assets"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Build.Output != "out" || len(cfg.Build.Tags) != 1 || cfg.Build.Tags[0] != "s3" {
		t.Errorf("build section = %+v", cfg.Build)
	}
	if cfg.Dev.Port != 8080 || cfg.Dev.AppPort != 8081 {
		t.Errorf("dev ports = %d/%d", cfg.Dev.Port, cfg.Dev.AppPort)
	}
	if len(cfg.Dev.Watch) != 2 {
		t.Errorf("Dev.Watch = %v", cfg.Dev.Watch)
	}
	if cfg.StaticDir() != filepath.Join(dir, "assets") {
		t.Errorf("StaticDir = %q", cfg.StaticDir())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	var de *lumenerrors.Error
	if !stderrors.As(err, &de) || de.Code != "L001" {
		t.Fatalf("err = %v, want L001", err)
	}
}

func TestLoadInvalidToml(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, "[app\nname = demo")

	_, err := Load(dir)
	var de *lumenerrors.Error
	if !stderrors.As(err, &de) || de.Code != "L002" {
		t.Fatalf("err = %v, want L002", err)
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, `
[app]
name = "demo"
colour = "mauve"
`)

	_, err := Load(dir)
	var de *lumenerrors.Error
	if !stderrors.As(err, &de) || de.Code != "L003" {
		t.Fatalf("err = %v, want L003", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"port out of range", "[dev]\nport = 99999\n"},
		{"port collision", "[dev]\nport = 4000\napp_port = 4000\n"},
		{"output escapes", "[build]\noutput = \"../elsewhere\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeToml(t, dir, tt.toml)

			_, err := Load(dir)
			var de *lumenerrors.Error
			if !stderrors.As(err, &de) || de.Code != "L003" {
				t.Fatalf("err = %v, want L003", err)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeToml(t, root, "[app]\nname = \"demo\"\n")
	nested := filepath.Join(root, "pkg", "web")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if cfg.App.Name != "demo" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	// Root resolves to the directory holding the file, not the start dir.
	if cfg.Root != root {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
}

func TestFindMissesEverywhere(t *testing.T) {
	_, err := Find(t.TempDir())
	var de *lumenerrors.Error
	if !stderrors.As(err, &de) || de.Code != "L001" {
		t.Fatalf("err = %v, want L001", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.App.Name = "demo"
	cfg.App.Module = "example.com/demo"

	if err := Write(dir, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.App.Name != "demo" || got.App.Module != "example.com/demo" {
		t.Errorf("round trip = %+v", got.App)
	}
}
