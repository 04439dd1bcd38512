package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenkit/lumen/internal/errors"
	"github.com/lumenkit/lumen/internal/templates"
)

func createCmd() *cobra.Command {
	var (
		template string
		module   string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Scaffold a new project",
		Long: `Scaffold a new Lumen project in a directory named after it.

Templates:
  minimal   A single-file app with one page
  full      A starter with a counter, a form, and a live stream (default)

Examples:
  lumen create my-app
  lumen create my-app --template=minimal
  lumen create my-app --module=github.com/me/my-app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], template, module)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "full", "Project template (minimal, full)")
	cmd.Flags().StringVarP(&module, "module", "m", "", "Go module path (default: the project name)")

	return cmd
}

var projectName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

func runCreate(name, templateName, module string) error {
	if !projectName.MatchString(name) {
		return errors.New("L302").WithDetail("%q is not a usable project name", name)
	}

	dir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		return errors.New("L301").WithDetail("%s already exists", dir)
	}

	if module == "" {
		module = name
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	info("creating %s from the %s template", name, templateName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data := templates.Data{
		ProjectName:  name,
		ModulePath:   module,
		LumenVersion: lumenVersion(),
	}
	if err := tmpl.Create(dir, data); err != nil {
		os.RemoveAll(dir)
		return err
	}

	info("resolving dependencies")
	if err := goModTidy(dir); err != nil {
		warn("go mod tidy failed: %v", err)
		info("run it manually once the module cache is reachable")
	}

	fmt.Println()
	success("created %s/", name)
	fmt.Println()
	fmt.Printf("    cd %s\n", name)
	fmt.Println("    lumen dev")
	fmt.Println()
	return nil
}

// lumenVersion pins the scaffolded go.mod to this CLI's release. A dev
// build has no release to pin, so scaffolds track the latest.
func lumenVersion() string {
	if version == "dev" || !strings.HasPrefix(version, "v") {
		return "latest"
	}
	return version
}

func goModTidy(dir string) error {
	cmd := exec.Command("go", "mod", "tidy")
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
