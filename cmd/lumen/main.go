// Command lumen is the project CLI: scaffolding, the dev server, and
// production builds.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenkit/lumen/internal/errors"
)

// Version information set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Server-rendered hypermedia apps in Go",
		Long: `Lumen builds server-rendered web applications whose handlers are
plain Go functions. Pages are components, updates are HTML fragments
over server-sent events, and there is no client build step.

Commands:
  create   Scaffold a new project
  dev      Run with rebuild-on-save and browser reload
  build    Produce the production binary and asset manifest`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(),
		devCmd(),
		buildCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Report(err)
		os.Exit(1)
	}
}

// success prints a green check line.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an indented progress line.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a yellow warning line.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
