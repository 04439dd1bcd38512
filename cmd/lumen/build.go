package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenkit/lumen/internal/build"
	"github.com/lumenkit/lumen/internal/config"
)

func buildCmd() *cobra.Command {
	var (
		output string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Compile the server binary and assemble the output directory:
the binary, the fingerprinted static assets, and the manifest.json the
app resolves asset names through.

Examples:
  lumen build
  lumen build --output=out
  lumen build --tags=s3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, tags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from lumen.toml)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Extra build tags")

	return cmd
}

func runBuild(output string, tags []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Find(wd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := build.New(cfg, build.Options{
		Output:     output,
		Tags:       tags,
		OnProgress: func(step string) { info(step) },
	})

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	success("built in %s", result.Duration.Round(time.Millisecond))
	info("%s (%d fingerprinted assets)", result.Binary, len(result.Manifest))
	fmt.Println()
	out := filepath.Dir(result.Binary)
	fmt.Println("  To run:")
	fmt.Printf("    LUMEN_STATIC_DIR=%s LUMEN_ASSET_MANIFEST=%s %s\n",
		result.StaticDir, filepath.Join(out, "manifest.json"), result.Binary)
	fmt.Println()
	return nil
}
