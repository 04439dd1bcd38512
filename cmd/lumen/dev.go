package main

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumenkit/lumen/internal/config"
	"github.com/lumenkit/lumen/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port    int
		appPort int
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the development server",
		Long: `Run the app behind a reloading proxy.

Saving a Go file rebuilds and restarts the app; saving a stylesheet
swaps it in place; build errors appear as an overlay in the browser.

Examples:
  lumen dev
  lumen dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, appPort)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Proxy port (default from lumen.toml)")
	cmd.Flags().IntVar(&appPort, "app-port", 0, "App process port (default from lumen.toml)")

	return cmd
}

func runDev(port, appPort int) error {
	if _, err := exec.LookPath("go"); err != nil {
		warn("the Go toolchain is not in PATH; install it from https://go.dev/dl/")
		return err
	}

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

	server := dev.NewServer(dev.Options{
		Config:  cfg,
		Port:    port,
		AppPort: appPort,
	})
	return server.Run(ctx)
}
