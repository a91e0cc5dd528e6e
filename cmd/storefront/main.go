// Command storefront serves the cart API of the storefront.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/storefront/internal/cmd/storefront"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	HTTPAddr string
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront cart service",
		Long:  "Serves cart reads and mutations against a Shopify Storefront API.",
	}

	cmd.AddCommand(newServeCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP server",
		Long: `Start the storefront HTTP server.

Configuration is read from the environment (SHOPIFY_STORE_DOMAIN is required).

Example:
  SHOPIFY_STORE_DOMAIN=demo.myshopify.com storefront serve --http-addr :3000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", "", "HTTP listen address (overrides STOREFRONT_HTTP_ADDR)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.HTTPAddr != "" {
		cfg.HTTPAddr = opts.HTTPAddr
	}

	logger, err := logging.New(cfg.Production())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return storefront.Run(ctx, cfg, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
