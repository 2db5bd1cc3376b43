// Package cmd contains the CLI commands for catalog-search
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "catalog-search",
	Short: "Product catalog search API",
	Long: `catalog-search serves a small product catalog API on top of an
Elasticsearch or Meilisearch index.

Example usage:
  catalog-search                 # Start the HTTP server (same as "serve")
  catalog-search ensure-index    # Create the catalog index if missing and exit
  catalog-search healthcheck     # Probe a running server (Docker HEALTHCHECK)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
