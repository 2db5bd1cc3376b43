package cmd

import (
	"github.com/spf13/cobra"

	"catalog-search/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Connect to the search engine, make sure the catalog index exists and
serve the HTTP API until SIGINT or SIGTERM.

Configuration is read from the environment (and an optional .env file).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return bootstrap.Run(ctx)
}
