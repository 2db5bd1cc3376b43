package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"catalog-search/bootstrap"
	"catalog-search/config"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the health endpoint of a running server",
	Long: `Query /health on a locally running server and exit non-zero unless it
answers 200. Intended for Docker HEALTHCHECK in distroless images.

Examples:
  catalog-search healthcheck                 # uses HTTP_ADDR or :3000
  catalog-search healthcheck --addr :8080`,
	RunE: runHealthcheck,
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)

	healthcheckCmd.Flags().String("addr", "", "server listen address (default $HTTP_ADDR or :3000)")
	healthcheckCmd.Flags().Duration("timeout", 2*time.Second, "request timeout")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if addr == "" {
		addr = os.Getenv("HTTP_ADDR")
	}
	if addr == "" {
		addr = config.DefaultHTTPAddr
	}

	if err := bootstrap.Healthcheck(cmd.Context(), addr, timeout); err != nil {
		return err
	}
	cmd.Println("ok")
	return nil
}
