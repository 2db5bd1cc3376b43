package cmd

import (
	"github.com/spf13/cobra"

	"catalog-search/bootstrap"
)

var ensureIndexCmd = &cobra.Command{
	Use:   "ensure-index",
	Short: "Create the catalog index if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		if err := bootstrap.EnsureIndex(ctx); err != nil {
			return err
		}
		cmd.Println("index ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexCmd)
}
