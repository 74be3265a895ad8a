package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Clear the existing data and create new tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.DB.InitSchema(cmd.Context()); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized the database.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
