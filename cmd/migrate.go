package cmd

import (
	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the database tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
