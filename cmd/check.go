package cmd

import (
	"errors"
	"fmt"

	"asset-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// checkCmd groups integrity checks.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Perform integrity checks",
}

// checkSchemaCmd compares the database with the models.
var checkSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compare the live database schema with the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := integrity.NewService(rt.db, rt.storage, rt.cfg.Storage, rt.logger)
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Matched {
			return errors.New("schema does not match the models, run migrate")
		}
		rt.logger.Info("Schema matches", zap.Int("tables", len(report.Tables)))
		return nil
	},
}

// checkArchiveCmd verifies the webhook archive bucket.
var checkArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check and optionally create the webhook archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := integrity.NewService(rt.db, rt.storage, rt.cfg.Storage, rt.logger)
		report, err := svc.CheckArchive(ctx, fixFlag)
		if err != nil {
			return fmt.Errorf("archive check failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	checkArchiveCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")

	checkCmd.AddCommand(checkSchemaCmd)
	checkCmd.AddCommand(checkArchiveCmd)
	RootCmd.AddCommand(checkCmd)
}
