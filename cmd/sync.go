package cmd

import (
	"fmt"

	"asset-sync/core/logger"
	"asset-sync/core/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepStale bool

// syncCmd runs a pull for one connection, or for every due connection.
var syncCmd = &cobra.Command{
	Use:   "sync <connection-id|due>",
	Short: "Pull assets for a connection now",
	Long: `Runs a pull sync for one connection and prints the resulting run.

Examples:
  # Sync connection 3
  sync 3

  # Sync every active connection whose frequency has elapsed
  sync due`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if args[0] == "due" {
			rt, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.syncer.SyncDue(ctx)
			if err != nil {
				return fmt.Errorf("failed to sync due connections: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), report)
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		run, err := rt.syncer.SyncConnection(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to sync connection %d: %w", id, err)
		}
		if err := printJSON(cmd.OutOrStdout(), run); err != nil {
			return err
		}
		if run.Status == models.RunFailed {
			return fmt.Errorf("sync run %s failed: %s", run.RunID, run.ErrorMessage)
		}
		return nil
	},
}

// retryCmd retries failed runs whose backoff has elapsed.
var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry failed pull runs that are due",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if sweepStale {
			n, err := rt.syncer.SweepStaleRuns(ctx)
			if err != nil {
				return fmt.Errorf("failed to sweep stale runs: %w", err)
			}
			rt.logger.Info("Swept stale runs", zap.Int("count", n))
		}

		report, err := rt.syncer.RetryFailedRuns(ctx)
		if err != nil {
			return fmt.Errorf("failed to retry runs: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

// discoverCmd lists the vendor-side tenants of a connection.
var discoverCmd = &cobra.Command{
	Use:   "discover <connection-id>",
	Short: "List vendor clients of a connection for mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		conn, prov, err := rt.syncer.LoadConnection(ctx, id)
		if err != nil {
			return err
		}

		rt.logger.Info("Discovering clients", logger.Connection(conn.ID, conn.ProviderKey)...)
		clients, err := prov.DiscoverClients(ctx, conn)
		if err != nil {
			return fmt.Errorf("failed to discover clients: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), clients)
	},
}

// providersCmd lists the registered vendor adapters.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported vendor adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		return printJSON(cmd.OutOrStdout(), rt.registry.List())
	},
}

func init() {
	retryCmd.Flags().BoolVar(&sweepStale, "sweep-stale", false, "Fail runs stuck in running before retrying")

	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(retryCmd)
	RootCmd.AddCommand(discoverCmd)
	RootCmd.AddCommand(providersCmd)
}
