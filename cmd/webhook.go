package cmd

import (
	"fmt"
	"os"

	"asset-sync/feature/webhook"

	"github.com/spf13/cobra"
)

// webhookCmd groups webhook maintenance commands.
var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Webhook maintenance",
}

// webhookReplayCmd processes a saved payload as if it had been pushed.
var webhookReplayCmd = &cobra.Command{
	Use:   "replay <connection-id> <file>",
	Short: "Process a saved webhook payload for a connection",
	Long: `Reads a JSON payload from a file and reconciles it as a push run for the connection.
The signature is not checked. Use "-" to read the payload from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var payload []byte
		if args[1] == "-" {
			payload, err = readAll(cmd.InOrStdin())
		} else {
			payload, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		run, err := webhook.NewProcessor(rt.syncer, rt.logger).Replay(ctx, id, payload)
		if err != nil {
			return fmt.Errorf("failed to replay payload: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), run)
	},
}

func init() {
	webhookCmd.AddCommand(webhookReplayCmd)
	RootCmd.AddCommand(webhookCmd)
}
