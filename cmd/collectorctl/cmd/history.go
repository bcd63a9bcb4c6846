package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const defaultRetention = 365 * 24 * time.Hour

func newHistoryCmd(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Price and legality history of owned cards",
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Refresh owned cards from the provider and record their prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			result, err := c.History.Snapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("history.Snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cards %d, rows %d, errors %d\n",
				result.Processed, result.Recorded, result.Errors)

			return nil
		},
	}

	var olderThan time.Duration

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete history rows older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			purged, err := c.History.PurgeOlderThan(cmd.Context(), olderThan)
			if err != nil {
				return fmt.Errorf("history.PurgeOlderThan: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d rows\n", purged)

			return nil
		},
	}

	purgeCmd.Flags().DurationVar(&olderThan, "older-than", defaultRetention, "retention period")

	historyCmd.AddCommand(snapshotCmd, purgeCmd)

	return historyCmd
}
