package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLedgerCmd(a *app) *cobra.Command {
	var foil bool

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and adjust owned quantities",
		Long: `Owned quantities are tracked per card and per foil variant.

Subcommands:
  get    - print both variants of a card
  set    - overwrite a quantity
  add    - add (or with a negative number, remove) copies
  clear  - delete every ledger entry, trades and decks stay`,
	}

	ledgerCmd.PersistentFlags().BoolVar(&foil, "foil", false, "use the foil variant")

	getCmd := &cobra.Command{
		Use:   "get <card-id>",
		Short: "Print owned quantities of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			nonFoil, foiled, err := c.Ledger.CardQuantities(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("ledger.CardQuantities: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\tnon-foil: %d\tfoil: %d\n", args[0], nonFoil, foiled)

			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <card-id> <quantity>",
		Short: "Overwrite the owned quantity",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			result, err := c.Ledger.SetAbsolute(cmd.Context(), args[0], foil, qty)
			if err != nil {
				return fmt.Errorf("ledger.SetAbsolute: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (foil=%t): %d\n", args[0], foil, result)

			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <card-id> <delta>",
		Short: "Add copies; a negative delta removes them",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			result, err := c.Ledger.ApplyDelta(cmd.Context(), args[0], foil, delta)
			if err != nil {
				return fmt.Errorf("ledger.ApplyDelta: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (foil=%t): %d\n", args[0], foil, result)

			return nil
		},
	}

	var confirmed bool

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every ledger entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errors.New("refusing to clear the ledger without --yes")
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			deleted, err := c.Ledger.ClearAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("ledger.ClearAll: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", deleted)

			return nil
		},
	}

	clearCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")

	ledgerCmd.AddCommand(getCmd, setCmd, addCmd, clearCmd)

	return ledgerCmd
}
