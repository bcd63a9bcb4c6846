package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
)

func newDeckCmd(a *app) *cobra.Command {
	deckCmd := &cobra.Command{
		Use:   "deck",
		Short: "Import, validate and delete decks",
	}

	deckCmd.AddCommand(
		newDeckImportCmd(a),
		newDeckValidateCmd(a),
		newDeckExportCmd(a),
		newDeckDeleteCmd(a),
	)

	return deckCmd
}

func newDeckImportCmd(a *app) *cobra.Command {
	var (
		id     int64
		format string
	)

	importCmd := &cobra.Command{
		Use:   "import <name> <decklist-file>",
		Short: "Create a deck (or replace one with --id) from a text decklist",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("os.ReadFile: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			d, err := c.Decks.UpsertDeck(cmd.Context(), id, deck.DeckInput{
				Name:     args[0],
				Format:   format,
				Decklist: string(text),
			})
			if err != nil {
				return fmt.Errorf("decks.UpsertDeck: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deck #%d %q: %d lines\n", d.ID, d.Name, len(d.Lines))

			return nil
		},
	}

	importCmd.Flags().Int64Var(&id, "id", 0, "replace an existing deck")
	importCmd.Flags().StringVar(&format, "format", "", "deck format, e.g. modern")

	return importCmd
}

func newDeckValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <deck-id>",
		Short: "Compare a deck with owned quantities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("deck id: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			report, err := c.Decks.Validate(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("decks.Validate: %w", err)
			}

			out := cmd.OutOrStdout()

			for _, l := range report.Lines {
				mark := "ok"
				if l.Shortfall > 0 {
					mark = fmt.Sprintf("missing %d", l.Shortfall)
				}

				fmt.Fprintf(out, "%-40s foil=%-5t need %d (main %d, side %d), own %d\t%s\n",
					l.CardName, l.Foil, l.Requested, l.Main, l.Side, l.Owned, mark)
			}

			if report.Satisfied {
				fmt.Fprintf(out, "%q can be built from the collection\n", report.DeckName)
			} else {
				fmt.Fprintf(out, "%q is short of %d copies\n", report.DeckName, report.TotalShortfall)
			}

			return nil
		},
	}
}

func newDeckExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <deck-id>",
		Short: "Print a deck as a text decklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("deck id: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			text, err := c.Decks.ExportText(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("decks.ExportText: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), text)

			return nil
		},
	}
}

func newDeckDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("deck id: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			if err := c.Decks.DeleteDeck(cmd.Context(), id); err != nil {
				return fmt.Errorf("decks.DeleteDeck: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted deck #%d\n", id)

			return nil
		},
	}
}
