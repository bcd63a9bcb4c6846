package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pazhukov/magic-collector/internal/domain/value"
)

func newCardCmd(a *app) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Look up cards in the local catalog",
	}

	var limit, offset int

	searchCmd := &cobra.Command{
		Use:   "search <text>...",
		Short: "Find cards whose name or type line contains the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := value.NewPage(limit, offset)
			if err != nil {
				return err
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			list, err := c.Catalog.Search(cmd.Context(), strings.Join(args, " "), page)
			if err != nil {
				return fmt.Errorf("catalog.Search: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "ID\tNAME\tSET\tNUMBER\tTYPE\tUSD")

			for _, card := range list.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					card.ID, card.Name, strings.ToUpper(card.SetCode), card.CollectorNumber,
					card.TypeLine, card.Prices[value.PriceUSD])
			}

			if err := w.Flush(); err != nil {
				return fmt.Errorf("tabwriter.Flush: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(list.Items), list.Total)

			return nil
		},
	}

	searchCmd.Flags().IntVar(&limit, "limit", value.DefaultPageLimit, "page size")
	searchCmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	cardCmd.AddCommand(searchCmd)

	return cardCmd
}
