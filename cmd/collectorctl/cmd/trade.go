package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pazhukov/magic-collector/internal/domain/service/journal"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/lox"
)

func newTradeCmd(a *app) *cobra.Command {
	tradeCmd := &cobra.Command{
		Use:   "trade",
		Short: "Record, list and delete trades",
		Long: `Every trade changes the ledger in the same transaction as the journal.

Subcommands:
  add     - record a buy or a sell
  delete  - delete trades and reverse their ledger changes
  list    - list trades, newest first
  purge   - delete every trade one by one and print a report`,
	}

	tradeCmd.AddCommand(
		newTradeAddCmd(a),
		newTradeDeleteCmd(a),
		newTradeListCmd(a),
		newTradePurgeCmd(a),
	)

	return tradeCmd
}

func newTradeAddCmd(a *app) *cobra.Command {
	var (
		ref       value.CardRef
		foil      bool
		direction string
		qty       int64
		price     string
		date      string
	)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := value.ParseDirection(direction)
			if err != nil {
				return err
			}

			unitPrice, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("price: %w", err)
			}

			var tradeDate time.Time
			if date != "" {
				if tradeDate, err = time.Parse(time.DateOnly, date); err != nil {
					return fmt.Errorf("date: %w", err)
				}
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			trade, err := c.Journal.RecordTrade(cmd.Context(), journal.TradeInput{
				Card:      ref,
				Foil:      foil,
				Direction: dir,
				Quantity:  qty,
				UnitPrice: unitPrice,
				TradeDate: tradeDate,
			})
			if err != nil {
				return fmt.Errorf("journal.RecordTrade: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trade #%d: %s %d x %s @ %s, profit %s\n",
				trade.ID, trade.Direction, trade.Quantity, trade.CardID,
				trade.UnitPrice.StringFixed(2), trade.Profit.StringFixed(2)) //nolint:mnd

			return nil
		},
	}

	f := addCmd.Flags()
	f.StringVar(&ref.ID, "card", "", "card id")
	f.StringVar(&ref.SetCode, "set", "", "set code (with --number)")
	f.StringVar(&ref.CollectorNumber, "number", "", "collector number (with --set)")
	f.StringVar(&ref.Name, "name", "", "card name, first printing is used")
	f.BoolVar(&foil, "foil", false, "foil variant")
	f.StringVar(&direction, "direction", "", "buy|sell (acquire|dispose)")
	f.Int64Var(&qty, "qty", 1, "quantity")
	f.StringVar(&price, "price", "0", "unit price")
	f.StringVar(&date, "date", "", "trade date YYYY-MM-DD, default now")

	_ = addCmd.MarkFlagRequired("direction")

	return addCmd
}

func newTradeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>...",
		Short: "Delete trades and reverse their ledger changes",
		Long:  "Each trade is deleted in its own transaction; the first failure stops the command.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := lox.MapErr(args, func(arg string) (int64, error) {
				return strconv.ParseInt(arg, 10, 64)
			})
			if err != nil {
				return fmt.Errorf("trade id: %w", err)
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			for _, id := range ids {
				trade, err := c.Journal.DeleteTrade(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("journal.DeleteTrade(%d): %w", id, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted trade #%d (%s %d x %s)\n",
					trade.ID, trade.Direction, trade.Quantity, trade.CardID)
			}

			return nil
		},
	}
}

func newTradeListCmd(a *app) *cobra.Command {
	var limit, offset int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List trades, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := value.NewPage(limit, offset)
			if err != nil {
				return err
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			list, err := c.Journal.List(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("journal.List: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "ID\tDATE\tDIR\tCARD\tFOIL\tQTY\tPRICE\tPROFIT")

			for _, t := range list.Items {
				name := t.CardID
				if t.Card != nil && t.Card.Name != "" {
					name = t.Card.Name
				}

				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%d\t%s\t%s\n",
					t.ID, t.TradeDate.Format(time.DateOnly), t.Direction, name, t.Foil, t.Quantity,
					t.UnitPrice.StringFixed(2), t.Profit.StringFixed(2)) //nolint:mnd
			}

			if err := w.Flush(); err != nil {
				return fmt.Errorf("tabwriter.Flush: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(list.Items), list.Total)

			return nil
		},
	}

	listCmd.Flags().IntVar(&limit, "limit", value.DefaultPageLimit, "page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	return listCmd
}

func newTradePurgeCmd(a *app) *cobra.Command {
	var confirmed bool

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every trade, reversing each one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errors.New("refusing to delete all trades without --yes")
			}

			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			report, err := c.Journal.DeleteAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("journal.DeleteAll: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total %d, deleted %d, failed %d\n", report.Total, report.Succeeded, len(report.Failed))

			for _, f := range report.Failed {
				fmt.Fprintf(out, "  #%s\t%s\t%s\n", f.ID, f.Code, f.Message)
			}

			return nil
		},
	}

	purgeCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")

	return purgeCmd
}
