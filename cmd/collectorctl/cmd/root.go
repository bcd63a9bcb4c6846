package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pazhukov/magic-collector/internal/application"
	"github.com/pazhukov/magic-collector/internal/config"
	"github.com/pazhukov/magic-collector/pkg/contextx"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

// app откладывает подключение к базе до запуска конкретной команды.
type app struct {
	verbose   bool
	container *application.Container
}

// NewRootCmd собирает дерево команд collectorctl.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "collectorctl",
		Short: "Manage a card collection ledger, trade journal and decks",
		Long: `collectorctl works with the same database as the collector service.

Connection settings come from the environment (or .env):
  DB_DRIVER, SQLITE_PATH, PG_DSN, SCRYFALL_OFFLINE, ...

Examples:
  collectorctl migrate
  collectorctl ledger add <card-id> 4
  collectorctl trade add --set neo --number 123 --direction buy --qty 2 --price 1.50
  collectorctl deck validate 3`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}

			log := logx.NewLogger(os.Stderr, level)
			slog.SetDefault(log)
			cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.container != nil {
				a.container.Close(cmd.Context())
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newMigrateCmd(a),
		newLedgerCmd(a),
		newTradeCmd(a),
		newDeckCmd(a),
		newHistoryCmd(a),
		newCardCmd(a),
	)

	return root
}

// open подключается к базе. Уведомления в Telegram в CLI не отправляются.
func (a *app) open(cmd *cobra.Command) (*application.Container, error) {
	if a.container != nil {
		return a.container, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg.Bot = config.Bot{}

	c, err := application.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("application.NewContainer: %w", err)
	}

	a.container = c

	return c, nil
}
