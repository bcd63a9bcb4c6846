package application

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pazhukov/magic-collector/internal/config"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/catalog"
	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
	"github.com/pazhukov/magic-collector/internal/domain/service/history"
	"github.com/pazhukov/magic-collector/internal/domain/service/journal"
	"github.com/pazhukov/magic-collector/internal/domain/service/ledger"
	"github.com/pazhukov/magic-collector/internal/infrastructure/metrics"
	"github.com/pazhukov/magic-collector/internal/infrastructure/notifier"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/internal/infrastructure/scryfall"
	"github.com/pazhukov/magic-collector/migrations"
	"github.com/pazhukov/magic-collector/pkg/application/connectors"
	"github.com/pazhukov/magic-collector/pkg/httpx"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

type database interface {
	Client(ctx context.Context) *sqlx.DB
	Close(ctx context.Context)
}

type noticeSink interface {
	Notify(ctx context.Context, notice entity.Notice)
}

// Container держит общие для сервиса и CLI зависимости.
type Container struct {
	Config    config.Config
	DB        *sqlx.DB
	Registry  *prometheus.Registry
	Collector *metrics.Collector
	Bot       *notifier.TelegramBot
	Stats     *persistence.StatsRepository

	Catalog *catalog.Service
	Ledger  *ledger.Service
	Journal *journal.Service
	Decks   *deck.Service
	History *history.Service

	database database
}

// NewContainer подключается к базе, при необходимости применяет миграции и
// собирает сервисы.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	db := newDatabase(cfg)
	client := db.Client(ctx)

	if err := client.PingContext(ctx); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, client); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("migrations.Apply: %w", err)
		}

		logger(ctx).Info("database schema is up to date", "driver", cfg.Database.Driver)
	}

	c := &Container{
		Config:   cfg,
		DB:       client,
		Registry: prometheus.NewRegistry(),
		Stats:    persistence.NewStatsRepository(client),
		database: db,
	}

	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct
	)
	c.Collector = metrics.NewCollector(c.Registry)

	var sink noticeSink = notifier.Log{}

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		c.Bot = bot
		sink = bot
	}

	tx := persistence.NewTransactor(client)
	cards := persistence.NewCardRepository(client)
	entries := persistence.NewLedgerRepository(client)

	c.Catalog = catalog.NewService(cards).WithCacheTTL(cfg.Scryfall.CacheTTL)

	if !cfg.Scryfall.Offline {
		c.Catalog.WithProvider(scryfall.NewClient(
			cfg.Scryfall.BaseURL,
			cfg.Scryfall.Timeout,
			httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		))
	}

	c.Ledger = ledger.NewService(tx, entries, c.Catalog)

	c.Journal = journal.NewService(tx, persistence.NewTradeRepository(client), c.Ledger, c.Catalog).
		WithObserver(c.Collector).
		WithNotifier(sink)

	c.Decks = deck.NewService(tx, persistence.NewDeckRepository(client), c.Catalog, c.Ledger)

	c.History = history.NewService(persistence.NewHistoryRepository(client), entries, c.Catalog).
		WithRequestDelay(cfg.Scryfall.RequestDelay).
		WithObserver(c.Collector).
		WithNotifier(sink)

	return c, nil
}

func (c *Container) Close(ctx context.Context) {
	c.database.Close(ctx)
}

func newDatabase(cfg config.Config) database {
	if cfg.Database.Driver == config.DriverPostgres {
		return &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
	}

	return &connectors.SQLite{
		Path:         cfg.SQLite.Path,
		MaxOpenConns: cfg.SQLite.MaxOpenConns,
	}
}
