package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pazhukov/magic-collector/internal/config"
	"github.com/pazhukov/magic-collector/internal/server"
	"github.com/pazhukov/magic-collector/internal/transport/bot"
	"github.com/pazhukov/magic-collector/internal/transport/bot/handler"
	"github.com/pazhukov/magic-collector/internal/worker"
	"github.com/pazhukov/magic-collector/pkg/application/connectors"
	"github.com/pazhukov/magic-collector/pkg/application/modules"
	"github.com/pazhukov/magic-collector/pkg/contextx"
	"github.com/pazhukov/magic-collector/pkg/logx"
	"github.com/pazhukov/magic-collector/pkg/probe"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	asynqConcurrency      = 2
	defaultTaskUniqueTTL  = time.Hour
)

// Run собирает сервис и держит его модули до отмены контекста. Уровень
// логирования берётся из конфигурации.
func Run(ctx context.Context, log *slog.Logger, level *slog.LevelVar) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	level.Set(logx.ParseLevel(cfg.App.LogLevel))

	ctx = contextWithAppLogger(ctx, log, cfg)

	// 2. Database, repositories, services
	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("application.NewContainer: %w", err)
	}
	defer c.Close(ctx)

	g, ctx := errgroup.WithContext(ctx)

	// 3. Snapshot queue
	trigger := snapshotTrigger(ctx, g, c)

	// 4. HTTP API
	srv := server.NewServer(
		server.NewLedgerServer(c.Ledger),
		server.NewTradeServer(c.Journal),
		server.NewDeckServer(c.Decks),
		server.NewCardServer(c.Catalog, c.History, trigger, c.Stats, c.Ledger),
	)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           server.NewRouter(srv, logger(ctx), logx.NewSensitiveDataMasker(), cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: httpReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeListenAddress,
		Checks:        []probe.ReadinessCheck{c.DB.PingContext},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.App.MetricsListenAddress,
		Gatherer:      c.Registry,
	}.Run(ctx, g)

	// 5. Notifier
	if c.Bot != nil {
		if err := c.Bot.SendText(ctx, fmt.Sprintf("%s %s запущен", cfg.App.Name, cfg.App.Version)); err != nil {
			logger(ctx).Error("bot test message failed, check BOT_TOKEN and BOT_CHAT_ID", logx.Error(err))
		}

		g.Go(func() error {
			return ignoreCanceled(c.Bot.Run(ctx))
		})

		if cfg.Bot.Commands {
			if err := runCommandBot(ctx, g, c, trigger); err != nil {
				return err
			}
		}
	}

	// 6. Snapshot scheduler
	if cfg.History.SnapshotInterval > 0 && !cfg.Scryfall.Offline {
		scheduler := worker.NewSnapshotScheduler(trigger, c.History, cfg.History.SnapshotInterval).
			WithRetention(cfg.History.Retention)

		g.Go(func() error {
			return ignoreCanceled(scheduler.Run(ctx))
		})
	}

	logger(ctx).Info("application started", slog.String("db-driver", cfg.Database.Driver))

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	logger(ctx).Info("application stopping...")

	return nil
}

// runCommandBot поднимает приём команд оператора в том же боте, что
// отправляет уведомления.
func runCommandBot(ctx context.Context, g *errgroup.Group, c *Container, trigger worker.Trigger) error {
	h := handler.New(c.Ledger, c.Journal, c.Decks, c.Stats, trigger)

	commands, err := bot.New(ctx, c.Config.Bot.Token, c.Config.Bot.Admin(), h)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g.Go(func() error {
		return ignoreCanceled(commands.Run(ctx))
	})

	return nil
}

// snapshotTrigger ставит снимки в очередь asynq, если настроен Redis, и
// выполняет их в процессе в противном случае.
func snapshotTrigger(ctx context.Context, g *errgroup.Group, c *Container) worker.Trigger {
	cfg := c.Config

	if !cfg.Redis.Enabled() {
		return worker.NewInlineTrigger(c.History)
	}

	rdb := &connectors.Redis{
		Address:        cfg.Redis.Address,
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DB,
	}

	ttl := cfg.History.SnapshotInterval
	if ttl <= 0 {
		ttl = defaultTaskUniqueTTL
	}

	trigger := worker.NewQueueTrigger(rdb.Client(ctx), ttl)

	g.Go(func() error {
		<-ctx.Done()

		if err := trigger.Close(); err != nil {
			logger(ctx).Error("asynq client close", logx.Error(err))
		}

		rdb.Close(ctx)

		return nil
	})

	modules.AsynqServer{
		RedisUsername:   cfg.Redis.Username,
		RedisPassword:   cfg.Redis.Password,
		RedisAddress:    cfg.Redis.Address,
		RedisDB:         cfg.Redis.DB,
		Concurrency:     asynqConcurrency,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, modules.AsynqQueues{worker.QueueHistory: 1}, worker.SnapshotHandler(c.History))

	return trigger
}

func contextWithAppLogger(ctx context.Context, log *slog.Logger, cfg config.Config) context.Context {
	return contextx.WithLogger(ctx, log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	))
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
