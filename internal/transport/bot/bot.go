package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"github.com/pazhukov/magic-collector/internal/transport/bot/handler"
	"github.com/pazhukov/magic-collector/internal/transport/bot/middleware"
	"github.com/pazhukov/magic-collector/pkg/contextx"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

const pollingTimeout = 60

// Bot принимает команды оператора через long polling.
type Bot struct {
	botHandler *th.BotHandler
}

// New создает бота и регистрирует команды. Обновления читаются, пока жив ctx.
func New(ctx context.Context, token string, adminID int64, h *handler.Handler) (*Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: pollingTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	botHandler.Use(middleware.Logger(contextx.LoggerFromContextOrDefault(ctx)))
	h.RegisterRoutes(botHandler, adminID)

	return &Bot{botHandler: botHandler}, nil
}

// Run обрабатывает обновления до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	log := contextx.LoggerFromContextOrDefault(ctx)

	go func() {
		if err := b.botHandler.Start(); err != nil {
			log.Error("failed to start bot handler", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		log.Error("failed to stop bot handler", logx.Error(err))
	}

	return ctx.Err()
}
