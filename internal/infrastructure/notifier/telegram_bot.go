package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
)

const queueSize = 32

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot отправляет оператору итоги массовых операций. Notify не
// блокирует вызывающего: сообщения копятся в очереди, которую разбирает Run.
type TelegramBot struct {
	bot    messageSender
	chatID int64
	queue  chan entity.Notice
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID), nil
}

func newTelegramBot(bot messageSender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan entity.Notice, queueSize),
	}
}

// Notify ставит сообщение в очередь. Если очередь переполнена, сообщение
// отбрасывается с записью в лог.
func (b *TelegramBot) Notify(ctx context.Context, notice entity.Notice) {
	select {
	case b.queue <- notice:
	default:
		logger(ctx).Warn("notification queue is full, notice dropped", "title", notice.Title)
	}
}

// Run разбирает очередь до отмены контекста.
func (b *TelegramBot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notice := <-b.queue:
			if err := b.Send(ctx, notice); err != nil {
				logger(ctx).Error("failed to send notice", "title", notice.Title, "error", err)
			}
		}
	}
}

func (b *TelegramBot) Send(ctx context.Context, notice entity.Notice) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		notice.Text(),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// Log пишет сообщения в лог вместо Telegram, когда бот не настроен.
type Log struct{}

func (Log) Notify(ctx context.Context, notice entity.Notice) {
	logger(ctx).Info("notice", "title", notice.Title, "lines", notice.Lines)
}
