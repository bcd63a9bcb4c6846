package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/transport/bot/view"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

const (
	tradesPageSize   = 10
	tradesPagePrefix = "trades_page"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	stats, err := h.stats.Stats(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	totals, err := h.ledger.Totals(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	summary, err := h.trades.Summary(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Status(stats, totals, summary))
}

// OnCard показывает количество экземпляров карты
// Использование: /card <id>
func (h *Handler) OnCard(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 { //nolint:mnd
		return h.sendHTML(ctx, msg.Chat.ID, view.CardUsage)
	}

	nonFoil, foil, err := h.ledger.CardQuantities(ctx, args[1])
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.CardQuantities(args[1], nonFoil, foil))
}

// OnDeck сверяет колоду с коллекцией
// Использование: /deck <id>
func (h *Handler) OnDeck(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 { //nolint:mnd
		return h.sendHTML(ctx, msg.Chat.ID, view.DeckUsage)
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.InvalidDeckID)
	}

	report, err := h.decks.Validate(ctx, id)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Validation(report))
}

func (h *Handler) OnTrades(ctx *th.Context, msg telego.Message) error {
	text, keyboard, err := h.tradesPage(ctx, 1)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})

	return err
}

func (h *Handler) OnTradesCallback(ctx *th.Context, query telego.CallbackQuery) error {
	page := parsePage(query.Data)

	text, keyboard, err := h.tradesPage(ctx, page)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.Error(err)).WithShowAlert())

		return err
	}

	if query.Message != nil {
		// Повторное нажатие на ту же страницу Telegram отклоняет, это не ошибка.
		_, _ = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(query.Message.GetChat().ID),
			MessageID:   query.Message.GetMessageID(),
			Text:        text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: keyboard,
		})
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func (h *Handler) OnSnapshot(ctx *th.Context, msg telego.Message) error {
	logger(ctx).Info("snapshot requested from bot")

	started, err := h.snapshot.Trigger(ctx)
	if err != nil {
		logger(ctx).Error("failed to trigger snapshot", logx.Error(err))
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err))
	}

	if !started {
		return h.sendHTML(ctx, msg.Chat.ID, view.SnapshotBusy)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.SnapshotQueue)
}

func (h *Handler) tradesPage(ctx *th.Context, page int) (string, *telego.InlineKeyboardMarkup, error) {
	p, err := value.NewPage(tradesPageSize, (page-1)*tradesPageSize)
	if err != nil {
		return "", nil, err
	}

	list, err := h.trades.List(ctx, p)
	if err != nil {
		return "", nil, err
	}

	if list.Total == 0 {
		return view.NoTrades, nil, nil
	}

	totalPages := (list.Total + tradesPageSize - 1) / tradesPageSize

	return view.Trades(list, page, totalPages), paginationKeyboard(page, totalPages), nil
}

// parsePage разбирает "trades_page:<n>"; всё некорректное - первая страница.
func parsePage(data string) int {
	var page int

	if _, err := fmt.Sscanf(data, tradesPagePrefix+":%d", &page); err != nil || page < 1 {
		return 1
	}

	return page
}

func paginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s:%d", tradesPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s:%d", tradesPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}
