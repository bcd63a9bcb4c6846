package handler

import (
	"context"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
)

type ledgerReader interface {
	CardQuantities(ctx context.Context, cardID string) (nonFoil, foil int64, err error)
	Totals(ctx context.Context) (entity.LedgerTotals, error)
}

type tradeReader interface {
	List(ctx context.Context, page value.Page) (entity.TradeList, error)
	Summary(ctx context.Context) (entity.TradeSummary, error)
}

type deckValidator interface {
	Validate(ctx context.Context, id int64) (entity.ValidationReport, error)
}

type statsSource interface {
	Stats(ctx context.Context) (entity.Stats, error)
}

type snapshotTrigger interface {
	Trigger(ctx context.Context) (bool, error)
}

// Handler отвечает на команды оператора. Бот только читает данные и
// запускает снимок цен; учёт через него не меняется.
type Handler struct {
	ledger   ledgerReader
	trades   tradeReader
	decks    deckValidator
	stats    statsSource
	snapshot snapshotTrigger
}

func New(
	ledger ledgerReader,
	trades tradeReader,
	decks deckValidator,
	stats statsSource,
	snapshot snapshotTrigger,
) *Handler {
	return &Handler{
		ledger:   ledger,
		trades:   trades,
		decks:    decks,
		stats:    stats,
		snapshot: snapshot,
	}
}
