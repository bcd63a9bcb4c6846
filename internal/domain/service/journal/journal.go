package journal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	GetByID(ctx context.Context, id int64) (entity.Trade, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page value.Page) ([]entity.Trade, int, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Summary(ctx context.Context) (entity.TradeSummary, error)
	OpenLots(ctx context.Context, cardID string, foil bool, asOf time.Time) ([]entity.Lot, error)
	ConsumeLot(ctx context.Context, acquireID, quantity int64) error
	RestoreLot(ctx context.Context, acquireID, quantity int64) (bool, error)
	SaveConsumptions(ctx context.Context, consumptions []entity.LotConsumption) error
	Consumptions(ctx context.Context, disposeID int64) ([]entity.LotConsumption, error)
	DeleteConsumptions(ctx context.Context, disposeID int64) error
}

type Ledger interface {
	ApplyDelta(ctx context.Context, cardID string, foil bool, delta int64) (int64, error)
}

type CardResolver interface {
	ResolveRef(ctx context.Context, ref value.CardRef) (entity.Card, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Observer interface {
	TradeRecorded(direction value.Direction)
	TradeRejected(err error)
	TradeDeleted()
}

type Notifier interface {
	Notify(ctx context.Context, notice entity.Notice)
}

type TradeInput struct {
	Card      value.CardRef
	Foil      bool
	Direction value.Direction
	Quantity  int64
	UnitPrice decimal.Decimal
	// TradeDate по умолчанию - момент записи.
	TradeDate time.Time
}

// Service ведёт журнал сделок. Каждая сделка и её отмена меняют учёт
// в той же транзакции, что и журнал: либо применяется всё, либо ничего.
type Service struct {
	tx       Transactor
	trades   TradeRepository
	ledger   Ledger
	cards    CardResolver
	observer Observer
	notifier Notifier
	now      func() time.Time
}

func NewService(
	tx Transactor,
	trades TradeRepository,
	ledger Ledger,
	cards CardResolver,
) *Service {
	return &Service{
		tx:       tx,
		trades:   trades,
		ledger:   ledger,
		cards:    cards,
		observer: nopObserver{},
		notifier: nopNotifier{},
		now:      time.Now,
	}
}

func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// RecordTrade проводит сделку: меняет учёт и добавляет запись в журнал.
// Продажа сверх наличия отклоняется с InsufficientQuantity, журнал при этом
// не меняется.
func (s *Service) RecordTrade(ctx context.Context, in TradeInput) (entity.Trade, error) {
	trade, err := s.recordTrade(ctx, in)
	if err != nil {
		s.observer.TradeRejected(err)
		return entity.Trade{}, err
	}

	s.observer.TradeRecorded(trade.Direction)

	logger(ctx).Info("trade recorded",
		logx.FieldTradeID, trade.ID,
		logx.FieldCardID, trade.CardID,
		"foil", trade.Foil,
		"direction", trade.Direction,
		"quantity", trade.Quantity,
	)

	return trade, nil
}

func (s *Service) recordTrade(ctx context.Context, in TradeInput) (entity.Trade, error) {
	if err := validateInput(in); err != nil {
		return entity.Trade{}, err
	}

	card, err := s.cards.ResolveRef(ctx, in.Card)
	if err != nil {
		return entity.Trade{}, err
	}

	tradeDate := in.TradeDate
	if tradeDate.IsZero() {
		tradeDate = s.now()
	}

	trade := entity.Trade{
		CardID:      card.ID,
		Foil:        in.Foil,
		Direction:   in.Direction,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity)).Round(2),
		CostBasis:   decimal.Zero,
		Profit:      decimal.Zero,
		TradeDate:   tradeDate,
		CreatedAt:   s.now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.ApplyDelta(ctx, trade.CardID, trade.Foil, trade.Direction.Sign()*trade.Quantity); err != nil {
			return err
		}

		if trade.Direction == value.Acquire {
			trade.Remaining = trade.Quantity
			return s.trades.Create(ctx, &trade)
		}

		return s.dispose(ctx, &trade)
	})
	if err != nil {
		return entity.Trade{}, err
	}

	trade.Card = &card

	return trade, nil
}

// dispose считает себестоимость продажи по FIFO и списывает лоты. В расчёт
// идут только покупки, датированные не позже продажи.
func (s *Service) dispose(ctx context.Context, trade *entity.Trade) error {
	lots, err := s.trades.OpenLots(ctx, trade.CardID, trade.Foil, trade.TradeDate)
	if err != nil {
		return err
	}

	plan := planConsumption(lots, trade.Quantity)

	trade.CostBasis = plan.cost.Div(decimal.NewFromInt(trade.Quantity)).Round(4)
	trade.Profit = trade.TotalAmount.Sub(plan.cost).Round(2)

	if err := s.trades.Create(ctx, trade); err != nil {
		return err
	}

	for i := range plan.takes {
		plan.takes[i].DisposeID = trade.ID

		if err := s.trades.ConsumeLot(ctx, plan.takes[i].AcquireID, plan.takes[i].Quantity); err != nil {
			return err
		}
	}

	if plan.covered < trade.Quantity {
		logger(ctx).Warn("dispose exceeds recorded acquisitions, uncovered copies have zero cost",
			logx.FieldCardID, trade.CardID,
			"foil", trade.Foil,
			"uncovered", trade.Quantity-plan.covered,
		)
	}

	return s.trades.SaveConsumptions(ctx, plan.takes)
}

// DeleteTrade удаляет сделку и откатывает её влияние на учёт. Если откат
// невозможен (например, купленные карты уже проданы), сделка остаётся.
func (s *Service) DeleteTrade(ctx context.Context, id int64) (entity.Trade, error) {
	if id <= 0 {
		return entity.Trade{}, domain.NewValidationError(errcodes.InvalidTradeID, "trade id must be positive")
	}

	var trade entity.Trade

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		trade, err = s.trades.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// Сначала учёт, затем журнал: тот же порядок блокировок, что и при записи.
		if _, err := s.ledger.ApplyDelta(ctx, trade.CardID, trade.Foil, -trade.Direction.Sign()*trade.Quantity); err != nil {
			return err
		}

		if err := s.trades.Delete(ctx, id); err != nil {
			return err
		}

		if trade.Direction == value.Dispose {
			return s.restoreLots(ctx, trade.ID)
		}

		return nil
	})
	if err != nil {
		return entity.Trade{}, err
	}

	s.observer.TradeDeleted()

	logger(ctx).Info("trade deleted",
		logx.FieldTradeID, trade.ID,
		logx.FieldCardID, trade.CardID,
		"direction", trade.Direction,
		"quantity", trade.Quantity,
	)

	return trade, nil
}

// restoreLots возвращает в покупки экземпляры, списанные продажей.
// Покупки, удалённые с тех пор, пропускаются.
func (s *Service) restoreLots(ctx context.Context, disposeID int64) error {
	consumptions, err := s.trades.Consumptions(ctx, disposeID)
	if err != nil {
		return err
	}

	for _, c := range consumptions {
		restored, err := s.trades.RestoreLot(ctx, c.AcquireID, c.Quantity)
		if err != nil {
			return err
		}

		if !restored {
			logger(ctx).Debug("consumed lot no longer exists", logx.FieldAcquireID, c.AcquireID)
		}
	}

	return s.trades.DeleteConsumptions(ctx, disposeID)
}

// DeleteAll удаляет сделки по одной, от новых к старым. Ошибка по одной
// сделке не останавливает остальные и попадает в отчёт.
func (s *Service) DeleteAll(ctx context.Context) (entity.BulkReport, error) {
	ids, err := s.trades.ListIDs(ctx)
	if err != nil {
		return entity.BulkReport{}, fmt.Errorf("list trade ids: %w", err)
	}

	logger(ctx).Info("deleting all trades started", "count", len(ids))

	report := entity.BulkReport{Total: len(ids)}

	for _, id := range ids {
		if _, err := s.DeleteTrade(ctx, id); err != nil {
			logger(ctx).Error("failed to delete trade", logx.FieldTradeID, id, logx.Error(err))

			report.Failed = append(report.Failed, entity.ItemFailure{
				ID:      strconv.FormatInt(id, 10),
				Code:    errorCode(err),
				Message: err.Error(),
			})

			continue
		}

		report.Succeeded++
	}

	logger(ctx).Info("deleting all trades finished",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", len(report.Failed),
	)

	s.notifier.Notify(ctx, entity.NewBulkNotice("Удаление всех сделок", report))

	return report, nil
}

// List возвращает страницу журнала, новые сделки первыми.
func (s *Service) List(ctx context.Context, page value.Page) (entity.TradeList, error) {
	trades, total, err := s.trades.List(ctx, page)
	if err != nil {
		return entity.TradeList{}, err
	}

	return entity.TradeList{Items: trades, Total: total}, nil
}

func (s *Service) Summary(ctx context.Context) (entity.TradeSummary, error) {
	return s.trades.Summary(ctx)
}

func validateInput(in TradeInput) error {
	if in.Quantity <= 0 {
		return domain.NewInvalidQuantityError("trade quantity must be positive")
	}

	if in.UnitPrice.IsNegative() {
		return domain.NewValidationError(errcodes.InvalidPrice, "unit price must not be negative")
	}

	if in.Direction != value.Acquire && in.Direction != value.Dispose {
		return domain.NewValidationError(errcodes.InvalidDirection, "direction must be acquire or dispose")
	}

	return in.Card.Validate()
}

func errorCode(err error) string {
	if code := failure.Code(err); code != "" {
		return code.String()
	}

	return errcodes.InternalServerError.String()
}

type nopObserver struct{}

func (nopObserver) TradeRecorded(value.Direction) {}
func (nopObserver) TradeRejected(error)           {}
func (nopObserver) TradeDeleted()                 {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, entity.Notice) {}
