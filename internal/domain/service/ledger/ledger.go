package ledger

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EntryRepository interface {
	ApplyDelta(ctx context.Context, cardID string, foil bool, delta int64) (quantity int64, applied bool, err error)
	Set(ctx context.Context, cardID string, foil bool, quantity int64) (int64, error)
	Get(ctx context.Context, cardID string, foil bool) (int64, error)
	GetMany(ctx context.Context, keys []entity.LedgerKey) (map[entity.LedgerKey]int64, error)
	List(ctx context.Context, page value.Page) ([]entity.CollectionItem, int, error)
	All(ctx context.Context) ([]entity.CollectionItem, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type CardCatalog interface {
	Get(ctx context.Context, id string) (entity.Card, error)
}

// Service ведёт учёт количества по паре (карта, фойла). Количество никогда
// не становится отрицательным: проверка и запись выполняются одним
// условным оператором в хранилище.
type Service struct {
	tx      Transactor
	entries EntryRepository
	catalog CardCatalog
}

func NewService(tx Transactor, entries EntryRepository, catalog CardCatalog) *Service {
	return &Service{
		tx:      tx,
		entries: entries,
		catalog: catalog,
	}
}

// ApplyDelta прибавляет delta к количеству и возвращает новое значение.
// Если результат ушёл бы ниже нуля, возвращается InsufficientQuantity,
// если выше math.MaxInt64 - InvalidQuantity. В обоих случаях учёт не меняется.
func (s *Service) ApplyDelta(ctx context.Context, cardID string, foil bool, delta int64) (int64, error) {
	if cardID == "" {
		return 0, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	// -math.MinInt64 не представимо в int64.
	if delta == math.MinInt64 {
		return 0, domain.NewInvalidQuantityError("delta is out of range")
	}

	if delta == 0 {
		return s.entries.Get(ctx, cardID, foil)
	}

	// Новая запись не должна ссылаться на несуществующую карту.
	if delta > 0 {
		if _, err := s.catalog.Get(ctx, cardID); err != nil {
			return 0, err
		}
	}

	var quantity int64

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		quantity, err = s.applyDelta(ctx, cardID, foil, delta)

		return err
	})
	if err != nil {
		return 0, err
	}

	return quantity, nil
}

func (s *Service) applyDelta(ctx context.Context, cardID string, foil bool, delta int64) (int64, error) {
	quantity, applied, err := s.entries.ApplyDelta(ctx, cardID, foil, delta)
	if err != nil {
		return 0, err
	}

	if applied {
		return quantity, nil
	}

	owned, err := s.entries.Get(ctx, cardID, foil)
	if err != nil {
		return 0, err
	}

	if delta > 0 {
		logger(ctx).Info("ledger increment rejected",
			logx.FieldCardID, cardID,
			"foil", foil,
			"owned", owned,
			"delta", delta,
		)

		return 0, domain.NewInvalidQuantityError("quantity would overflow")
	}

	logger(ctx).Info("ledger decrement rejected",
		logx.FieldCardID, cardID,
		"foil", foil,
		"owned", owned,
		"requested", -delta,
	)

	return 0, domain.NewInsufficientQuantityError(cardID, foil, owned, -delta)
}

// SetAbsolute записывает количество как есть. Используется для ручной
// корректировки, журнал сделок при этом не меняется.
func (s *Service) SetAbsolute(ctx context.Context, cardID string, foil bool, quantity int64) (int64, error) {
	if cardID == "" {
		return 0, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	if quantity < 0 {
		return 0, domain.NewInvalidQuantityError("quantity must not be negative")
	}

	if quantity > 0 {
		if _, err := s.catalog.Get(ctx, cardID); err != nil {
			return 0, err
		}
	}

	return s.entries.Set(ctx, cardID, foil, quantity)
}

// Get возвращает количество; для неизвестной пары это ноль.
func (s *Service) Get(ctx context.Context, cardID string, foil bool) (int64, error) {
	if cardID == "" {
		return 0, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	return s.entries.Get(ctx, cardID, foil)
}

// CardQuantities возвращает обе позиции карты: обычную и фойловую.
func (s *Service) CardQuantities(ctx context.Context, cardID string) (nonFoil, foil int64, err error) {
	if cardID == "" {
		return 0, 0, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	regular := entity.LedgerKey{CardID: cardID}
	foiled := entity.LedgerKey{CardID: cardID, Foil: true}

	owned, err := s.GetMany(ctx, []entity.LedgerKey{regular, foiled})
	if err != nil {
		return 0, 0, err
	}

	return owned[regular], owned[foiled], nil
}

// GetMany читает количества для набора пар одним запросом.
// Пары без записи получают ноль.
func (s *Service) GetMany(ctx context.Context, keys []entity.LedgerKey) (map[entity.LedgerKey]int64, error) {
	owned, err := s.entries.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	for _, k := range keys {
		if _, ok := owned[k]; !ok {
			owned[k] = 0
		}
	}

	return owned, nil
}

// List возвращает страницу коллекции с оценкой стоимости.
func (s *Service) List(ctx context.Context, page value.Page) (entity.Collection, error) {
	items, total, err := s.entries.List(ctx, page)
	if err != nil {
		return entity.Collection{}, err
	}

	collection := entity.Collection{
		Items: make([]entity.CollectionItem, 0, len(items)),
		Total: total,
		Value: decimal.Zero,
	}

	for _, item := range items {
		item = appraise(item)
		if item.Value.Valid {
			collection.Value = collection.Value.Add(item.Value.Decimal)
		}

		collection.Items = append(collection.Items, item)
	}

	return collection, nil
}

// Totals считает позиции, экземпляры и стоимость всей коллекции.
func (s *Service) Totals(ctx context.Context) (entity.LedgerTotals, error) {
	items, err := s.entries.All(ctx)
	if err != nil {
		return entity.LedgerTotals{}, err
	}

	totals := entity.LedgerTotals{Value: decimal.Zero}

	for _, item := range items {
		item = appraise(item)

		totals.Entries++
		totals.Copies += item.Entry.Quantity

		if item.Value.Valid {
			totals.Value = totals.Value.Add(item.Value.Decimal)
		}
	}

	return totals, nil
}

// ClearAll удаляет весь учёт и возвращает число удалённых записей.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	deleted, err := s.entries.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	logger(ctx).Warn("ledger cleared", "entries", deleted)

	return deleted, nil
}

func appraise(item entity.CollectionItem) entity.CollectionItem {
	unit, ok := item.Card.Prices.Unit(item.Entry.Foil)
	if !ok {
		return item
	}

	item.UnitPrice = decimal.NewNullDecimal(unit)
	item.Value = decimal.NewNullDecimal(unit.Mul(decimal.NewFromInt(item.Entry.Quantity)))

	return item
}
