package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
)

// maxQuantity - math.MaxInt64; SQLite при переполнении молча переходит на REAL.
const maxQuantity = "9223372036854775807"

type LedgerRepository struct {
	baseRepository
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{baseRepository{db: db}}
}

// ApplyDelta атомарно меняет количество. Положительная дельта создаёт или
// увеличивает запись, если сумма помещается в int64. Отрицательная
// применяется только если результат не уйдёт ниже нуля. Иначе возвращается
// applied=false и ничего не меняется.
func (r *LedgerRepository) ApplyDelta(
	ctx context.Context,
	cardID string,
	foil bool,
	delta int64,
) (quantity int64, applied bool, err error) {
	now := timestamp(time.Now())

	if delta >= 0 {
		query := `
			INSERT INTO ledger_entries (card_id, foil, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (card_id, foil) DO UPDATE SET
				quantity = ledger_entries.quantity + excluded.quantity,
				updated_at = excluded.updated_at
			WHERE ledger_entries.quantity <= ` + maxQuantity + ` - excluded.quantity
			RETURNING quantity`

		if err := r.get(ctx, &quantity, query, cardID, foil, delta, now, now); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, false, nil
			}

			return 0, false, domain.StoreError(err, "failed to increase quantity")
		}

		return quantity, true, nil
	}

	// Условный UPDATE: проверка и запись в одном операторе, без окна между ними.
	query := `
		UPDATE ledger_entries
		SET quantity = quantity + ?, updated_at = ?
		WHERE card_id = ? AND foil = ? AND quantity + ? >= 0
		RETURNING quantity`

	if err := r.get(ctx, &quantity, query, delta, now, cardID, foil, delta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, domain.StoreError(err, "failed to decrease quantity")
	}

	return quantity, true, nil
}

// Set записывает абсолютное количество.
func (r *LedgerRepository) Set(ctx context.Context, cardID string, foil bool, quantity int64) (int64, error) {
	now := timestamp(time.Now())

	query := `
		INSERT INTO ledger_entries (card_id, foil, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (card_id, foil) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at
		RETURNING quantity`

	var result int64
	if err := r.get(ctx, &result, query, cardID, foil, quantity, now, now); err != nil {
		return 0, domain.StoreError(err, "failed to set quantity")
	}

	return result, nil
}

// Get возвращает количество; отсутствующая запись означает ноль.
func (r *LedgerRepository) Get(ctx context.Context, cardID string, foil bool) (int64, error) {
	var quantity int64

	err := r.get(ctx, &quantity, `SELECT quantity FROM ledger_entries WHERE card_id = ? AND foil = ?`, cardID, foil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, domain.StoreError(err, "failed to get quantity")
	}

	return quantity, nil
}

// GetMany читает количества для набора ключей одним запросом.
// Ключи без записи в результате отсутствуют.
func (r *LedgerRepository) GetMany(ctx context.Context, keys []entity.LedgerKey) (map[entity.LedgerKey]int64, error) {
	result := make(map[entity.LedgerKey]int64, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	cardIDs := lo.Uniq(lo.Map(keys, func(k entity.LedgerKey, _ int) string { return k.CardID }))

	query, args, err := sqlx.In(`SELECT card_id, foil, quantity FROM ledger_entries WHERE card_id IN (?)`, cardIDs)
	if err != nil {
		return nil, domain.StoreError(err, "failed to build query")
	}

	var rows []ledgerSchema
	if err := r.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, domain.StoreError(err, "failed to get quantities")
	}

	for _, row := range rows {
		result[entity.LedgerKey{CardID: row.CardID, Foil: row.Foil}] = row.Quantity
	}

	return result, nil
}

const collectionQuery = `
	SELECT l.card_id, l.foil, l.quantity, l.created_at, l.updated_at,
	       c.name, c.set_code, c.set_name, c.collector_number, c.rarity, c.prices
	FROM ledger_entries l
	LEFT JOIN cards c ON c.id = l.card_id
	WHERE l.quantity > 0
	ORDER BY l.updated_at DESC, l.card_id, l.foil`

// List возвращает страницу непустых позиций, свежие изменения первыми,
// и их общее число.
func (r *LedgerRepository) List(ctx context.Context, page value.Page) ([]entity.CollectionItem, int, error) {
	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM ledger_entries WHERE quantity > 0`); err != nil {
		return nil, 0, domain.StoreError(err, "failed to count ledger entries")
	}

	var rows []collectionSchema
	if err := r.selectAll(ctx, &rows, collectionQuery+` LIMIT ? OFFSET ?`, page.Limit, page.Offset); err != nil {
		return nil, 0, domain.StoreError(err, "failed to list ledger entries")
	}

	items, err := collectionItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// All возвращает все непустые позиции.
func (r *LedgerRepository) All(ctx context.Context) ([]entity.CollectionItem, error) {
	var rows []collectionSchema
	if err := r.selectAll(ctx, &rows, collectionQuery); err != nil {
		return nil, domain.StoreError(err, "failed to list ledger entries")
	}

	return collectionItems(rows)
}

// OwnedCardIDs возвращает карты, которых в коллекции больше нуля.
func (r *LedgerRepository) OwnedCardIDs(ctx context.Context) ([]string, error) {
	var ids []string

	query := `SELECT DISTINCT card_id FROM ledger_entries WHERE quantity > 0 ORDER BY card_id`
	if err := r.selectAll(ctx, &ids, query); err != nil {
		return nil, domain.StoreError(err, "failed to list owned cards")
	}

	return ids, nil
}

// DeleteAll очищает учёт и возвращает число удалённых записей.
func (r *LedgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	rows, err := r.execAffected(ctx, `DELETE FROM ledger_entries`)
	if err != nil {
		return 0, domain.StoreError(err, "failed to clear ledger")
	}

	return rows, nil
}

func collectionItems(rows []collectionSchema) ([]entity.CollectionItem, error) {
	items := make([]entity.CollectionItem, 0, len(rows))

	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, domain.StoreError(err, "failed to decode card "+row.CardID)
		}

		items = append(items, item)
	}

	return items, nil
}
