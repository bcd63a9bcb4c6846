package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

const tradeColumns = `id, card_id, foil, direction, quantity, unit_price, total_amount,
	cost_basis, profit, remaining, trade_date, created_at`

type TradeRepository struct {
	baseRepository
}

func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{baseRepository{db: db}}
}

// Create сохраняет сделку и проставляет ей идентификатор.
func (r *TradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = time.Now()
	}

	schema := fromTrade(trade)

	query := `
		INSERT INTO trades (card_id, foil, direction, quantity, unit_price, total_amount,
		                    cost_basis, profit, remaining, trade_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.get(ctx, &trade.ID, query,
		schema.CardID, schema.Foil, schema.Direction, schema.Quantity, schema.UnitPrice, schema.TotalAmount,
		schema.CostBasis, schema.Profit, schema.Remaining, schema.TradeDate, schema.CreatedAt,
	)
	if err != nil {
		return domain.StoreError(err, "failed to insert trade")
	}

	trade.TradeDate = schema.TradeDate
	trade.CreatedAt = schema.CreatedAt

	return nil
}

func (r *TradeRepository) GetByID(ctx context.Context, id int64) (entity.Trade, error) {
	var schema tradeSchema
	if err := r.get(ctx, &schema, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Trade{}, tradeNotFound(id)
		}

		return entity.Trade{}, domain.StoreError(err, "failed to get trade")
	}

	return schema.toDomain(), nil
}

// Delete удаляет сделку. Если строки уже нет, возвращается TradeNotFound:
// так повторное удаление не может дважды откатить учёт.
func (r *TradeRepository) Delete(ctx context.Context, id int64) error {
	rows, err := r.execAffected(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return domain.StoreError(err, "failed to delete trade")
	}

	if rows == 0 {
		return tradeNotFound(id)
	}

	return nil
}

// List возвращает страницу журнала, новые сделки первыми.
func (r *TradeRepository) List(ctx context.Context, page value.Page) ([]entity.Trade, int, error) {
	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM trades`); err != nil {
		return nil, 0, domain.StoreError(err, "failed to count trades")
	}

	query := `
		SELECT t.id, t.card_id, t.foil, t.direction, t.quantity, t.unit_price, t.total_amount,
		       t.cost_basis, t.profit, t.remaining, t.trade_date, t.created_at,
		       c.name AS card_name, c.set_code, c.collector_number
		FROM trades t
		LEFT JOIN cards c ON c.id = t.card_id
		ORDER BY t.trade_date DESC, t.id DESC
		LIMIT ? OFFSET ?`

	var schemas []tradeListSchema
	if err := r.selectAll(ctx, &schemas, query, page.Limit, page.Offset); err != nil {
		return nil, 0, domain.StoreError(err, "failed to list trades")
	}

	trades := make([]entity.Trade, 0, len(schemas))
	for _, s := range schemas {
		trades = append(trades, s.toDomain())
	}

	return trades, total, nil
}

// ListIDs возвращает идентификаторы всех сделок в порядке выдачи списка.
func (r *TradeRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.selectAll(ctx, &ids, `SELECT id FROM trades ORDER BY trade_date DESC, id DESC`); err != nil {
		return nil, domain.StoreError(err, "failed to list trade ids")
	}

	return ids, nil
}

func (r *TradeRepository) Summary(ctx context.Context) (entity.TradeSummary, error) {
	query := `
		SELECT
			COUNT(*) AS trade_count,
			COALESCE(SUM(CASE WHEN direction = 'acquire' THEN CAST(total_amount AS NUMERIC) ELSE 0 END), 0) AS total_bought,
			COALESCE(SUM(CASE WHEN direction = 'dispose' THEN CAST(total_amount AS NUMERIC) ELSE 0 END), 0) AS total_sold,
			COALESCE(SUM(CASE WHEN direction = 'dispose' THEN CAST(profit AS NUMERIC) ELSE 0 END), 0) AS total_profit
		FROM trades`

	var schema summarySchema
	if err := r.get(ctx, &schema, query); err != nil {
		return entity.TradeSummary{}, domain.StoreError(err, "failed to summarize trades")
	}

	return schema.toDomain(), nil
}

// OpenLots возвращает покупки с несписанным остатком, совершённые не позже
// asOf, старые первыми.
func (r *TradeRepository) OpenLots(ctx context.Context, cardID string, foil bool, asOf time.Time) ([]entity.Lot, error) {
	query := `
		SELECT id, remaining, unit_price, trade_date
		FROM trades
		WHERE card_id = ? AND foil = ? AND direction = 'acquire' AND remaining > 0 AND trade_date <= ?
		ORDER BY trade_date, id`

	var schemas []lotSchema
	if err := r.selectAll(ctx, &schemas, query, cardID, foil, timestamp(asOf)); err != nil {
		return nil, domain.StoreError(err, "failed to list open lots")
	}

	lots := make([]entity.Lot, 0, len(schemas))
	for _, s := range schemas {
		lots = append(lots, s.toDomain())
	}

	return lots, nil
}

// ConsumeLot списывает экземпляры из покупки. Остаток не может уйти ниже нуля.
func (r *TradeRepository) ConsumeLot(ctx context.Context, acquireID, quantity int64) error {
	rows, err := r.execAffected(ctx,
		`UPDATE trades SET remaining = remaining - ? WHERE id = ? AND direction = 'acquire' AND remaining >= ?`,
		quantity, acquireID, quantity,
	)
	if err != nil {
		return domain.StoreError(err, "failed to consume lot")
	}

	if rows == 0 {
		return domain.StoreError(
			errors.New("lot "+strconv.FormatInt(acquireID, 10)+" changed concurrently"),
			"failed to consume lot",
		)
	}

	return nil
}

// RestoreLot возвращает экземпляры в покупку. Возвращает false, если покупки
// уже нет.
func (r *TradeRepository) RestoreLot(ctx context.Context, acquireID, quantity int64) (bool, error) {
	rows, err := r.execAffected(ctx,
		`UPDATE trades SET remaining = remaining + ? WHERE id = ? AND direction = 'acquire'`,
		quantity, acquireID,
	)
	if err != nil {
		return false, domain.StoreError(err, "failed to restore lot")
	}

	return rows > 0, nil
}

func (r *TradeRepository) SaveConsumptions(ctx context.Context, consumptions []entity.LotConsumption) error {
	query := `
		INSERT INTO lot_consumptions (dispose_id, acquire_id, quantity, unit_cost)
		VALUES (:dispose_id, :acquire_id, :quantity, :unit_cost)`

	for _, c := range consumptions {
		if _, err := sqlx.NamedExecContext(ctx, r.conn(ctx), query, fromConsumption(c)); err != nil {
			return domain.StoreError(err, "failed to insert lot consumption")
		}
	}

	return nil
}

func (r *TradeRepository) Consumptions(ctx context.Context, disposeID int64) ([]entity.LotConsumption, error) {
	query := `
		SELECT dispose_id, acquire_id, quantity, unit_cost
		FROM lot_consumptions
		WHERE dispose_id = ?
		ORDER BY acquire_id`

	var schemas []consumptionSchema
	if err := r.selectAll(ctx, &schemas, query, disposeID); err != nil {
		return nil, domain.StoreError(err, "failed to list lot consumptions")
	}

	result := make([]entity.LotConsumption, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

func (r *TradeRepository) DeleteConsumptions(ctx context.Context, disposeID int64) error {
	if _, err := r.exec(ctx, `DELETE FROM lot_consumptions WHERE dispose_id = ?`, disposeID); err != nil {
		return domain.StoreError(err, "failed to delete lot consumptions")
	}

	return nil
}

func tradeNotFound(id int64) error {
	return domain.NewNotFoundError(errcodes.TradeNotFound, "trade "+strconv.FormatInt(id, 10)+" not found")
}
