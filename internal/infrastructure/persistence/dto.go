package persistence

import (
	"database/sql"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// cardSchema - строка таблицы cards. Цены и легальность лежат JSON-текстом.
type cardSchema struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	SetCode         string    `db:"set_code"`
	SetName         string    `db:"set_name"`
	CollectorNumber string    `db:"collector_number"`
	Rarity          string    `db:"rarity"`
	TypeLine        string    `db:"type_line"`
	Prices          string    `db:"prices"`
	Legalities      string    `db:"legalities"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func fromCard(c entity.Card) (cardSchema, error) {
	prices, err := json.MarshalToString(c.Prices)
	if err != nil {
		return cardSchema{}, err
	}

	legalities, err := json.MarshalToString(c.Legalities)
	if err != nil {
		return cardSchema{}, err
	}

	return cardSchema{
		ID:              c.ID,
		Name:            c.Name,
		SetCode:         c.SetCode,
		SetName:         c.SetName,
		CollectorNumber: c.CollectorNumber,
		Rarity:          c.Rarity,
		TypeLine:        c.TypeLine,
		Prices:          prices,
		Legalities:      legalities,
		UpdatedAt:       timestamp(c.UpdatedAt),
	}, nil
}

func (s cardSchema) toDomain() (entity.Card, error) {
	card := entity.Card{
		ID:              s.ID,
		Name:            s.Name,
		SetCode:         s.SetCode,
		SetName:         s.SetName,
		CollectorNumber: s.CollectorNumber,
		Rarity:          s.Rarity,
		TypeLine:        s.TypeLine,
		UpdatedAt:       s.UpdatedAt,
	}

	if err := unmarshalMap(s.Prices, &card.Prices); err != nil {
		return entity.Card{}, err
	}

	if err := unmarshalMap(s.Legalities, &card.Legalities); err != nil {
		return entity.Card{}, err
	}

	return card, nil
}

func unmarshalMap[M ~map[string]string](raw string, dest *M) error {
	if raw == "" || raw == "null" {
		return nil
	}

	return json.UnmarshalFromString(raw, dest)
}

// collectionSchema - позиция учёта, соединённая с каталогом. Карта может
// отсутствовать в каталоге, поэтому её поля nullable.
type collectionSchema struct {
	CardID          string         `db:"card_id"`
	Foil            bool           `db:"foil"`
	Quantity        int64          `db:"quantity"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	Name            sql.NullString `db:"name"`
	SetCode         sql.NullString `db:"set_code"`
	SetName         sql.NullString `db:"set_name"`
	CollectorNumber sql.NullString `db:"collector_number"`
	Rarity          sql.NullString `db:"rarity"`
	Prices          sql.NullString `db:"prices"`
}

func (s collectionSchema) toDomain() (entity.CollectionItem, error) {
	item := entity.CollectionItem{
		Entry: entity.LedgerEntry{
			CardID:    s.CardID,
			Foil:      s.Foil,
			Quantity:  s.Quantity,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Card: entity.Card{
			ID:              s.CardID,
			Name:            s.Name.String,
			SetCode:         s.SetCode.String,
			SetName:         s.SetName.String,
			CollectorNumber: s.CollectorNumber.String,
			Rarity:          s.Rarity.String,
		},
	}

	if err := unmarshalMap(s.Prices.String, &item.Card.Prices); err != nil {
		return entity.CollectionItem{}, err
	}

	return item, nil
}

type ledgerSchema struct {
	CardID   string `db:"card_id"`
	Foil     bool   `db:"foil"`
	Quantity int64  `db:"quantity"`
}

type tradeSchema struct {
	ID          int64           `db:"id"`
	CardID      string          `db:"card_id"`
	Foil        bool            `db:"foil"`
	Direction   string          `db:"direction"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CostBasis   decimal.Decimal `db:"cost_basis"`
	Profit      decimal.Decimal `db:"profit"`
	Remaining   int64           `db:"remaining"`
	TradeDate   time.Time       `db:"trade_date"`
	CreatedAt   time.Time       `db:"created_at"`
}

func fromTrade(t *entity.Trade) tradeSchema {
	return tradeSchema{
		ID:          t.ID,
		CardID:      t.CardID,
		Foil:        t.Foil,
		Direction:   t.Direction.String(),
		Quantity:    t.Quantity,
		UnitPrice:   t.UnitPrice,
		TotalAmount: t.TotalAmount,
		CostBasis:   t.CostBasis,
		Profit:      t.Profit,
		Remaining:   t.Remaining,
		TradeDate:   timestamp(t.TradeDate),
		CreatedAt:   timestamp(t.CreatedAt),
	}
}

func (s tradeSchema) toDomain() entity.Trade {
	return entity.Trade{
		ID:          s.ID,
		CardID:      s.CardID,
		Foil:        s.Foil,
		Direction:   value.Direction(s.Direction),
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		CostBasis:   s.CostBasis,
		Profit:      s.Profit,
		Remaining:   s.Remaining,
		TradeDate:   s.TradeDate,
		CreatedAt:   s.CreatedAt,
	}
}

// tradeListSchema - сделка вместе с названием карты для выдачи списком.
type tradeListSchema struct {
	tradeSchema
	CardName        sql.NullString `db:"card_name"`
	SetCode         sql.NullString `db:"set_code"`
	CollectorNumber sql.NullString `db:"collector_number"`
}

func (s tradeListSchema) toDomain() entity.Trade {
	t := s.tradeSchema.toDomain()

	if s.CardName.Valid {
		t.Card = &entity.Card{
			ID:              s.CardID,
			Name:            s.CardName.String,
			SetCode:         s.SetCode.String,
			CollectorNumber: s.CollectorNumber.String,
		}
	}

	return t
}

type lotSchema struct {
	TradeID   int64           `db:"id"`
	Remaining int64           `db:"remaining"`
	UnitCost  decimal.Decimal `db:"unit_price"`
	TradeDate time.Time       `db:"trade_date"`
}

func (s lotSchema) toDomain() entity.Lot {
	return entity.Lot{
		TradeID:   s.TradeID,
		Remaining: s.Remaining,
		UnitCost:  s.UnitCost,
		TradeDate: s.TradeDate,
	}
}

type consumptionSchema struct {
	DisposeID int64           `db:"dispose_id"`
	AcquireID int64           `db:"acquire_id"`
	Quantity  int64           `db:"quantity"`
	UnitCost  decimal.Decimal `db:"unit_cost"`
}

func fromConsumption(c entity.LotConsumption) consumptionSchema {
	return consumptionSchema{
		DisposeID: c.DisposeID,
		AcquireID: c.AcquireID,
		Quantity:  c.Quantity,
		UnitCost:  c.UnitCost,
	}
}

func (s consumptionSchema) toDomain() entity.LotConsumption {
	return entity.LotConsumption{
		DisposeID: s.DisposeID,
		AcquireID: s.AcquireID,
		Quantity:  s.Quantity,
		UnitCost:  s.UnitCost,
	}
}

// summarySchema - агрегаты по журналу. В SQLite суммы приходят числами с
// плавающей точкой, поэтому их округляют при переводе в домен.
type summarySchema struct {
	Count       int64           `db:"trade_count"`
	TotalBought decimal.Decimal `db:"total_bought"`
	TotalSold   decimal.Decimal `db:"total_sold"`
	TotalProfit decimal.Decimal `db:"total_profit"`
}

func (s summarySchema) toDomain() entity.TradeSummary {
	return entity.TradeSummary{
		Count:       s.Count,
		TotalBought: s.TotalBought.Round(2),
		TotalSold:   s.TotalSold.Round(2),
		TotalProfit: s.TotalProfit.Round(2),
	}
}

type deckSchema struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Format      string    `db:"format"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (s deckSchema) toDomain() entity.Deck {
	return entity.Deck{
		ID:          s.ID,
		Name:        s.Name,
		Format:      s.Format,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type deckLineSchema struct {
	DeckID          int64          `db:"deck_id"`
	CardID          string         `db:"card_id"`
	Foil            bool           `db:"foil"`
	Sideboard       bool           `db:"sideboard"`
	Quantity        int64          `db:"quantity"`
	CardName        sql.NullString `db:"card_name"`
	SetCode         sql.NullString `db:"set_code"`
	CollectorNumber sql.NullString `db:"collector_number"`
}

func (s deckLineSchema) toDomain() entity.DeckLine {
	line := entity.DeckLine{
		DeckID:    s.DeckID,
		CardID:    s.CardID,
		Foil:      s.Foil,
		Sideboard: s.Sideboard,
		Quantity:  s.Quantity,
	}

	if s.CardName.Valid {
		line.Card = &entity.Card{
			ID:              s.CardID,
			Name:            s.CardName.String,
			SetCode:         s.SetCode.String,
			CollectorNumber: s.CollectorNumber.String,
		}
	}

	return line
}

type snapshotSchema struct {
	ID         int64     `db:"id"`
	CardID     string    `db:"card_id"`
	Kind       string    `db:"kind"`
	Name       string    `db:"name"`
	Value      string    `db:"value"`
	Currency   string    `db:"currency"`
	RecordedAt time.Time `db:"recorded_at"`
}

func fromSnapshot(s entity.Snapshot) snapshotSchema {
	return snapshotSchema{
		CardID:     s.CardID,
		Kind:       string(s.Kind),
		Name:       s.Name,
		Value:      s.Value,
		Currency:   s.Currency,
		RecordedAt: timestamp(s.RecordedAt),
	}
}

func (s snapshotSchema) toDomain() entity.Snapshot {
	return entity.Snapshot{
		ID:         s.ID,
		CardID:     s.CardID,
		Kind:       value.SnapshotKind(s.Kind),
		Name:       s.Name,
		Value:      s.Value,
		Currency:   s.Currency,
		RecordedAt: s.RecordedAt,
	}
}
