package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKey идентифицирует позицию учёта: обычная и фойловая версии одной
// карты учитываются раздельно.
type LedgerKey struct {
	CardID string
	Foil   bool
}

type LedgerEntry struct {
	CardID    string
	Foil      bool
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e LedgerEntry) Key() LedgerKey {
	return LedgerKey{CardID: e.CardID, Foil: e.Foil}
}

// CollectionItem - позиция коллекции вместе с данными карты и оценкой.
type CollectionItem struct {
	Entry     LedgerEntry
	Card      Card
	UnitPrice decimal.NullDecimal
	Value     decimal.NullDecimal
}

type Collection struct {
	Items []CollectionItem
	// Total - число позиций без учёта пагинации.
	Total int
	// Value - оценка текущей страницы.
	Value decimal.Decimal
}

type LedgerTotals struct {
	Entries int64
	Copies  int64
	Value   decimal.Decimal
}
