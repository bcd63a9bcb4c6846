package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain/value"
)

type Trade struct {
	ID          int64
	CardID      string
	Foil        bool
	Direction   value.Direction
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	// CostBasis - средняя себестоимость экземпляра по FIFO, только для продаж.
	CostBasis decimal.Decimal
	// Profit - выручка минус себестоимость, только для продаж.
	Profit decimal.Decimal
	// Remaining - сколько экземпляров покупки ещё не списано продажами.
	Remaining int64
	TradeDate time.Time
	CreatedAt time.Time

	// Card заполняется только при выборке списка.
	Card *Card
}

func (t Trade) Key() LedgerKey {
	return LedgerKey{CardID: t.CardID, Foil: t.Foil}
}

// Lot - открытая покупка, из которой ещё можно списывать себестоимость.
type Lot struct {
	TradeID   int64
	Remaining int64
	UnitCost  decimal.Decimal
	TradeDate time.Time
}

// LotConsumption фиксирует, сколько экземпляров продажа взяла из покупки
// и по какой цене.
type LotConsumption struct {
	DisposeID int64
	AcquireID int64
	Quantity  int64
	UnitCost  decimal.Decimal
}

type TradeSummary struct {
	Count       int64
	TotalBought decimal.Decimal
	TotalSold   decimal.Decimal
	TotalProfit decimal.Decimal
}

type TradeList struct {
	Items []Trade
	Total int
}
