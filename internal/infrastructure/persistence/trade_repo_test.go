package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
)

func newAcquire(cardID string, qty int64, price string, date time.Time) *entity.Trade {
	unit := decimal.RequireFromString(price)

	return &entity.Trade{
		CardID:      cardID,
		Direction:   value.Acquire,
		Quantity:    qty,
		UnitPrice:   unit,
		TotalAmount: unit.Mul(decimal.NewFromInt(qty)),
		Remaining:   qty,
		TradeDate:   date,
	}
}

func TestTradeRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t))

	trade := newAcquire("c-bolt", 3, "1.25", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	rq.NoError(repo.Create(ctx, trade))
	rq.NotZero(trade.ID)

	got, err := repo.GetByID(ctx, trade.ID)
	rq.NoError(err)
	rq.Equal(value.Acquire, got.Direction)
	rq.EqualValues(3, got.Quantity)
	rq.True(decimal.RequireFromString("3.75").Equal(got.TotalAmount))
	rq.EqualValues(3, got.Remaining)
	rq.True(trade.TradeDate.Equal(got.TradeDate))

	_, err = repo.GetByID(ctx, trade.ID+100)
	rq.True(domain.IsNotFound(err))
}

func TestTradeRepository_DeleteTwice(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t))

	trade := newAcquire("c-bolt", 1, "1", time.Now())
	rq.NoError(repo.Create(ctx, trade))

	rq.NoError(repo.Delete(ctx, trade.ID))
	rq.True(domain.IsNotFound(repo.Delete(ctx, trade.ID)))
}

func TestTradeRepository_ListOrder(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	older := newAcquire("c-bolt", 1, "1", day.AddDate(0, 0, -1))
	first := newAcquire("c-counter", 1, "1", day)
	second := newAcquire("unknown", 1, "1", day)

	for _, tr := range []*entity.Trade{older, first, second} {
		rq.NoError(repo.Create(ctx, tr))
	}

	trades, total, err := repo.List(ctx, value.Page{Limit: 10})
	rq.NoError(err)
	rq.Equal(3, total)

	// Новые первыми, при равной дате больший id первым.
	rq.Equal([]int64{second.ID, first.ID, older.ID}, []int64{trades[0].ID, trades[1].ID, trades[2].ID})
	rq.Nil(trades[0].Card)
	rq.Equal("Counterspell", trades[1].Card.Name)

	ids, err := repo.ListIDs(ctx)
	rq.NoError(err)
	rq.Equal([]int64{second.ID, first.ID, older.ID}, ids)
}

func TestTradeRepository_Lots(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t))

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	late := newAcquire("c-bolt", 2, "3", day)
	early := newAcquire("c-bolt", 2, "1", day.AddDate(0, 0, -7))
	foil := newAcquire("c-bolt", 1, "9", day)
	foil.Foil = true

	for _, tr := range []*entity.Trade{late, early, foil} {
		rq.NoError(repo.Create(ctx, tr))
	}

	lots, err := repo.OpenLots(ctx, "c-bolt", false, day)
	rq.NoError(err)
	rq.Len(lots, 2)
	rq.Equal(early.ID, lots[0].TradeID)
	rq.Equal(late.ID, lots[1].TradeID)

	lots, err = repo.OpenLots(ctx, "c-bolt", false, day.AddDate(0, 0, -1))
	rq.NoError(err)
	rq.Len(lots, 1)
	rq.Equal(early.ID, lots[0].TradeID)

	rq.NoError(repo.ConsumeLot(ctx, early.ID, 2))
	rq.Error(repo.ConsumeLot(ctx, early.ID, 1))

	lots, err = repo.OpenLots(ctx, "c-bolt", false, day)
	rq.NoError(err)
	rq.Len(lots, 1)
	rq.Equal(late.ID, lots[0].TradeID)

	restored, err := repo.RestoreLot(ctx, early.ID, 1)
	rq.NoError(err)
	rq.True(restored)

	restored, err = repo.RestoreLot(ctx, 9999, 1)
	rq.NoError(err)
	rq.False(restored)
}

func TestTradeRepository_Consumptions(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t))

	consumptions := []entity.LotConsumption{
		{DisposeID: 10, AcquireID: 2, Quantity: 1, UnitCost: decimal.RequireFromString("2.5")},
		{DisposeID: 10, AcquireID: 1, Quantity: 3, UnitCost: decimal.RequireFromString("1")},
	}
	rq.NoError(repo.SaveConsumptions(ctx, consumptions))

	got, err := repo.Consumptions(ctx, 10)
	rq.NoError(err)
	rq.Len(got, 2)
	rq.EqualValues(1, got[0].AcquireID)
	rq.EqualValues(3, got[0].Quantity)
	rq.True(decimal.RequireFromString("2.5").Equal(got[1].UnitCost))

	rq.NoError(repo.DeleteConsumptions(ctx, 10))

	got, err = repo.Consumptions(ctx, 10)
	rq.NoError(err)
	rq.Empty(got)
}

func TestTradeRepository_Summary(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewTradeRepository(dbtest.NewSQLite(t))

	summary, err := repo.Summary(ctx)
	rq.NoError(err)
	rq.Zero(summary.Count)
	rq.True(summary.TotalBought.IsZero())

	rq.NoError(repo.Create(ctx, newAcquire("c-bolt", 2, "1.10", time.Now())))

	sale := &entity.Trade{
		CardID:      "c-bolt",
		Direction:   value.Dispose,
		Quantity:    1,
		UnitPrice:   decimal.RequireFromString("3.35"),
		TotalAmount: decimal.RequireFromString("3.35"),
		CostBasis:   decimal.RequireFromString("1.10"),
		Profit:      decimal.RequireFromString("2.25"),
		TradeDate:   time.Now(),
	}
	rq.NoError(repo.Create(ctx, sale))

	summary, err = repo.Summary(ctx)
	rq.NoError(err)
	rq.EqualValues(2, summary.Count)
	rq.Equal("2.20", summary.TotalBought.StringFixed(2))
	rq.Equal("3.35", summary.TotalSold.StringFixed(2))
	rq.Equal("2.25", summary.TotalProfit.StringFixed(2))
}
