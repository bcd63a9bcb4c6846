package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/history"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

type stubRefresher map[string]entity.Card

func (s stubRefresher) Refresh(_ context.Context, id string) (entity.Card, error) {
	card, ok := s[id]
	if !ok {
		return entity.Card{}, domain.NewError(errcodes.ProviderUnavailable, "provider is down")
	}

	return card, nil
}

type recordingObserver struct {
	results []entity.SyncResult
}

func (o *recordingObserver) SnapshotFinished(r entity.SyncResult) {
	o.results = append(o.results, r)
}

func TestRows(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := history.Rows(entity.Card{
		ID:         "c-bolt",
		Prices:     value.Prices{value.PriceUSDFoil: "10.00", value.PriceUSD: "2.50", value.PriceEUR: ""},
		Legalities: value.Legalities{"vintage": "legal", "legacy": "legal"},
	}, at)

	rq.Len(rows, 4)
	rq.Equal("usd", rows[0].Name)
	rq.Equal("USD", rows[0].Currency)
	rq.Equal("usd_foil", rows[1].Name)
	rq.Equal(value.SnapshotLegality, rows[2].Kind)
	rq.Equal("legacy", rows[2].Name)
	rq.Empty(rows[2].Currency)
	rq.True(rows[3].RecordedAt.Equal(at))
}

func TestService_Snapshot(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	db := dbtest.NewSQLite(t, dbtest.Cards())
	entries := persistence.NewLedgerRepository(db)

	for _, id := range []string{"c-bolt", "c-counter"} {
		_, err := entries.Set(ctx, id, false, 1)
		rq.NoError(err)
	}

	_, err := entries.Set(ctx, "c-island", false, 0)
	rq.NoError(err)

	refresher := stubRefresher{
		"c-bolt": {
			ID:         "c-bolt",
			Prices:     value.Prices{value.PriceUSD: "2.75"},
			Legalities: value.Legalities{"legacy": "legal"},
		},
	}
	observer := &recordingObserver{}

	svc := history.NewService(persistence.NewHistoryRepository(db), entries, refresher).WithObserver(observer)

	result, err := svc.Snapshot(ctx)
	rq.NoError(err)
	rq.Equal(entity.SyncResult{Processed: 2, Recorded: 2, Errors: 1}, result)
	rq.Equal([]entity.SyncResult{result}, observer.results)

	prices, err := svc.ListByCard(ctx, "c-bolt", value.SnapshotPrice, 0)
	rq.NoError(err)
	rq.Len(prices, 1)
	rq.Equal("2.75", prices[0].Value)

	// Журнал только дополняется.
	_, err = svc.Snapshot(ctx)
	rq.NoError(err)

	all, err := svc.ListByCard(ctx, "c-bolt", "", 10)
	rq.NoError(err)
	rq.Len(all, 4)
}

func TestService_ListByCard_Validation(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	svc := history.NewService(persistence.NewHistoryRepository(db), persistence.NewLedgerRepository(db), stubRefresher{})

	_, err := svc.ListByCard(ctx, "", "", 10)
	rq.Error(err)

	_, err = svc.ListByCard(ctx, "c-bolt", "volume", 10)
	rq.Error(err)

	rows, err := svc.ListByCard(ctx, "c-bolt", value.SnapshotLegality, 10)
	rq.NoError(err)
	rq.Empty(rows)
}

func TestService_Purge(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := persistence.NewHistoryRepository(db)
	svc := history.NewService(repo, persistence.NewLedgerRepository(db), stubRefresher{})

	now := time.Now().UTC()

	rq.NoError(repo.Append(ctx, []entity.Snapshot{
		{CardID: "c-bolt", Kind: value.SnapshotPrice, Name: "usd", Value: "1", RecordedAt: now.AddDate(-2, 0, 0)},
		{CardID: "c-bolt", Kind: value.SnapshotPrice, Name: "usd", Value: "2", RecordedAt: now},
	}))

	purged, err := svc.PurgeOlderThan(ctx, 0)
	rq.NoError(err)
	rq.Zero(purged)

	purged, err = svc.PurgeOlderThan(ctx, 365*24*time.Hour)
	rq.NoError(err)
	rq.EqualValues(1, purged)

	rows, err := svc.ListByCard(ctx, "c-bolt", "", 0)
	rq.NoError(err)
	rq.Len(rows, 1)
	rq.Equal("2", rows[0].Value)
}
