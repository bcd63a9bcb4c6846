package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
)

func TestCardRepository_Lookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := persistence.NewCardRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	testCases := []struct {
		name    string
		lookup  func() (entity.Card, error)
		wantID  string
		wantErr bool
	}{
		{
			name:   "by id",
			lookup: func() (entity.Card, error) { return repo.GetByID(ctx, "c-counter") },
			wantID: "c-counter",
		},
		{
			name:   "by printing ignores set case",
			lookup: func() (entity.Card, error) { return repo.GetByPrinting(ctx, "M10", "146") },
			wantID: "c-bolt-m10",
		},
		{
			name:    "unknown id",
			lookup:  func() (entity.Card, error) { return repo.GetByID(ctx, "missing") },
			wantErr: true,
		},
		{
			name:    "unknown printing",
			lookup:  func() (entity.Card, error) { return repo.GetByPrinting(ctx, "lea", "999") },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			card, err := tc.lookup()
			if tc.wantErr {
				rq.True(domain.IsNotFound(err))
				return
			}

			rq.NoError(err)
			rq.Equal(tc.wantID, card.ID)
		})
	}
}

func TestCardRepository_FindByName(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewCardRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	cards, err := repo.FindByName(ctx, "  lightning BOLT ")
	rq.NoError(err)
	rq.Len(cards, 2)
	rq.Equal("c-bolt", cards[0].ID)
	rq.Equal("c-bolt-m10", cards[1].ID)
	rq.Equal("legal", cards[0].Legalities["legacy"])

	names, err := repo.Names(ctx)
	rq.NoError(err)
	rq.Equal([]string{"Counterspell", "Island", "Lightning Bolt"}, names)
}

func TestCardRepository_Search(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewCardRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	cards, total, err := repo.Search(ctx, "Instant", value.Page{Limit: 2})
	rq.NoError(err)
	rq.Equal(3, total)
	rq.Len(cards, 2)
	rq.Equal("Counterspell", cards[0].Name)
	rq.Equal("c-bolt", cards[1].ID)
	rq.Equal("2.50", cards[1].Prices[value.PriceUSD])

	cards, total, err = repo.Search(ctx, "island", value.Page{Limit: 10})
	rq.NoError(err)
	rq.Equal(1, total)
	rq.Equal("c-island", cards[0].ID)

	rq.NoError(repo.Upsert(ctx, entity.Card{ID: "c-pct", Name: "100% Raging", SetCode: "unf", CollectorNumber: "1"}))

	cards, total, err = repo.Search(ctx, "0%", value.Page{Limit: 10})
	rq.NoError(err)
	rq.Equal(1, total)
	rq.Equal("c-pct", cards[0].ID)

	cards, total, err = repo.Search(ctx, "_", value.Page{Limit: 10})
	rq.NoError(err)
	rq.Zero(total)
	rq.Empty(cards)
}

func TestCardRepository_Upsert(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewCardRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	card, err := repo.GetByID(ctx, "c-island")
	rq.NoError(err)
	rq.Empty(card.Prices)

	card.Prices = value.Prices{value.PriceUSD: "0.25"}
	card.Rarity = "land"
	rq.NoError(repo.Upsert(ctx, card))

	got, err := repo.GetByID(ctx, "c-island")
	rq.NoError(err)
	rq.Equal("0.25", got.Prices[value.PriceUSD])
	rq.Equal("land", got.Rarity)

	fresh := entity.Card{ID: "c-new", Name: "Giant Growth", SetCode: "lea", CollectorNumber: "198"}
	rq.NoError(repo.Upsert(ctx, fresh))

	got, err = repo.GetByPrinting(ctx, "lea", "198")
	rq.NoError(err)
	rq.Equal("Giant Growth", got.Name)
	rq.Nil(got.Prices)
}
