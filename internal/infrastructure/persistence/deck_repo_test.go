package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
)

func TestDeckRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewDeckRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	deck := &entity.Deck{Name: "Burn", Format: "legacy"}
	rq.NoError(repo.Create(ctx, deck))
	rq.NotZero(deck.ID)

	lines := []entity.DeckLine{
		{CardID: "c-bolt", Quantity: 4},
		{CardID: "c-bolt", Foil: true, Quantity: 1},
		{CardID: "c-counter", Sideboard: true, Quantity: 2},
	}
	rq.NoError(repo.ReplaceLines(ctx, deck.ID, lines))

	got, err := repo.Lines(ctx, deck.ID)
	rq.NoError(err)
	rq.Len(got, 3)
	rq.False(got[0].Sideboard)
	rq.Equal("Lightning Bolt", got[0].Card.Name)
	rq.True(got[2].Sideboard)

	rq.NoError(repo.ReplaceLines(ctx, deck.ID, lines[:1]))

	got, err = repo.Lines(ctx, deck.ID)
	rq.NoError(err)
	rq.Len(got, 1)

	deck.Name = "Red Burn"
	rq.NoError(repo.Update(ctx, deck))

	stored, err := repo.GetByID(ctx, deck.ID)
	rq.NoError(err)
	rq.Equal("Red Burn", stored.Name)

	rq.NoError(repo.Delete(ctx, deck.ID))
	rq.True(domain.IsNotFound(repo.Delete(ctx, deck.ID)))

	_, err = repo.GetByID(ctx, deck.ID)
	rq.True(domain.IsNotFound(err))

	missing := &entity.Deck{ID: deck.ID, Name: "x"}
	rq.True(domain.IsNotFound(repo.Update(ctx, missing)))
}

func TestDeckRepository_DeleteAll(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewDeckRepository(dbtest.NewSQLite(t))

	for _, name := range []string{"b", "a"} {
		deck := &entity.Deck{Name: name}
		rq.NoError(repo.Create(ctx, deck))
		rq.NoError(repo.ReplaceLines(ctx, deck.ID, []entity.DeckLine{{CardID: "c-bolt", Quantity: 1}}))
	}

	decks, err := repo.List(ctx)
	rq.NoError(err)
	rq.Equal("a", decks[0].Name)

	rows, err := repo.DeleteAll(ctx)
	rq.NoError(err)
	rq.EqualValues(2, rows)

	decks, err = repo.List(ctx)
	rq.NoError(err)
	rq.Empty(decks)

	lines, err := repo.Lines(ctx, 1)
	rq.NoError(err)
	rq.Empty(lines)
}
