package deck_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/service/catalog"
	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
	"github.com/pazhukov/magic-collector/internal/domain/service/ledger"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
)

func newServices(t *testing.T) (*deck.Service, *ledger.Service) {
	t.Helper()

	db := dbtest.NewSQLite(t, dbtest.Cards())
	cards := catalog.NewService(persistence.NewCardRepository(db))
	entries := ledger.NewService(persistence.NewTransactor(db), persistence.NewLedgerRepository(db), cards)

	return deck.NewService(persistence.NewTransactor(db), persistence.NewDeckRepository(db), cards, entries), entries
}

func TestService_UpsertDeck(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	decks, _ := newServices(t)

	created, err := decks.UpsertDeck(ctx, 0, deck.DeckInput{
		Name:   "  Burn ",
		Format: "legacy",
		Lines: []deck.LineInput{
			{Card: value.CardRef{ID: "c-bolt"}, Quantity: 2},
			{Card: value.CardRef{Name: "Lightning Bolt"}, Quantity: 2},
			{Card: value.CardRef{ID: "c-counter"}, Sideboard: true, Quantity: 1},
		},
	})
	rq.NoError(err)
	rq.NotZero(created.ID)
	rq.Equal("Burn", created.Name)
	rq.Len(created.Lines, 2)
	rq.EqualValues(4, created.Lines[0].Quantity)

	updated, err := decks.UpsertDeck(ctx, created.ID, deck.DeckInput{
		Name:     "Burn v2",
		Decklist: "3 Lightning Bolt (M10) 146",
	})
	rq.NoError(err)
	rq.Equal(created.ID, updated.ID)
	rq.Len(updated.Lines, 1)
	rq.Equal("c-bolt-m10", updated.Lines[0].CardID)

	list, err := decks.ListDecks(ctx)
	rq.NoError(err)
	rq.Len(list, 1)
}

func TestService_UpsertDeck_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		id    int64
		input deck.DeckInput
		check func(error) bool
	}{
		{
			name:  "empty name",
			input: deck.DeckInput{Name: " "},
			check: func(err error) bool { return err != nil },
		},
		{
			name: "zero quantity",
			input: deck.DeckInput{
				Name:  "x",
				Lines: []deck.LineInput{{Card: value.CardRef{ID: "c-bolt"}}},
			},
			check: domain.IsInvalidQuantity,
		},
		{
			name: "unknown card",
			input: deck.DeckInput{
				Name:  "x",
				Lines: []deck.LineInput{{Card: value.CardRef{Name: "Black Lotus"}, Quantity: 1}},
			},
			check: domain.IsNotFound,
		},
		{
			name:  "missing deck",
			id:    42,
			input: deck.DeckInput{Name: "x"},
			check: domain.IsNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)
			decks, _ := newServices(t)

			_, err := decks.UpsertDeck(context.Background(), tc.id, tc.input)
			rq.True(tc.check(err), err)
		})
	}
}

func TestService_Validate(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	decks, entries := newServices(t)

	created, err := decks.UpsertDeck(ctx, 0, deck.DeckInput{
		Name: "Burn",
		Lines: []deck.LineInput{
			{Card: value.CardRef{ID: "c-bolt"}, Quantity: 3},
			{Card: value.CardRef{ID: "c-bolt"}, Sideboard: true, Quantity: 1},
			{Card: value.CardRef{ID: "c-bolt"}, Foil: true, Quantity: 1},
			{Card: value.CardRef{ID: "c-counter"}, Quantity: 2},
		},
	})
	rq.NoError(err)

	_, err = entries.SetAbsolute(ctx, "c-bolt", false, 2)
	rq.NoError(err)
	_, err = entries.SetAbsolute(ctx, "c-bolt", true, 5)
	rq.NoError(err)
	_, err = entries.SetAbsolute(ctx, "c-counter", false, 2)
	rq.NoError(err)

	report, err := decks.Validate(ctx, created.ID)
	rq.NoError(err)
	rq.False(report.Satisfied)
	rq.EqualValues(2, report.TotalShortfall)
	rq.Len(report.Lines, 3)

	// Counterspell, затем Lightning Bolt: обычная перед фойловой.
	rq.Equal("c-counter", report.Lines[0].CardID)
	rq.Zero(report.Lines[0].Shortfall)

	bolt := report.Lines[1]
	rq.False(bolt.Foil)
	rq.EqualValues(3, bolt.Main)
	rq.EqualValues(1, bolt.Side)
	rq.EqualValues(4, bolt.Requested)
	rq.EqualValues(2, bolt.Owned)
	rq.EqualValues(2, bolt.Shortfall)

	rq.True(report.Lines[2].Foil)
	rq.Zero(report.Lines[2].Shortfall)

	// Сверка не меняет учёт.
	qty, err := entries.Get(ctx, "c-bolt", false)
	rq.NoError(err)
	rq.EqualValues(2, qty)

	_, err = entries.SetAbsolute(ctx, "c-bolt", false, 4)
	rq.NoError(err)

	report, err = decks.Validate(ctx, created.ID)
	rq.NoError(err)
	rq.True(report.Satisfied)
	rq.Zero(report.TotalShortfall)
}

func TestService_DeleteDeck(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	decks, _ := newServices(t)

	created, err := decks.UpsertDeck(ctx, 0, deck.DeckInput{Name: "Burn", Decklist: "4 Lightning Bolt"})
	rq.NoError(err)

	text, err := decks.ExportText(ctx, created.ID)
	rq.NoError(err)
	rq.Equal("4 Lightning Bolt (LEA) 161", text)

	rq.NoError(decks.DeleteDeck(ctx, created.ID))
	rq.True(domain.IsNotFound(decks.DeleteDeck(ctx, created.ID)))

	_, err = decks.Validate(ctx, created.ID)
	rq.True(domain.IsNotFound(err))

	for _, name := range []string{"a", "b"} {
		_, err = decks.UpsertDeck(ctx, 0, deck.DeckInput{Name: name, Decklist: "1 Island"})
		rq.NoError(err)
	}

	deleted, err := decks.DeleteAllDecks(ctx)
	rq.NoError(err)
	rq.EqualValues(2, deleted)
}
