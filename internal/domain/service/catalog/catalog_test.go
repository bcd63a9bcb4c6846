package catalog_test

import (
	"context"
	"sync"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/catalog"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

type fakeProvider struct {
	mu    sync.Mutex
	cards map[string]entity.Card
	calls int
}

func (p *fakeProvider) CardByID(_ context.Context, id string) (entity.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++

	card, ok := p.cards[id]
	if !ok {
		return entity.Card{}, domain.NewNotFoundError(errcodes.CardNotFound, "card "+id+" not found")
	}

	return card, nil
}

func (p *fakeProvider) CardByPrinting(ctx context.Context, setCode, number string) (entity.Card, error) {
	for _, c := range p.cards {
		if c.SetCode == setCode && c.CollectorNumber == number {
			return p.CardByID(ctx, c.ID)
		}
	}

	return entity.Card{}, domain.NewNotFoundError(errcodes.CardNotFound, "printing not found")
}

func newCatalog(t *testing.T) (*catalog.Service, *persistence.CardRepository) {
	t.Helper()

	repo := persistence.NewCardRepository(dbtest.NewSQLite(t, dbtest.Cards()))

	return catalog.NewService(repo), repo
}

func TestService_ResolveRef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		ref      value.CardRef
		wantID   string
		wantCode failure.ErrorCode
	}{
		{name: "id wins", ref: value.CardRef{ID: "c-counter", Name: "Lightning Bolt"}, wantID: "c-counter"},
		{name: "printing", ref: value.CardRef{SetCode: "m10", CollectorNumber: "146"}, wantID: "c-bolt-m10"},
		{name: "name takes first printing", ref: value.CardRef{Name: "Lightning Bolt"}, wantID: "c-bolt"},
		{name: "empty", ref: value.CardRef{}, wantCode: errcodes.InvalidCardRef},
		{name: "half printing", ref: value.CardRef{SetCode: "lea"}, wantCode: errcodes.InvalidCardRef},
		{name: "unknown name", ref: value.CardRef{Name: "Black Lotus"}, wantCode: errcodes.CardNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)
			svc, _ := newCatalog(t)

			card, err := svc.ResolveRef(context.Background(), tc.ref)
			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, failure.Code(err))

				return
			}

			rq.NoError(err)
			rq.Equal(tc.wantID, card.ID)
		})
	}
}

func TestService_ResolveName_Suggestions(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	svc, _ := newCatalog(t)

	_, err := svc.ResolveName(context.Background(), "Lightnin Bolt")
	rq.True(domain.IsNotFound(err))
	rq.Contains(err.Error(), "did you mean: Lightning Bolt")

	rq.Equal([]string{"Counterspell"}, svc.Suggest(context.Background(), "cntr", 3))
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		query     string
		page      value.Page
		wantIDs   []string
		wantTotal int
	}{
		{name: "by name", query: "BOLT", page: value.Page{Limit: 10}, wantIDs: []string{"c-bolt", "c-bolt-m10"}, wantTotal: 2},
		{name: "by type line", query: "basic land", page: value.Page{Limit: 10}, wantIDs: []string{"c-island"}, wantTotal: 1},
		{
			name:      "paged by name",
			query:     "instant",
			page:      value.Page{Limit: 2, Offset: 1},
			wantIDs:   []string{"c-bolt", "c-bolt-m10"},
			wantTotal: 3,
		},
		{name: "wildcards are literal", query: "%", page: value.Page{Limit: 10}, wantIDs: []string{}, wantTotal: 0},
		{name: "blank query", query: "  ", page: value.Page{Limit: 10}, wantIDs: []string{}, wantTotal: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)
			svc, _ := newCatalog(t)

			list, err := svc.Search(context.Background(), tc.query, tc.page)
			rq.NoError(err)
			rq.Equal(tc.wantTotal, list.Total)

			ids := make([]string, 0, len(list.Items))
			for _, card := range list.Items {
				ids = append(ids, card.ID)
			}

			rq.Equal(tc.wantIDs, ids)
		})
	}
}

func TestService_ProviderFallback(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	svc, repo := newCatalog(t)

	provider := &fakeProvider{cards: map[string]entity.Card{
		"c-remote": {ID: "c-remote", Name: "Ancestral Recall", SetCode: "lea", CollectorNumber: "48"},
	}}
	svc.WithProvider(provider)

	card, err := svc.Get(ctx, "c-remote")
	rq.NoError(err)
	rq.Equal("Ancestral Recall", card.Name)

	// Карта сохранена локально и закэширована.
	stored, err := repo.GetByID(ctx, "c-remote")
	rq.NoError(err)
	rq.Equal("Ancestral Recall", stored.Name)

	_, err = svc.Get(ctx, "c-remote")
	rq.NoError(err)
	rq.Equal(1, provider.calls)

	card, err = svc.ResolveName(ctx, "ancestral recall")
	rq.NoError(err)
	rq.Equal("c-remote", card.ID)

	_, err = svc.Get(ctx, "c-missing")
	rq.True(domain.IsNotFound(err))
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	svc, repo := newCatalog(t)

	_, err := svc.Refresh(ctx, "c-bolt")
	rq.Equal(errcodes.ProviderUnavailable, failure.Code(err))

	svc.WithProvider(&fakeProvider{cards: map[string]entity.Card{
		"c-bolt": {
			ID: "c-bolt", Name: "Lightning Bolt", SetCode: "lea", CollectorNumber: "161",
			Prices: value.Prices{value.PriceUSD: "4.00"},
		},
	}})

	card, err := svc.Refresh(ctx, "c-bolt")
	rq.NoError(err)
	rq.Equal("4.00", card.Prices[value.PriceUSD])

	stored, err := repo.GetByID(ctx, "c-bolt")
	rq.NoError(err)
	rq.Equal("4.00", stored.Prices[value.PriceUSD])
}

func TestService_Save(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newCatalog(t)

	rq.Error(svc.Save(ctx, entity.Card{ID: "x"}))

	// Список имён для подсказок сбрасывается после сохранения.
	rq.Empty(svc.Suggest(ctx, "Giant", 1))
	rq.NoError(svc.Save(ctx, entity.Card{ID: "c-giant", Name: "Giant Growth", SetCode: "lea", CollectorNumber: "198"}))
	rq.Equal([]string{"Giant Growth"}, svc.Suggest(ctx, "Giant", 1))

	card, err := svc.FindByPrinting(ctx, "LEA", "198")
	rq.NoError(err)
	rq.Equal("c-giant", card.ID)
}
