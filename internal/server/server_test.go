package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain/service/catalog"
	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
	"github.com/pazhukov/magic-collector/internal/domain/service/history"
	"github.com/pazhukov/magic-collector/internal/domain/service/journal"
	"github.com/pazhukov/magic-collector/internal/domain/service/ledger"
	"github.com/pazhukov/magic-collector/internal/infrastructure/persistence"
	"github.com/pazhukov/magic-collector/internal/server"
	"github.com/pazhukov/magic-collector/internal/worker"
	"github.com/pazhukov/magic-collector/pkg/dbtest"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
	"github.com/pazhukov/magic-collector/pkg/rest"
	"github.com/pazhukov/magic-collector/pkg/tests"
)

func newTestServer(t *testing.T) tests.APIClient {
	t.Helper()

	db := dbtest.NewSQLite(t, dbtest.Cards())
	tx := persistence.NewTransactor(db)
	entriesRepo := persistence.NewLedgerRepository(db)

	cards := catalog.NewService(persistence.NewCardRepository(db))
	entries := ledger.NewService(tx, entriesRepo, cards)
	trades := journal.NewService(tx, persistence.NewTradeRepository(db), entries, cards)
	decks := deck.NewService(tx, persistence.NewDeckRepository(db), cards, entries)
	snapshots := history.NewService(persistence.NewHistoryRepository(db), entriesRepo, cards)

	srv := server.NewServer(
		server.NewLedgerServer(entries),
		server.NewTradeServer(trades),
		server.NewDeckServer(decks),
		server.NewCardServer(cards, snapshots, worker.NewInlineTrigger(snapshots), persistence.NewStatsRepository(db), entries),
	)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(server.NewRouter(srv, log, logx.NewNopSensitiveDataMasker(), 1000))
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(ts.URL, ts.Client())
}

func TestLedgerEndpoints(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	client := newTestServer(t)

	var entry rest.LedgerEntry

	resp, err := client.Post(ctx, "/v1/ledger/delta", nil, rest.LedgerDeltaRequest{CardID: "c-counter", Delta: 2}, &entry, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.EqualValues(2, entry.Quantity)

	var apiErr rest.Error

	resp, err = client.Post(ctx, "/v1/ledger/delta", nil, rest.LedgerDeltaRequest{CardID: "c-counter", Delta: -5}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InsufficientQuantity), apiErr.Code)
	rq.Equal("2", apiErr.Payload["owned"])
	rq.Equal("5", apiErr.Payload["requested"])
	rq.NotEmpty(apiErr.SupportID)

	resp, err = client.Put(ctx, "/v1/ledger", nil, rest.LedgerSetRequest{CardID: "c-bolt", Foil: true, Quantity: 3}, &entry, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.EqualValues(3, entry.Quantity)

	var quantities rest.CardQuantities

	_, err = client.Get(ctx, "/v1/ledger/c-bolt", nil, &quantities, nil)
	rq.NoError(err)
	rq.Equal(rest.CardQuantities{CardID: "c-bolt", NonFoil: 0, Foil: 3}, quantities)

	var page rest.LedgerPage

	_, err = client.Get(ctx, "/v1/ledger?limit=10", nil, &page, nil)
	rq.NoError(err)
	rq.Equal(2, page.Total)
	rq.Equal("36.00", page.Value)

	apiErr = rest.Error{}
	resp, err = client.Get(ctx, "/v1/ledger?limit=-1", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	var deleted rest.Deleted

	_, err = client.Delete(ctx, "/v1/ledger", nil, &deleted, nil)
	rq.NoError(err)
	rq.EqualValues(2, deleted.Deleted)
}

func TestTradeEndpoints(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	client := newTestServer(t)

	var bought rest.Trade

	resp, err := client.Post(ctx, "/v1/trades", nil, rest.TradeRequest{
		CardRef:   rest.CardRef{ID: "c-bolt"},
		Direction: "buy",
		Quantity:  4,
		UnitPrice: "2.50",
		TradeDate: "2024-04-01",
	}, &bought, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("10.00", bought.TotalAmount)
	rq.EqualValues(4, bought.Remaining)

	var sold rest.Trade

	resp, err = client.Post(ctx, "/v1/trades", nil, rest.TradeRequest{
		CardRef:   rest.CardRef{Name: "Lightning Bolt"},
		Direction: "sell",
		Quantity:  1,
		UnitPrice: "5",
		TradeDate: "2024-04-02",
	}, &sold, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("c-bolt", sold.CardID)
	rq.Equal("2.50", sold.Profit)

	var apiErr rest.Error

	resp, err = client.Post(ctx, "/v1/trades", nil, rest.TradeRequest{
		CardRef:   rest.CardRef{ID: "c-bolt"},
		Direction: "swap",
		Quantity:  1,
		UnitPrice: "1",
	}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidDirection), apiErr.Code)

	var list rest.TradePage

	_, err = client.Get(ctx, "/v1/trades", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(2, list.Total)
	rq.Equal(sold.ID, list.Items[0].ID)

	var summary rest.TradeSummary

	_, err = client.Get(ctx, "/v1/trades/summary", nil, &summary, nil)
	rq.NoError(err)
	rq.EqualValues(2, summary.Count)

	resp, err = client.Delete(ctx, "/v1/trades/"+strconv.FormatInt(sold.ID, 10), nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	apiErr = rest.Error{}
	resp, err = client.Delete(ctx, "/v1/trades/"+strconv.FormatInt(sold.ID, 10), nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.TradeNotFound), apiErr.Code)

	apiErr = rest.Error{}
	resp, err = client.Delete(ctx, "/v1/trades/abc", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidTradeID), apiErr.Code)

	var report rest.BulkReport

	_, err = client.Delete(ctx, "/v1/trades", nil, &report, nil)
	rq.NoError(err)
	rq.Equal(1, report.Total)
	rq.Equal(1, report.Succeeded)
	rq.Empty(report.Failed)

	var quantities rest.CardQuantities

	_, err = client.Get(ctx, "/v1/ledger/c-bolt", nil, &quantities, nil)
	rq.NoError(err)
	rq.Zero(quantities.NonFoil)
}

func TestDeckEndpoints(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Post(ctx, "/v1/ledger/delta", nil, rest.LedgerDeltaRequest{CardID: "c-bolt", Delta: 2}, nil, nil)
	rq.NoError(err)

	var created rest.Deck

	resp, err := client.Post(ctx, "/v1/decks", nil, rest.DeckRequest{
		Name:     "Burn",
		Decklist: "4 Lightning Bolt (LEA) 161\nSideboard\n1 Counterspell",
	}, &created, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Len(created.Lines, 2)

	deckPath := "/v1/decks/" + strconv.FormatInt(created.ID, 10)

	var report rest.ValidationReport

	_, err = client.Get(ctx, deckPath+"/validation", nil, &report, nil)
	rq.NoError(err)
	rq.False(report.Satisfied)
	rq.EqualValues(3, report.TotalShortfall)

	var exported string

	_, err = client.Get(ctx, deckPath+"/export", nil, &exported, nil)
	rq.NoError(err)
	rq.Contains(exported, "4 Lightning Bolt (LEA) 161")
	rq.Contains(exported, "Sideboard\n1 Counterspell")

	resp, err = client.Delete(ctx, deckPath, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var apiErr rest.Error

	resp, err = client.Get(ctx, deckPath, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.DeckNotFound), apiErr.Code)

	var quantities rest.CardQuantities

	_, err = client.Get(ctx, "/v1/ledger/c-bolt", nil, &quantities, nil)
	rq.NoError(err)
	rq.EqualValues(2, quantities.NonFoil)
}

func TestCardEndpoints(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	ctx := context.Background()
	client := newTestServer(t)

	var card rest.Card

	_, err := client.Get(ctx, "/v1/cards/printings/M10/146", nil, &card, nil)
	rq.NoError(err)
	rq.Equal("c-bolt-m10", card.ID)

	var found rest.CardPage

	_, err = client.Get(ctx, "/v1/cards?q=bolt&limit=1&offset=1", nil, &found, nil)
	rq.NoError(err)
	rq.Equal(2, found.Total)
	rq.Len(found.Items, 1)
	rq.Equal("c-bolt-m10", found.Items[0].ID)

	var apiErr rest.Error

	resp, err := client.Get(ctx, "/v1/cards?q=bolt&offset=-1", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	apiErr = rest.Error{}
	resp, err = client.Get(ctx, "/v1/cards/nope", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	var stats rest.Stats

	_, err = client.Get(ctx, "/v1/stats", nil, &stats, nil)
	rq.NoError(err)
	rq.EqualValues(4, stats.Cards)
	rq.Equal("0.00", stats.Value)
}
