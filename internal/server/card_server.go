package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/httpx/reply"
	"github.com/pazhukov/magic-collector/pkg/rest"
)

type cardCatalog interface {
	Get(ctx context.Context, id string) (entity.Card, error)
	FindByPrinting(ctx context.Context, setCode, number string) (entity.Card, error)
	Refresh(ctx context.Context, id string) (entity.Card, error)
	Search(ctx context.Context, query string, page value.Page) (entity.CardList, error)
}

type historyService interface {
	ListByCard(ctx context.Context, cardID string, kind value.SnapshotKind, limit int) ([]entity.Snapshot, error)
}

type snapshotTrigger interface {
	Trigger(ctx context.Context) (bool, error)
}

type statsSource interface {
	Stats(ctx context.Context) (entity.Stats, error)
}

type ledgerTotals interface {
	Totals(ctx context.Context) (entity.LedgerTotals, error)
}

// CardServer отдаёт каталог, историю цен и сводную статистику.
type CardServer struct {
	catalog  cardCatalog
	history  historyService
	snapshot snapshotTrigger
	stats    statsSource
	totals   ledgerTotals
}

func NewCardServer(
	catalog cardCatalog,
	history historyService,
	snapshot snapshotTrigger,
	stats statsSource,
	totals ledgerTotals,
) CardServer {
	return CardServer{
		catalog:  catalog,
		history:  history,
		snapshot: snapshot,
		stats:    stats,
		totals:   totals,
	}
}

func (s CardServer) getV1Cards(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := pageFromQuery(r)
	if err != nil {
		return fmt.Errorf("pageFromQuery: %w", err)
	}

	list, err := s.catalog.Search(ctx, r.URL.Query().Get("q"), page)
	if err != nil {
		return fmt.Errorf("catalog.Search: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCardPage(list))

	return nil
}

func (s CardServer) getV1Card(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	refresh, err := boolQuery(r, "refresh")
	if err != nil {
		return fmt.Errorf("boolQuery: %w", err)
	}

	var card entity.Card

	if refresh {
		card, err = s.catalog.Refresh(ctx, id)
	} else {
		card, err = s.catalog.Get(ctx, id)
	}

	if err != nil {
		return fmt.Errorf("catalog.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCard(card))

	return nil
}

func (s CardServer) getV1CardByPrinting(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	card, err := s.catalog.FindByPrinting(ctx, chi.URLParam(r, "set"), chi.URLParam(r, "number"))
	if err != nil {
		return fmt.Errorf("catalog.FindByPrinting: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCard(card))

	return nil
}

func (s CardServer) getV1CardHistory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := intQuery(r, "limit")
	if err != nil {
		return fmt.Errorf("intQuery: %w", err)
	}

	kind := value.SnapshotKind(r.URL.Query().Get("kind"))

	snapshots, err := s.history.ListByCard(ctx, chi.URLParam(r, "id"), kind, limit)
	if err != nil {
		return fmt.Errorf("history.ListByCard: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSnapshots(snapshots))

	return nil
}

func (s CardServer) postV1HistorySnapshot(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	started, err := s.snapshot.Trigger(ctx)
	if err != nil {
		return fmt.Errorf("snapshot.Trigger: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.SnapshotStarted{Started: started})

	return nil
}

func (s CardServer) getV1Stats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats.Stats: %w", err)
	}

	totals, err := s.totals.Totals(ctx)
	if err != nil {
		return fmt.Errorf("totals.Totals: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStats(stats, totals))

	return nil
}
