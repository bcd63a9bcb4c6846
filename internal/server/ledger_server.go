package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/httpx/reply"
	"github.com/pazhukov/magic-collector/pkg/httpx/req"
	"github.com/pazhukov/magic-collector/pkg/rest"
)

type ledgerService interface {
	ApplyDelta(ctx context.Context, cardID string, foil bool, delta int64) (int64, error)
	SetAbsolute(ctx context.Context, cardID string, foil bool, quantity int64) (int64, error)
	CardQuantities(ctx context.Context, cardID string) (nonFoil, foil int64, err error)
	List(ctx context.Context, page value.Page) (entity.Collection, error)
	ClearAll(ctx context.Context) (int64, error)
}

type LedgerServer struct {
	ledgerService ledgerService
}

func NewLedgerServer(ledgerService ledgerService) LedgerServer {
	return LedgerServer{
		ledgerService: ledgerService,
	}
}

func (s LedgerServer) getV1Ledger(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := pageFromQuery(r)
	if err != nil {
		return fmt.Errorf("pageFromQuery: %w", err)
	}

	collection, err := s.ledgerService.List(ctx, page)
	if err != nil {
		return fmt.Errorf("ledgerService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTLedgerPage(collection))

	return nil
}

func (s LedgerServer) getV1LedgerCard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	cardID := chi.URLParam(r, "cardID")

	nonFoil, foil, err := s.ledgerService.CardQuantities(ctx, cardID)
	if err != nil {
		return fmt.Errorf("ledgerService.CardQuantities: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CardQuantities{
		CardID:  cardID,
		NonFoil: nonFoil,
		Foil:    foil,
	})

	return nil
}

func (s LedgerServer) postV1LedgerDelta(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LedgerDeltaRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	quantity, err := s.ledgerService.ApplyDelta(ctx, request.CardID, request.Foil, request.Delta)
	if err != nil {
		return fmt.Errorf("ledgerService.ApplyDelta: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LedgerEntry{
		CardID:   request.CardID,
		Foil:     request.Foil,
		Quantity: quantity,
	})

	return nil
}

func (s LedgerServer) putV1Ledger(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LedgerSetRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	quantity, err := s.ledgerService.SetAbsolute(ctx, request.CardID, request.Foil, request.Quantity)
	if err != nil {
		return fmt.Errorf("ledgerService.SetAbsolute: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LedgerEntry{
		CardID:   request.CardID,
		Foil:     request.Foil,
		Quantity: quantity,
	})

	return nil
}

func (s LedgerServer) deleteV1Ledger(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	deleted, err := s.ledgerService.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("ledgerService.ClearAll: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Deleted{Deleted: deleted})

	return nil
}
