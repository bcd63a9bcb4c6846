package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/httpx/reply"
	"github.com/pazhukov/magic-collector/pkg/httpx/req"
	"github.com/pazhukov/magic-collector/pkg/lox"
	"github.com/pazhukov/magic-collector/pkg/rest"
)

type deckService interface {
	UpsertDeck(ctx context.Context, id int64, in deck.DeckInput) (entity.Deck, error)
	GetDeck(ctx context.Context, id int64) (entity.Deck, error)
	ListDecks(ctx context.Context) ([]entity.Deck, error)
	Validate(ctx context.Context, id int64) (entity.ValidationReport, error)
	DeleteDeck(ctx context.Context, id int64) error
	DeleteAllDecks(ctx context.Context) (int64, error)
	ExportText(ctx context.Context, id int64) (string, error)
}

type DeckServer struct {
	deckService deckService
}

func NewDeckServer(deckService deckService) DeckServer {
	return DeckServer{
		deckService: deckService,
	}
}

func (s DeckServer) getV1Decks(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	decks, err := s.deckService.ListDecks(ctx)
	if err != nil {
		return fmt.Errorf("deckService.ListDecks: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(decks, newRESTDeck))

	return nil
}

func (s DeckServer) getV1Deck(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, errcodes.InvalidDeckID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	d, err := s.deckService.GetDeck(ctx, id)
	if err != nil {
		return fmt.Errorf("deckService.GetDeck: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeck(d))

	return nil
}

func (s DeckServer) postV1Deck(w http.ResponseWriter, r *http.Request) error {
	return s.upsertDeck(w, r, 0, http.StatusCreated)
}

func (s DeckServer) putV1Deck(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, errcodes.InvalidDeckID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	return s.upsertDeck(w, r, id, http.StatusOK)
}

func (s DeckServer) upsertDeck(w http.ResponseWriter, r *http.Request, id int64, status int) error {
	ctx := r.Context()

	var request rest.DeckRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d, err := s.deckService.UpsertDeck(ctx, id, newDomainDeckInput(request))
	if err != nil {
		return fmt.Errorf("deckService.UpsertDeck: %w", err)
	}

	reply.JSON(ctx, w, status, newRESTDeck(d))

	return nil
}

func (s DeckServer) getV1DeckValidation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, errcodes.InvalidDeckID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	report, err := s.deckService.Validate(ctx, id)
	if err != nil {
		return fmt.Errorf("deckService.Validate: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTValidationReport(report))

	return nil
}

func (s DeckServer) getV1DeckExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, errcodes.InvalidDeckID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	text, err := s.deckService.ExportText(ctx, id)
	if err != nil {
		return fmt.Errorf("deckService.ExportText: %w", err)
	}

	reply.Text(ctx, w, http.StatusOK, text)

	return nil
}

func (s DeckServer) deleteV1Deck(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, errcodes.InvalidDeckID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	if err := s.deckService.DeleteDeck(ctx, id); err != nil {
		return fmt.Errorf("deckService.DeleteDeck: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s DeckServer) deleteV1Decks(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	deleted, err := s.deckService.DeleteAllDecks(ctx)
	if err != nil {
		return fmt.Errorf("deckService.DeleteAllDecks: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Deleted{Deleted: deleted})

	return nil
}
