package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/journal"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/httpx/reply"
	"github.com/pazhukov/magic-collector/pkg/httpx/req"
	"github.com/pazhukov/magic-collector/pkg/rest"
)

type tradeService interface {
	RecordTrade(ctx context.Context, in journal.TradeInput) (entity.Trade, error)
	DeleteTrade(ctx context.Context, id int64) (entity.Trade, error)
	DeleteAll(ctx context.Context) (entity.BulkReport, error)
	List(ctx context.Context, page value.Page) (entity.TradeList, error)
	Summary(ctx context.Context) (entity.TradeSummary, error)
}

type TradeServer struct {
	tradeService tradeService
}

func NewTradeServer(tradeService tradeService) TradeServer {
	return TradeServer{
		tradeService: tradeService,
	}
}

func (s TradeServer) getV1Trades(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := pageFromQuery(r)
	if err != nil {
		return fmt.Errorf("pageFromQuery: %w", err)
	}

	list, err := s.tradeService.List(ctx, page)
	if err != nil {
		return fmt.Errorf("tradeService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTradePage(list))

	return nil
}

func (s TradeServer) getV1TradesSummary(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	summary, err := s.tradeService.Summary(ctx)
	if err != nil {
		return fmt.Errorf("tradeService.Summary: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTradeSummary(summary))

	return nil
}

func (s TradeServer) postV1Trade(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TradeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainTradeInput(request)
	if err != nil {
		return fmt.Errorf("newDomainTradeInput: %w", err)
	}

	trade, err := s.tradeService.RecordTrade(ctx, in)
	if err != nil {
		return fmt.Errorf("tradeService.RecordTrade: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTTrade(trade))

	return nil
}

func (s TradeServer) deleteV1Trade(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, errcodes.InvalidTradeID)
	if err != nil {
		return fmt.Errorf("idParam: %w", err)
	}

	trade, err := s.tradeService.DeleteTrade(ctx, id)
	if err != nil {
		return fmt.Errorf("tradeService.DeleteTrade: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTrade(trade))

	return nil
}

func (s TradeServer) deleteV1Trades(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	report, err := s.tradeService.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("tradeService.DeleteAll: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBulkReport(report))

	return nil
}

func newDomainTradeInput(request rest.TradeRequest) (journal.TradeInput, error) {
	direction, err := value.ParseDirection(request.Direction)
	if err != nil {
		return journal.TradeInput{}, err
	}

	price, err := decimal.NewFromString(request.UnitPrice)
	if err != nil {
		return journal.TradeInput{}, domain.NewValidationError(errcodes.InvalidPrice, "unit price must be a decimal number")
	}

	tradeDate, err := parseTradeDate(request.TradeDate)
	if err != nil {
		return journal.TradeInput{}, domain.NewValidationError(errcodes.ValidationError, "trade date must be RFC3339 or YYYY-MM-DD")
	}

	return journal.TradeInput{
		Card:      newDomainCardRef(request.CardRef),
		Foil:      request.Foil,
		Direction: direction,
		Quantity:  request.Quantity,
		UnitPrice: price,
		TradeDate: tradeDate,
	}, nil
}
