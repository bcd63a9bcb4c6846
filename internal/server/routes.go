package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pazhukov/magic-collector/pkg/httpx/reply"
	"github.com/pazhukov/magic-collector/pkg/logx"
	"github.com/pazhukov/magic-collector/pkg/middlewarex"
)

// NewRouter собирает роутер со стандартной цепочкой middleware.
func NewRouter(
	s Server,
	log *slog.Logger,
	masker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) chi.Router {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/ledger", func(r chi.Router) {
				r.Get("/", handler(s.getV1Ledger))
				r.Put("/", handler(s.putV1Ledger))
				r.Delete("/", handler(s.deleteV1Ledger))
				r.Post("/delta", handler(s.postV1LedgerDelta))
				r.Get("/{cardID}", handler(s.getV1LedgerCard))
			})

			r.Route("/trades", func(r chi.Router) {
				r.Get("/", handler(s.getV1Trades))
				r.Post("/", handler(s.postV1Trade))
				r.Delete("/", handler(s.deleteV1Trades))
				r.Get("/summary", handler(s.getV1TradesSummary))
				r.Delete("/{id}", handler(s.deleteV1Trade))
			})

			r.Route("/decks", func(r chi.Router) {
				r.Get("/", handler(s.getV1Decks))
				r.Post("/", handler(s.postV1Deck))
				r.Delete("/", handler(s.deleteV1Decks))
				r.Get("/{id}", handler(s.getV1Deck))
				r.Put("/{id}", handler(s.putV1Deck))
				r.Delete("/{id}", handler(s.deleteV1Deck))
				r.Get("/{id}/validation", handler(s.getV1DeckValidation))
				r.Get("/{id}/export", handler(s.getV1DeckExport))
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", handler(s.getV1Cards))
				r.Get("/{id}", handler(s.getV1Card))
				r.Get("/{id}/history", handler(s.getV1CardHistory))
				r.Get("/printings/{set}/{number}", handler(s.getV1CardByPrinting))
			})

			r.Post("/history/snapshot", handler(s.postV1HistorySnapshot))
			r.Get("/stats", handler(s.getV1Stats))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
