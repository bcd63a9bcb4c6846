package server

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/service/deck"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/lox"
	"github.com/pazhukov/magic-collector/pkg/rest"
)

const (
	moneyPlaces = 2
	dateLayout  = "2006-01-02"
)

func newRESTCard(card entity.Card) rest.Card {
	return rest.Card{
		ID:              card.ID,
		Name:            card.Name,
		SetCode:         card.SetCode,
		SetName:         card.SetName,
		CollectorNumber: card.CollectorNumber,
		Rarity:          card.Rarity,
		TypeLine:        card.TypeLine,
		Prices:          card.Prices,
		Legalities:      card.Legalities,
	}
}

func newDomainCardRef(ref rest.CardRef) value.CardRef {
	return value.CardRef{
		ID:              ref.ID,
		SetCode:         ref.SetCode,
		CollectorNumber: ref.CollectorNumber,
		Name:            ref.Name,
	}
}

func newRESTLedgerPage(collection entity.Collection) rest.LedgerPage {
	items := make([]rest.LedgerEntry, 0, len(collection.Items))

	for _, item := range collection.Items {
		card := newRESTCard(item.Card)

		items = append(items, rest.LedgerEntry{
			CardID:    item.Entry.CardID,
			Foil:      item.Entry.Foil,
			Quantity:  item.Entry.Quantity,
			Card:      &card,
			UnitPrice: nullMoney(item.UnitPrice),
			Value:     nullMoney(item.Value),
			UpdatedAt: formatTime(item.Entry.UpdatedAt),
		})
	}

	return rest.LedgerPage{
		Items: items,
		Total: collection.Total,
		Value: collection.Value.StringFixed(moneyPlaces),
	}
}

func newRESTTrade(trade entity.Trade) rest.Trade {
	t := rest.Trade{
		ID:          trade.ID,
		CardID:      trade.CardID,
		Foil:        trade.Foil,
		Direction:   trade.Direction.String(),
		Quantity:    trade.Quantity,
		UnitPrice:   trade.UnitPrice.String(),
		TotalAmount: trade.TotalAmount.StringFixed(moneyPlaces),
		CostBasis:   trade.CostBasis.String(),
		Profit:      trade.Profit.StringFixed(moneyPlaces),
		Remaining:   trade.Remaining,
		TradeDate:   formatTime(trade.TradeDate),
	}

	if trade.Card != nil {
		t.CardName = trade.Card.Name
		t.SetCode = trade.Card.SetCode
	}

	return t
}

func newRESTCardPage(list entity.CardList) rest.CardPage {
	return rest.CardPage{Items: lox.Map(list.Items, newRESTCard), Total: list.Total}
}

func newRESTTradePage(list entity.TradeList) rest.TradePage {
	items := make([]rest.Trade, 0, len(list.Items))
	for _, t := range list.Items {
		items = append(items, newRESTTrade(t))
	}

	return rest.TradePage{Items: items, Total: list.Total}
}

func newRESTTradeSummary(s entity.TradeSummary) rest.TradeSummary {
	return rest.TradeSummary{
		Count:       s.Count,
		TotalBought: s.TotalBought.StringFixed(moneyPlaces),
		TotalSold:   s.TotalSold.StringFixed(moneyPlaces),
		TotalProfit: s.TotalProfit.StringFixed(moneyPlaces),
	}
}

func newRESTBulkReport(r entity.BulkReport) rest.BulkReport {
	return rest.BulkReport{
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed: lox.Map(r.Failed, func(f entity.ItemFailure) rest.ItemFailure {
			return rest.ItemFailure{ID: f.ID, Code: f.Code, Message: f.Message}
		}),
	}
}

func newDomainDeckInput(request rest.DeckRequest) deck.DeckInput {
	lines := make([]deck.LineInput, 0, len(request.Lines))

	for _, l := range request.Lines {
		lines = append(lines, deck.LineInput{
			Card:      newDomainCardRef(l.CardRef),
			Foil:      l.Foil,
			Sideboard: l.Sideboard,
			Quantity:  l.Quantity,
		})
	}

	return deck.DeckInput{
		Name:        request.Name,
		Format:      request.Format,
		Description: request.Description,
		Lines:       lines,
		Decklist:    request.Decklist,
	}
}

func newRESTDeck(d entity.Deck) rest.Deck {
	lines := make([]rest.DeckLine, 0, len(d.Lines))

	for _, l := range d.Lines {
		line := rest.DeckLine{
			CardID:    l.CardID,
			Foil:      l.Foil,
			Sideboard: l.Sideboard,
			Quantity:  l.Quantity,
		}

		if l.Card != nil {
			line.CardName = l.Card.Name
		}

		lines = append(lines, line)
	}

	return rest.Deck{
		ID:          d.ID,
		Name:        d.Name,
		Format:      d.Format,
		Description: d.Description,
		CreatedAt:   formatTime(d.CreatedAt),
		UpdatedAt:   formatTime(d.UpdatedAt),
		Lines:       lines,
	}
}

func newRESTValidationReport(r entity.ValidationReport) rest.ValidationReport {
	lines := make([]rest.ValidationLine, 0, len(r.Lines))

	for _, l := range r.Lines {
		lines = append(lines, rest.ValidationLine{
			CardID:    l.CardID,
			CardName:  l.CardName,
			Foil:      l.Foil,
			Main:      l.Main,
			Side:      l.Side,
			Requested: l.Requested,
			Owned:     l.Owned,
			Shortfall: l.Shortfall,
		})
	}

	return rest.ValidationReport{
		DeckID:         r.DeckID,
		DeckName:       r.DeckName,
		Satisfied:      r.Satisfied,
		TotalShortfall: r.TotalShortfall,
		Lines:          lines,
	}
}

func newRESTSnapshots(snapshots []entity.Snapshot) []rest.Snapshot {
	return lox.Map(snapshots, func(s entity.Snapshot) rest.Snapshot {
		return rest.Snapshot{
			Kind:       string(s.Kind),
			Name:       s.Name,
			Value:      s.Value,
			Currency:   s.Currency,
			RecordedAt: formatTime(s.RecordedAt),
		}
	})
}

func newRESTStats(stats entity.Stats, totals entity.LedgerTotals) rest.Stats {
	return rest.Stats{
		Cards:         stats.Cards,
		LedgerEntries: stats.LedgerEntries,
		Copies:        totals.Copies,
		Value:         totals.Value.StringFixed(moneyPlaces),
		Trades:        stats.Trades,
		Decks:         stats.Decks,
		Snapshots:     stats.Snapshots,
	}
}

func nullMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}

	s := d.Decimal.StringFixed(moneyPlaces)

	return &s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

// parseTradeDate принимает RFC3339 или просто дату.
func parseTradeDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse(dateLayout, s)
}
