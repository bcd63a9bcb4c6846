package entity

import "time"

type Deck struct {
	ID          int64
	Name        string
	Format      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []DeckLine
}

type DeckLine struct {
	DeckID    int64
	CardID    string
	Foil      bool
	Sideboard bool
	Quantity  int64

	Card *Card
}

func (l DeckLine) Key() LedgerKey {
	return LedgerKey{CardID: l.CardID, Foil: l.Foil}
}

// ValidationReport сравнивает потребность колоды с коллекцией.
type ValidationReport struct {
	DeckID         int64
	DeckName       string
	Satisfied      bool
	TotalShortfall int64
	Lines          []ValidationLine
}

// ValidationLine - потребность по одной паре (карта, фойла), где основная
// колода и сайдборд сложены вместе.
type ValidationLine struct {
	CardID    string
	CardName  string
	Foil      bool
	Main      int64
	Side      int64
	Requested int64
	Owned     int64
	Shortfall int64
}
