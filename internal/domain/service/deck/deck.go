package deck

import (
	"context"
	"sort"
	"strings"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

type DeckRepository interface {
	Create(ctx context.Context, deck *entity.Deck) error
	Update(ctx context.Context, deck *entity.Deck) error
	GetByID(ctx context.Context, id int64) (entity.Deck, error)
	List(ctx context.Context) ([]entity.Deck, error)
	Lines(ctx context.Context, deckID int64) ([]entity.DeckLine, error)
	ReplaceLines(ctx context.Context, deckID int64, lines []entity.DeckLine) error
	DeleteLines(ctx context.Context, deckID int64) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type CardResolver interface {
	ResolveRef(ctx context.Context, ref value.CardRef) (entity.Card, error)
}

type Ledger interface {
	GetMany(ctx context.Context, keys []entity.LedgerKey) (map[entity.LedgerKey]int64, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type LineInput struct {
	Card      value.CardRef
	Foil      bool
	Sideboard bool
	Quantity  int64
}

type DeckInput struct {
	Name        string
	Format      string
	Description string
	Lines       []LineInput
	// Decklist разбирается, только если Lines пуст.
	Decklist string
}

// Service собирает колоды и сверяет их с коллекцией. Колоды только читают
// учёт и никогда его не меняют.
type Service struct {
	tx     Transactor
	decks  DeckRepository
	cards  CardResolver
	ledger Ledger
}

func NewService(tx Transactor, decks DeckRepository, cards CardResolver, ledger Ledger) *Service {
	return &Service{
		tx:     tx,
		decks:  decks,
		cards:  cards,
		ledger: ledger,
	}
}

// UpsertDeck создаёт колоду (id == 0) или целиком заменяет существующую.
// Совпадающие строки складываются.
func (s *Service) UpsertDeck(ctx context.Context, id int64, in DeckInput) (entity.Deck, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Deck{}, domain.NewValidationError(errcodes.InvalidDeckName, "deck name must not be empty")
	}

	inputs := in.Lines
	if len(inputs) == 0 && strings.TrimSpace(in.Decklist) != "" {
		parsed, err := ParseDecklist(in.Decklist)
		if err != nil {
			return entity.Deck{}, err
		}

		inputs = parsed
	}

	lines, err := s.resolveLines(ctx, inputs)
	if err != nil {
		return entity.Deck{}, err
	}

	deck := entity.Deck{
		ID:          id,
		Name:        name,
		Format:      strings.TrimSpace(in.Format),
		Description: in.Description,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if id == 0 {
			if err := s.decks.Create(ctx, &deck); err != nil {
				return err
			}
		} else {
			existing, err := s.decks.GetByID(ctx, id)
			if err != nil {
				return err
			}

			deck.CreatedAt = existing.CreatedAt

			if err := s.decks.Update(ctx, &deck); err != nil {
				return err
			}
		}

		return s.decks.ReplaceLines(ctx, deck.ID, lines)
	})
	if err != nil {
		return entity.Deck{}, err
	}

	logger(ctx).Info("deck saved", logx.FieldDeckID, deck.ID, "name", deck.Name, "lines", len(lines))

	return s.GetDeck(ctx, deck.ID)
}

func (s *Service) resolveLines(ctx context.Context, inputs []LineInput) ([]entity.DeckLine, error) {
	type lineKey struct {
		cardID    string
		foil      bool
		sideboard bool
	}

	merged := make(map[lineKey]*entity.DeckLine, len(inputs))
	order := make([]lineKey, 0, len(inputs))

	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, domain.NewInvalidQuantityError("deck line quantity must be positive: " + in.Card.String())
		}

		card, err := s.cards.ResolveRef(ctx, in.Card)
		if err != nil {
			return nil, err
		}

		key := lineKey{cardID: card.ID, foil: in.Foil, sideboard: in.Sideboard}

		if line, ok := merged[key]; ok {
			line.Quantity += in.Quantity
			continue
		}

		merged[key] = &entity.DeckLine{
			CardID:    card.ID,
			Foil:      in.Foil,
			Sideboard: in.Sideboard,
			Quantity:  in.Quantity,
			Card:      &card,
		}
		order = append(order, key)
	}

	lines := make([]entity.DeckLine, 0, len(order))
	for _, k := range order {
		lines = append(lines, *merged[k])
	}

	return lines, nil
}

// GetDeck возвращает колоду вместе со строками.
func (s *Service) GetDeck(ctx context.Context, id int64) (entity.Deck, error) {
	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return entity.Deck{}, err
	}

	deck.Lines, err = s.decks.Lines(ctx, id)
	if err != nil {
		return entity.Deck{}, err
	}

	return deck, nil
}

func (s *Service) ListDecks(ctx context.Context) ([]entity.Deck, error) {
	return s.decks.List(ctx)
}

// Validate сравнивает потребность колоды с учётом. Основная колода и
// сайдборд по одной паре (карта, фойла) складываются, учёт читается одним
// запросом.
func (s *Service) Validate(ctx context.Context, id int64) (entity.ValidationReport, error) {
	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return entity.ValidationReport{}, err
	}

	byKey := make(map[entity.LedgerKey]*entity.ValidationLine)
	keys := make([]entity.LedgerKey, 0, len(deck.Lines))

	for _, line := range deck.Lines {
		key := line.Key()

		vl, ok := byKey[key]
		if !ok {
			vl = &entity.ValidationLine{CardID: line.CardID, Foil: line.Foil}
			if line.Card != nil {
				vl.CardName = line.Card.Name
			}

			byKey[key] = vl
			keys = append(keys, key)
		}

		if line.Sideboard {
			vl.Side += line.Quantity
		} else {
			vl.Main += line.Quantity
		}
	}

	owned, err := s.ledger.GetMany(ctx, keys)
	if err != nil {
		return entity.ValidationReport{}, err
	}

	report := entity.ValidationReport{
		DeckID:    deck.ID,
		DeckName:  deck.Name,
		Satisfied: true,
		Lines:     make([]entity.ValidationLine, 0, len(keys)),
	}

	for _, key := range keys {
		vl := byKey[key]
		vl.Requested = vl.Main + vl.Side
		vl.Owned = owned[key]
		vl.Shortfall = max(0, vl.Requested-vl.Owned)

		if vl.Shortfall > 0 {
			report.Satisfied = false
			report.TotalShortfall += vl.Shortfall
		}

		report.Lines = append(report.Lines, *vl)
	}

	sort.SliceStable(report.Lines, func(i, j int) bool {
		a, b := report.Lines[i], report.Lines[j]
		if a.CardName != b.CardName {
			return a.CardName < b.CardName
		}

		if a.CardID != b.CardID {
			return a.CardID < b.CardID
		}

		return !a.Foil && b.Foil
	})

	return report, nil
}

// DeleteDeck удаляет колоду и её строки в одной транзакции.
func (s *Service) DeleteDeck(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.decks.DeleteLines(ctx, id); err != nil {
			return err
		}

		return s.decks.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger(ctx).Info("deck deleted", logx.FieldDeckID, id)

	return nil
}

func (s *Service) DeleteAllDecks(ctx context.Context) (int64, error) {
	var deleted int64

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.decks.DeleteAll(ctx)

		return err
	})
	if err != nil {
		return 0, err
	}

	logger(ctx).Warn("all decks deleted", "decks", deleted)

	return deleted, nil
}

// ExportText печатает колоду в текстовом формате.
func (s *Service) ExportText(ctx context.Context, id int64) (string, error) {
	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return "", err
	}

	return FormatDecklist(deck.Lines), nil
}
