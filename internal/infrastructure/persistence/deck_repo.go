package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

type DeckRepository struct {
	baseRepository
}

func NewDeckRepository(db *sqlx.DB) *DeckRepository {
	return &DeckRepository{baseRepository{db: db}}
}

// Create сохраняет колоду без строк и проставляет идентификатор.
func (r *DeckRepository) Create(ctx context.Context, deck *entity.Deck) error {
	now := timestamp(time.Now())

	query := `
		INSERT INTO decks (name, format, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	if err := r.get(ctx, &deck.ID, query, deck.Name, deck.Format, deck.Description, now, now); err != nil {
		return domain.StoreError(err, "failed to insert deck")
	}

	deck.CreatedAt = now
	deck.UpdatedAt = now

	return nil
}

// Update обновляет шапку колоды.
func (r *DeckRepository) Update(ctx context.Context, deck *entity.Deck) error {
	now := timestamp(time.Now())

	rows, err := r.execAffected(ctx,
		`UPDATE decks SET name = ?, format = ?, description = ?, updated_at = ? WHERE id = ?`,
		deck.Name, deck.Format, deck.Description, now, deck.ID,
	)
	if err != nil {
		return domain.StoreError(err, "failed to update deck")
	}

	if rows == 0 {
		return deckNotFound(deck.ID)
	}

	deck.UpdatedAt = now

	return nil
}

func (r *DeckRepository) GetByID(ctx context.Context, id int64) (entity.Deck, error) {
	query := `SELECT id, name, format, description, created_at, updated_at FROM decks WHERE id = ?`

	var schema deckSchema
	if err := r.get(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Deck{}, deckNotFound(id)
		}

		return entity.Deck{}, domain.StoreError(err, "failed to get deck")
	}

	return schema.toDomain(), nil
}

func (r *DeckRepository) List(ctx context.Context) ([]entity.Deck, error) {
	query := `SELECT id, name, format, description, created_at, updated_at FROM decks ORDER BY name, id`

	var schemas []deckSchema
	if err := r.selectAll(ctx, &schemas, query); err != nil {
		return nil, domain.StoreError(err, "failed to list decks")
	}

	decks := make([]entity.Deck, 0, len(schemas))
	for _, s := range schemas {
		decks = append(decks, s.toDomain())
	}

	return decks, nil
}

// Lines возвращает строки колоды вместе с названиями карт.
func (r *DeckRepository) Lines(ctx context.Context, deckID int64) ([]entity.DeckLine, error) {
	query := `
		SELECT l.deck_id, l.card_id, l.foil, l.sideboard, l.quantity,
		       c.name AS card_name, c.set_code, c.collector_number
		FROM deck_lines l
		LEFT JOIN cards c ON c.id = l.card_id
		WHERE l.deck_id = ?
		ORDER BY l.sideboard, c.name, l.card_id, l.foil`

	var schemas []deckLineSchema
	if err := r.selectAll(ctx, &schemas, query, deckID); err != nil {
		return nil, domain.StoreError(err, "failed to list deck lines")
	}

	lines := make([]entity.DeckLine, 0, len(schemas))
	for _, s := range schemas {
		lines = append(lines, s.toDomain())
	}

	return lines, nil
}

// ReplaceLines заменяет все строки колоды. Вызывать внутри транзакции.
func (r *DeckRepository) ReplaceLines(ctx context.Context, deckID int64, lines []entity.DeckLine) error {
	if err := r.DeleteLines(ctx, deckID); err != nil {
		return err
	}

	query := `
		INSERT INTO deck_lines (deck_id, card_id, foil, sideboard, quantity)
		VALUES (?, ?, ?, ?, ?)`

	for _, line := range lines {
		if _, err := r.exec(ctx, query, deckID, line.CardID, line.Foil, line.Sideboard, line.Quantity); err != nil {
			return domain.StoreError(err, "failed to insert deck line")
		}
	}

	return nil
}

func (r *DeckRepository) DeleteLines(ctx context.Context, deckID int64) error {
	if _, err := r.exec(ctx, `DELETE FROM deck_lines WHERE deck_id = ?`, deckID); err != nil {
		return domain.StoreError(err, "failed to delete deck lines")
	}

	return nil
}

func (r *DeckRepository) Delete(ctx context.Context, id int64) error {
	rows, err := r.execAffected(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return domain.StoreError(err, "failed to delete deck")
	}

	if rows == 0 {
		return deckNotFound(id)
	}

	return nil
}

// DeleteAll удаляет все колоды и их строки. Вызывать внутри транзакции.
func (r *DeckRepository) DeleteAll(ctx context.Context) (int64, error) {
	if _, err := r.exec(ctx, `DELETE FROM deck_lines`); err != nil {
		return 0, domain.StoreError(err, "failed to delete deck lines")
	}

	rows, err := r.execAffected(ctx, `DELETE FROM decks`)
	if err != nil {
		return 0, domain.StoreError(err, "failed to delete decks")
	}

	return rows, nil
}

func deckNotFound(id int64) error {
	return domain.NewNotFoundError(errcodes.DeckNotFound, "deck "+strconv.FormatInt(id, 10)+" not found")
}
