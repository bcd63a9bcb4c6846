package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

const cardColumns = `id, name, set_code, set_name, collector_number, rarity, type_line, prices, legalities, updated_at`

type CardRepository struct {
	baseRepository
}

// NewCardRepository создаёт репозиторий локальной копии каталога.
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{baseRepository{db: db}}
}

// GetByID возвращает карту по идентификатору.
func (r *CardRepository) GetByID(ctx context.Context, id string) (entity.Card, error) {
	var schema cardSchema
	if err := r.get(ctx, &schema, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Card{}, domain.NewNotFoundError(errcodes.CardNotFound, "card "+id+" not found")
		}

		return entity.Card{}, domain.StoreError(err, "failed to get card")
	}

	return r.toDomain(schema)
}

// GetByPrinting ищет печать по коду сета и коллекционному номеру.
func (r *CardRepository) GetByPrinting(ctx context.Context, setCode, number string) (entity.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE LOWER(set_code) = LOWER(?) AND collector_number = ?`

	var schema cardSchema
	if err := r.get(ctx, &schema, query, setCode, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Card{}, domain.NewNotFoundError(
				errcodes.CardNotFound,
				"card "+strings.ToUpper(setCode)+"/"+number+" not found",
			)
		}

		return entity.Card{}, domain.StoreError(err, "failed to get card by printing")
	}

	return r.toDomain(schema)
}

// FindByName возвращает все печати с таким именем без учёта регистра.
// Порядок стабилен: по коду сета, затем по номеру.
func (r *CardRepository) FindByName(ctx context.Context, name string) ([]entity.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE LOWER(name) = LOWER(?)
		ORDER BY set_code, collector_number`

	var schemas []cardSchema
	if err := r.selectAll(ctx, &schemas, query, strings.TrimSpace(name)); err != nil {
		return nil, domain.StoreError(err, "failed to find cards by name")
	}

	cards := make([]entity.Card, 0, len(schemas))
	for _, s := range schemas {
		card, err := r.toDomain(s)
		if err != nil {
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// likeEscaper экранирует спецсимволы LIKE, чтобы запрос искался буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`) //nolint:gochecknoglobals

const searchFilter = `
	FROM cards
	WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(type_line) LIKE ? ESCAPE '\'`

// Search ищет карты по подстроке в имени или строке типа без учёта регистра.
// Возвращает страницу, упорядоченную по имени, и общее число совпадений.
func (r *CardRepository) Search(ctx context.Context, query string, page value.Page) ([]entity.Card, int, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*)`+searchFilter, pattern, pattern); err != nil {
		return nil, 0, domain.StoreError(err, "failed to count cards")
	}

	listQuery := `SELECT ` + cardColumns + searchFilter + `
	ORDER BY name, set_code, collector_number
	LIMIT ? OFFSET ?`

	var schemas []cardSchema
	if err := r.selectAll(ctx, &schemas, listQuery, pattern, pattern, page.Limit, page.Offset); err != nil {
		return nil, 0, domain.StoreError(err, "failed to search cards")
	}

	cards := make([]entity.Card, 0, len(schemas))
	for _, s := range schemas {
		card, err := r.toDomain(s)
		if err != nil {
			return nil, 0, err
		}

		cards = append(cards, card)
	}

	return cards, total, nil
}

// Names возвращает различающиеся имена карт для нечёткого поиска.
func (r *CardRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.selectAll(ctx, &names, `SELECT DISTINCT name FROM cards ORDER BY name`); err != nil {
		return nil, domain.StoreError(err, "failed to list card names")
	}

	return names, nil
}

// Upsert сохраняет карту, обновляя данные существующей печати.
func (r *CardRepository) Upsert(ctx context.Context, card entity.Card) error {
	schema, err := fromCard(card)
	if err != nil {
		return domain.StoreError(err, "failed to marshal card")
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES (:id, :name, :set_code, :set_name, :collector_number, :rarity, :type_line, :prices, :legalities, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			set_code = excluded.set_code,
			set_name = excluded.set_name,
			collector_number = excluded.collector_number,
			rarity = excluded.rarity,
			type_line = excluded.type_line,
			prices = excluded.prices,
			legalities = excluded.legalities,
			updated_at = excluded.updated_at`

	if _, err := sqlx.NamedExecContext(ctx, r.conn(ctx), query, schema); err != nil {
		return domain.StoreError(err, "failed to upsert card")
	}

	return nil
}

func (r *CardRepository) toDomain(s cardSchema) (entity.Card, error) {
	card, err := s.toDomain()
	if err != nil {
		return entity.Card{}, domain.StoreError(err, "failed to decode card "+s.ID)
	}

	return card, nil
}
