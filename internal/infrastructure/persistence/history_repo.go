package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
)

// HistoryRepository хранит журнал цен и легальности. Записи не обновляются,
// только добавляются и вычищаются по сроку хранения.
type HistoryRepository struct {
	baseRepository
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{baseRepository{db: db}}
}

func (r *HistoryRepository) Append(ctx context.Context, snapshots []entity.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		INSERT INTO card_history (card_id, kind, name, value, currency, recorded_at)
		VALUES (:card_id, :kind, :name, :value, :currency, :recorded_at)`

	schemas := make([]snapshotSchema, 0, len(snapshots))
	for _, s := range snapshots {
		schemas = append(schemas, fromSnapshot(s))
	}

	if _, err := sqlx.NamedExecContext(ctx, r.conn(ctx), query, schemas); err != nil {
		return domain.StoreError(err, "failed to append history")
	}

	return nil
}

// ListByCard возвращает записи по карте, свежие первыми. Пустой kind
// означает все виды.
func (r *HistoryRepository) ListByCard(
	ctx context.Context,
	cardID string,
	kind value.SnapshotKind,
	limit int,
) ([]entity.Snapshot, error) {
	query := `
		SELECT id, card_id, kind, name, value, currency, recorded_at
		FROM card_history
		WHERE card_id = ? AND (? = '' OR kind = ?)
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`

	var schemas []snapshotSchema
	if err := r.selectAll(ctx, &schemas, query, cardID, string(kind), string(kind), limit); err != nil {
		return nil, domain.StoreError(err, "failed to list history")
	}

	result := make([]entity.Snapshot, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

// PurgeBefore удаляет записи старше отметки.
func (r *HistoryRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	rows, err := r.execAffected(ctx, `DELETE FROM card_history WHERE recorded_at < ?`, timestamp(before))
	if err != nil {
		return 0, domain.StoreError(err, "failed to purge history")
	}

	return rows, nil
}
