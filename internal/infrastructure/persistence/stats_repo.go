package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
)

type StatsRepository struct {
	baseRepository
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{baseRepository{db: db}}
}

// Stats возвращает размеры основных таблиц.
func (r *StatsRepository) Stats(ctx context.Context) (entity.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cards) AS cards,
			(SELECT COUNT(*) FROM ledger_entries WHERE quantity > 0) AS ledger_entries,
			(SELECT COUNT(*) FROM trades) AS trades,
			(SELECT COUNT(*) FROM decks) AS decks,
			(SELECT COUNT(*) FROM card_history) AS snapshots`

	var row struct {
		Cards         int64 `db:"cards"`
		LedgerEntries int64 `db:"ledger_entries"`
		Trades        int64 `db:"trades"`
		Decks         int64 `db:"decks"`
		Snapshots     int64 `db:"snapshots"`
	}

	if err := r.get(ctx, &row, query); err != nil {
		return entity.Stats{}, domain.StoreError(err, "failed to collect stats")
	}

	return entity.Stats{
		Cards:         row.Cards,
		LedgerEntries: row.LedgerEntries,
		Trades:        row.Trades,
		Decks:         row.Decks,
		Snapshots:     row.Snapshots,
	}, nil
}
