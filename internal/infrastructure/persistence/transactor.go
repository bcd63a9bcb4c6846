package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pazhukov/magic-collector/internal/domain"
)

type txKey struct{}

// Transactor открывает транзакцию и кладёт её в контекст. Репозитории берут
// соединение из контекста, поэтому всё, что вызвано внутри fn, выполняется
// в одной транзакции. Вложенные вызовы присоединяются к внешней.
type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.StoreError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.StoreError(fmt.Errorf("%w; rollback: %v", err, rbErr), "transaction failed")
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.StoreError(err, "failed to commit")
	}

	return nil
}

// baseRepository выбирает транзакцию из контекста или общий пул.
type baseRepository struct {
	db *sqlx.DB
}

func (r baseRepository) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}

	return r.db
}

func (r baseRepository) get(ctx context.Context, dest any, query string, args ...any) error {
	q := r.conn(ctx)

	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func (r baseRepository) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	q := r.conn(ctx)

	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func (r baseRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q := r.conn(ctx)

	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// execAffected выполняет запрос и возвращает число затронутых строк.
func (r baseRepository) execAffected(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// timestamp приводит время к UTC с точностью до микросекунд: так значения
// одинаково сравниваются в обеих СУБД.
func timestamp(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}

	return t.UTC().Truncate(time.Microsecond)
}
