package connectors

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // golang sqlite driver
	"github.com/samber/lo"

	"github.com/pazhukov/magic-collector/pkg/logx"
)

// sqliteOptions keep concurrent writers from failing with SQLITE_BUSY: WAL lets
// readers proceed, IMMEDIATE transactions take the write lock up front and the
// busy timeout queues the rest.
const sqliteOptions = "_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"

type SQLite struct {
	value        *sqlx.DB
	Path         string
	MaxOpenConns int
	init         sync.Once
}

func (s *SQLite) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		s.value = lo.Must(sqlx.ConnectContext(ctx, "sqlite3", SQLiteDSN(s.Path)))

		if s.MaxOpenConns > 0 {
			s.value.SetMaxOpenConns(s.MaxOpenConns)
		}

		logger(ctx).Info("sqlite connected", slog.String("path", s.Path))
	})

	return s.value
}

func (s *SQLite) Close(ctx context.Context) {
	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqliteClient.Close", logx.Error(err))
	}

	logger(ctx).Info("sqlite disconnected", slog.String("path", s.Path))
}

// SQLiteDSN appends the connection options required by the store to a file path.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteOptions
	}

	return "file:" + path + "?" + sqliteOptions
}
