package dbtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/migrations"
	"github.com/pazhukov/magic-collector/pkg/application/connectors"
)

// NewSQLite opens a migrated SQLite database in a temporary directory and
// loads the fixture files on top of the schema. The database is closed when
// the test ends.
func NewSQLite(t testing.TB, fixtures ...string) *sqlx.DB {
	t.Helper()

	rq := require.New(t)

	db, err := sqlx.Connect("sqlite3", connectors.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	rq.NoError(err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	rq.NoError(migrations.Apply(context.Background(), db))
	rq.NoError(MigrateFromFile(db, fixtures...))

	return db
}

// Fixture returns the absolute path of a file in the package testdata, so
// tests of any package can load the shared fixtures.
func Fixture(name string) string {
	_, file, _, _ := runtime.Caller(0)

	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// Cards is the card catalog fixture.
func Cards() string {
	return Fixture("cards.sql")
}
