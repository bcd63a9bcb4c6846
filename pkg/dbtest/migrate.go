package dbtest

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes the SQL of every fixture file in one transaction,
// so a broken fixture leaves no partial data behind.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("db.Beginx: %w", err)
	}

	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("os.ReadFile(%s): %w", fileName, err)
		}

		if _, err = tx.Exec(string(fileBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("tx.Exec(%s): %w", fileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
