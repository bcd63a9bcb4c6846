// Package migrations embeds the schema for every supported driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jmoiron/sqlx"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Dir returns the migration directory for a sqlx driver name.
func Dir(driverName string) (string, error) {
	switch driverName {
	case "pgx", "postgres":
		return "postgres", nil
	case "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported driver %q", driverName)
	}
}

// Apply runs every migration for the connection's driver in file name order.
// Statements are idempotent, so Apply is safe to call on every start.
func Apply(ctx context.Context, db *sqlx.DB) error {
	dir, err := Dir(db.DriverName())
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return fmt.Errorf("fs.ReadDir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		body, err := files.ReadFile(path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("files.ReadFile(%s): %w", name, err)
		}

		if _, err = db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", name, err)
		}
	}

	return nil
}
