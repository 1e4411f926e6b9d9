package persistence

import (
	"database/sql"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

// MigrationsDir is the default location of the SQL migration files relative
// to the working directory.
const MigrationsDir = "migrations"

// ApplyMigrations runs all pending SQL migrations and returns how many were
// applied.
func ApplyMigrations(db *sql.DB, dir string) (int, error) {
	source := &migrate.FileMigrationSource{Dir: dir}
	applied, err := migrate.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply migrations")
	}
	return applied, nil
}
