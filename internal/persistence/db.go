package persistence

import (
	"database/sql"
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// NewDB opens the Postgres pool. Connectivity is checked lazily by the
// readiness probe, not here, so the service can start before the database.
func NewDB(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
