package payload

import (
	"context"
	"database/sql"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
)

// PostgresStore implements Store over a transient_payloads table.
type PostgresStore struct {
	db    *sql.DB
	clock time2.Clock
}

func NewPostgresStore(db *sql.DB, clock time2.Clock) *PostgresStore {
	return &PostgresStore{db: db, clock: clock}
}

func (s *PostgresStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	// Best-effort sweep first; scoped by expiry timestamp only.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transient_payloads WHERE expires_at < NOW()`); err != nil {
		return errors.Wrap(err, "failed to sweep expired payloads")
	}

	query := `
		INSERT INTO transient_payloads (key, value, scanned, expires_at, created_at)
		VALUES ($1, $2, FALSE, $3, NOW())
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, s.clock.Now().Add(ttl)); err != nil {
		return errors.Wrap(err, "failed to insert payload")
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Record, error) {
	query := `SELECT key, value, scanned, expires_at FROM transient_payloads WHERE key = $1`

	var rec Record
	err := s.db.QueryRowContext(ctx, query, key).Scan(&rec.Key, &rec.Value, &rec.Scanned, &rec.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Record{}, ErrNotFound
		}
		return Record{}, errors.Wrap(err, "failed to get payload")
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		return Record{}, ErrExpiredHandle
	}
	return rec, nil
}

func (s *PostgresStore) MarkScanned(ctx context.Context, key string) error {
	query := `UPDATE transient_payloads SET scanned = TRUE WHERE key = $1 AND expires_at >= NOW()`
	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return errors.Wrap(err, "failed to mark payload scanned")
	}
	return requireAffected(res)
}

func (s *PostgresStore) SetValue(ctx context.Context, key, value string) error {
	query := `UPDATE transient_payloads SET value = $2 WHERE key = $1 AND expires_at >= NOW()`
	res, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return errors.Wrap(err, "failed to update payload")
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
