package identity

import (
	"context"
	"database/sql"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

// PostgresStore implements Store over the identities and
// verification_requests tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetIdentity(ctx context.Context, address string) (Identity, error) {
	query := `
		SELECT address, default_address, nonce, created_at, updated_at
		FROM identities
		WHERE address = $1
	`
	var id Identity
	err := s.db.QueryRowContext(ctx, query, address).
		Scan(&id.Address, &id.DefaultAddress, &id.Nonce, &id.CreatedAt, &id.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Identity{}, ErrNotFound
		}
		return Identity{}, errors.Wrap(err, "failed to get identity")
	}
	return id, nil
}

func (s *PostgresStore) IssueNonce(ctx context.Context, address string) (string, error) {
	nonce, err := NewNonce()
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO identities (address, default_address, nonce, created_at, updated_at)
		VALUES ($1, $1, $2, NOW(), NOW())
		ON CONFLICT (address) DO UPDATE SET
			nonce = EXCLUDED.nonce,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, address, nonce); err != nil {
		return "", errors.Wrap(err, "failed to issue nonce")
	}
	return nonce, nil
}

func (s *PostgresStore) ConsumeNonce(ctx context.Context, address, nonce string) (bool, error) {
	if nonce == "" {
		return false, nil
	}

	query := `SELECT nonce FROM identities WHERE address = $1`
	var current sql.NullString
	err := s.db.QueryRowContext(ctx, query, address).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to read nonce")
	}
	return current.Valid && current.String == nonce, nil
}

func (s *PostgresStore) RotateNonce(ctx context.Context, address string) error {
	nonce, err := NewNonce()
	if err != nil {
		return err
	}

	query := `UPDATE identities SET nonce = $2, updated_at = NOW() WHERE address = $1`
	res, err := s.db.ExecContext(ctx, query, address, nonce)
	if err != nil {
		return errors.Wrap(err, "failed to rotate nonce")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateVerification(ctx context.Context, req VerificationRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	// At most one live request per identity: issuing supersedes.
	if _, err := tx.ExecContext(ctx, `DELETE FROM verification_requests WHERE address = $1`, req.Address); err != nil {
		return errors.Wrap(err, "failed to supersede verification requests")
	}

	query := `
		INSERT INTO verification_requests (verification_id, address, signer_type, nonce, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := tx.ExecContext(ctx, query, req.ID, req.Address, string(req.SignerType), req.Nonce, string(VerificationStatusPending)); err != nil {
		return errors.Wrap(err, "failed to create verification request")
	}

	return errors.Wrap(tx.Commit(), "failed to commit verification request")
}

func (s *PostgresStore) GetVerification(ctx context.Context, id string) (VerificationRequest, error) {
	query := `
		SELECT verification_id, address, signer_type, nonce, status, signed_message, proof, created_at
		FROM verification_requests
		WHERE verification_id = $1
	`
	var req VerificationRequest
	var signerType, status string
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.Address, &signerType, &req.Nonce, &status, &req.SignedMessage, &req.Proof, &req.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return VerificationRequest{}, ErrNotFound
		}
		return VerificationRequest{}, errors.Wrap(err, "failed to get verification request")
	}
	req.SignerType = ergo.SignerType(signerType)
	req.Status = VerificationStatus(status)
	return req, nil
}

func (s *PostgresStore) MarkSigned(ctx context.Context, id, signedMessage, proof string) (bool, error) {
	// The status guard makes the PENDING -> SIGNED transition happen at
	// most once; a second report can never overwrite recorded content.
	query := `
		UPDATE verification_requests
		SET status = $2, signed_message = $3, proof = $4
		WHERE verification_id = $1 AND status = $5
	`
	res, err := s.db.ExecContext(ctx, query, id, string(VerificationStatusSigned), signedMessage, proof, string(VerificationStatusPending))
	if err != nil {
		return false, errors.Wrap(err, "failed to mark verification signed")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return affected == 1, nil
}

func (s *PostgresStore) MarkFailed(ctx context.Context, id string) error {
	query := `UPDATE verification_requests SET status = $2 WHERE verification_id = $1`
	if _, err := s.db.ExecContext(ctx, query, id, string(VerificationStatusFailed)); err != nil {
		return errors.Wrap(err, "failed to mark verification failed")
	}
	return nil
}
