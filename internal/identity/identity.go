// Package identity persists principals keyed by blockchain address,
// together with their single-use login nonce and the at-most-one live
// verification request per identity.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound means no identity or verification request exists.
	ErrNotFound = errors.New("identity record not found")
)

// Identity is one principal. At most one row per address.
type Identity struct {
	Address        string
	DefaultAddress string
	// Nonce is the current single-use challenge value. Null until the
	// first challenge is issued.
	Nonce     null.String
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VerificationStatus is the lifecycle state of a verification request.
type VerificationStatus string

const (
	VerificationStatusPending VerificationStatus = "PENDING"
	VerificationStatusSigned  VerificationStatus = "SIGNED"
	VerificationStatusFailed  VerificationStatus = "FAILED"
)

// VerificationRequest is one in-flight or completed login challenge. The
// nonce is recorded on the request itself so finalization can check the
// proof against the challenge it was issued for, not against the identity's
// possibly-already-rotated current nonce.
type VerificationRequest struct {
	ID            string
	Address       string
	SignerType    ergo.SignerType
	Nonce         string
	Status        VerificationStatus
	SignedMessage null.String
	Proof         null.String
	CreatedAt     time.Time
}

// Store persists identities and their verification requests.
type Store interface {
	// GetIdentity returns the identity for an address or ErrNotFound.
	GetIdentity(ctx context.Context, address string) (Identity, error)
	// IssueNonce creates the identity on first use, persists a fresh
	// nonce as its current one and returns it. Any previously issued
	// nonce becomes stale immediately.
	IssueNonce(ctx context.Context, address string) (string, error)
	// ConsumeNonce reports whether nonce is the identity's current value.
	// It performs no rotation: a failed verification must leave the
	// challenge retryable, so rotating is the caller's move after
	// success (RotateNonce).
	ConsumeNonce(ctx context.Context, address, nonce string) (bool, error)
	// RotateNonce replaces the identity's nonce with a fresh one.
	RotateNonce(ctx context.Context, address string) error

	// CreateVerification deletes any live verification request for the
	// same identity and inserts the given one as PENDING.
	CreateVerification(ctx context.Context, req VerificationRequest) error
	// GetVerification returns a request by id or ErrNotFound.
	GetVerification(ctx context.Context, id string) (VerificationRequest, error)
	// MarkSigned transitions PENDING to SIGNED exactly once, recording
	// the signed message and proof. Returns false without modifying
	// anything if the request is not PENDING.
	MarkSigned(ctx context.Context, id, signedMessage, proof string) (bool, error)
	// MarkFailed records a terminal verification failure.
	MarkFailed(ctx context.Context, id string) error
}

// NewNonce draws a fresh unguessable challenge value.
func NewNonce() (string, error) {
	buf := make([]byte, ergo.NonceHexLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}
	return hex.EncodeToString(buf), nil
}
