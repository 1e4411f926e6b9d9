package auth

import (
	"time"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidChallenge covers nonce mismatches and expired or
	// superseded verification requests. Recoverable by restarting the
	// login flow.
	ErrInvalidChallenge = errors.New("invalid or superseded challenge")
	// ErrSignatureInvalid means cryptographic verification failed.
	// Recoverable by retry; never partially authenticates.
	ErrSignatureInvalid = errors.New("signature verification failed")
	// ErrSessionNotFound means no live session exists for the token.
	ErrSessionNotFound = errors.New("session not found")
)

// Result is a finalized authentication: an opaque session token bound to an
// identity, independent of which login path produced it.
type Result struct {
	Token      string
	Address    string
	SignerType ergo.SignerType
	ValidUntil time.Time
}

// Session is the server-side record backing a token. Destroyed on logout or
// when the wallet capability reports it is no longer connected.
type Session struct {
	ID         string          `json:"id"`
	Address    string          `json:"address"`
	SignerType ergo.SignerType `json:"signerType"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}
