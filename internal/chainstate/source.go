// Package chainstate provides read-only access to chain state: current
// height, recent headers and the unspent boxes of an address. The backing
// service is external, possibly slow and possibly unavailable; callers see
// ErrUpstreamUnavailable for anything that is not a definitive answer.
package chainstate

import (
	"context"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

// ErrUpstreamUnavailable marks transport-level failures against the chain
// data source. Retryable with backoff; must never be conflated with a
// business failure such as insufficient funds.
var ErrUpstreamUnavailable = errors.New("chain data source unavailable")

// ConfirmationsUnknown is returned when the network does not know the
// transaction (yet).
const ConfirmationsUnknown int64 = -1

// Header is a recent block header used to build a signing context.
type Header struct {
	ID     string `json:"id"`
	Height uint32 `json:"height"`
}

// Source is the read-only chain state interface.
type Source interface {
	// Height returns the current chain height.
	Height(ctx context.Context) (uint32, error)
	// LastHeaders returns the n most recent block headers, newest last.
	LastHeaders(ctx context.Context, n int) ([]Header, error)
	// UnspentBoxes returns every unspent box guarded by the address.
	UnspentBoxes(ctx context.Context, address string) ([]ergo.Box, error)
	// Confirmations returns the confirmation count of a transaction, or
	// ConfirmationsUnknown if the network does not know it.
	Confirmations(ctx context.Context, txID string) (int64, error)
}
