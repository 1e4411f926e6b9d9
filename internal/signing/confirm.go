package signing

import (
	"context"
	"time"

	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/pkg/errors"
)

// ErrPollBudgetExhausted is returned when a polling loop ran out of
// attempts without reaching a terminal observation.
var ErrPollBudgetExhausted = errors.New("poll attempt budget exhausted")

// ConfirmationWaiter polls the chain data source until a transaction is
// known to the network (confirmation count non-negative). Submitted is not
// finalized; finality is a separate, slower confirmation count tracked
// elsewhere.
type ConfirmationWaiter struct {
	source      chainstate.Source
	interval    time.Duration
	maxAttempts int
}

func NewConfirmationWaiter(source chainstate.Source, interval time.Duration, maxAttempts int) *ConfirmationWaiter {
	return &ConfirmationWaiter{
		source:      source,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Wait polls until the transaction is known, the context is cancelled or
// the attempt budget runs out. Cancellation stops the loop without mutating
// any server-side state: a later poll from a fresh context still resolves.
// Upstream unavailability counts against the same bounded budget instead of
// retrying forever.
func (w *ConfirmationWaiter) Wait(ctx context.Context, txID string) (int64, error) {
	log := util.LogFromContext(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 0; attempt < w.maxAttempts; attempt++ {
		confirmations, err := w.source.Confirmations(ctx, txID)
		switch {
		case err == nil && confirmations >= 0:
			return confirmations, nil
		case err == nil:
			// Not known yet; keep polling.
			lastErr = nil
		case errors.Is(err, chainstate.ErrUpstreamUnavailable):
			log.Warn().Err(err).Str("tx_id", txID).Int("attempt", attempt).Msg("Chain data source unavailable while polling confirmations")
			lastErr = err
		default:
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}

	if lastErr != nil {
		return 0, lastErr
	}
	return 0, ErrPollBudgetExhausted
}
