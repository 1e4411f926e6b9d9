package signing_test

import (
	"context"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReturnsKnownConfirmationCount(t *testing.T) {
	source := chainstate.NewStaticSource(100, nil)
	source.SetConfirmations("tx-1", 3)

	waiter := signing.NewConfirmationWaiter(source, time.Millisecond, 5)
	confirmations, err := waiter.Wait(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), confirmations)
}

func TestWaitObservesLateArrival(t *testing.T) {
	source := chainstate.NewStaticSource(100, nil)

	waiter := signing.NewConfirmationWaiter(source, time.Millisecond, 100)

	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		source.SetConfirmations("tx-1", 0)
		close(done)
	}()

	confirmations, err := waiter.Wait(context.Background(), "tx-1")
	<-done
	require.NoError(t, err)
	assert.Equal(t, int64(0), confirmations, "a just-included transaction reports zero confirmations")
}

func TestWaitExhaustsBudget(t *testing.T) {
	source := chainstate.NewStaticSource(100, nil)

	waiter := signing.NewConfirmationWaiter(source, time.Millisecond, 3)
	_, err := waiter.Wait(context.Background(), "tx-unknown")
	assert.ErrorIs(t, err, signing.ErrPollBudgetExhausted)
}

func TestWaitIsCancellable(t *testing.T) {
	source := chainstate.NewStaticSource(100, nil)

	ctx, cancel := context.WithCancel(context.Background())
	waiter := signing.NewConfirmationWaiter(source, time.Hour, 10)

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := waiter.Wait(ctx, "tx-unknown")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the poll interval")
}

func TestWaitCountsUpstreamFailuresAgainstBudget(t *testing.T) {
	source := chainstate.NewStaticSource(100, nil)
	source.Fail = errors.Wrap(chainstate.ErrUpstreamUnavailable, "connection refused")

	waiter := signing.NewConfirmationWaiter(source, time.Millisecond, 3)
	_, err := waiter.Wait(context.Background(), "tx-1")
	assert.ErrorIs(t, err, chainstate.ErrUpstreamUnavailable)
}
