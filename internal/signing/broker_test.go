package signing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigningConfig() config.Signing {
	return config.Signing{
		PayloadTTL:   time.Hour,
		DeepLinkBase: "ergopay://pay.example.org",
	}
}

func reducedFixture(t *testing.T) *ergo.ReducedTransaction {
	t.Helper()
	tx := &ergo.UnsignedTransaction{
		Inputs:  []ergo.Box{{BoxID: "in-0", Value: 2_100_000}},
		Outputs: []ergo.Output{{Value: 1_000_000}, {Value: 1_100_000}},
	}
	reduced, err := tx.Reduce(ergo.SigningContext{Height: 100, LastHeaderIDs: []string{"h1"}})
	require.NoError(t, err)
	return reduced
}

func TestPublishReturnsResolvableHandle(t *testing.T) {
	store := payload.NewInMemoryStore()
	broker := signing.NewBroker(store, testSigningConfig(), time2.DefaultClock)

	reduced := reducedFixture(t)
	handle, err := broker.Publish(context.Background(), reduced)
	require.NoError(t, err)

	assert.NotEmpty(t, handle.Key)
	assert.True(t, strings.HasPrefix(handle.URI, "ergopay://pay.example.org/api/v1/ergopay/reduced/"+handle.Key+"/"), handle.URI)
	assert.True(t, strings.HasSuffix(handle.URI, signing.AddressPlaceholder), handle.URI)

	raw, err := broker.Reduced(context.Background(), handle.Key)
	require.NoError(t, err)
	assert.Equal(t, reduced.Bytes, raw)
}

func TestResultProgression(t *testing.T) {
	store := payload.NewInMemoryStore()
	broker := signing.NewBroker(store, testSigningConfig(), time2.DefaultClock)

	handle, err := broker.Publish(context.Background(), reducedFixture(t))
	require.NoError(t, err)

	res, err := broker.Result(context.Background(), handle.Key)
	require.NoError(t, err)
	assert.Equal(t, signing.ResultStatePending, res.State)

	// The wallet fetching the payload advances the state to SCANNED.
	_, err = broker.Reduced(context.Background(), handle.Key)
	require.NoError(t, err)

	res, err = broker.Result(context.Background(), handle.Key)
	require.NoError(t, err)
	assert.Equal(t, signing.ResultStateScanned, res.State)

	require.NoError(t, broker.ReportResult(context.Background(), handle.Key, "tx-123"))

	res, err = broker.Result(context.Background(), handle.Key)
	require.NoError(t, err)
	assert.Equal(t, signing.ResultStateDone, res.State)
	assert.Equal(t, "tx-123", res.TxID)
}

func TestReportResultRequiresTxID(t *testing.T) {
	store := payload.NewInMemoryStore()
	broker := signing.NewBroker(store, testSigningConfig(), time2.DefaultClock)

	handle, err := broker.Publish(context.Background(), reducedFixture(t))
	require.NoError(t, err)

	assert.Error(t, broker.ReportResult(context.Background(), handle.Key, ""))
	assert.ErrorIs(t, broker.ReportResult(context.Background(), "missing", "tx-1"), payload.ErrNotFound)
}

func TestReducedRejectsReportedKey(t *testing.T) {
	store := payload.NewInMemoryStore()
	broker := signing.NewBroker(store, testSigningConfig(), time2.DefaultClock)

	handle, err := broker.Publish(context.Background(), reducedFixture(t))
	require.NoError(t, err)
	require.NoError(t, broker.ReportResult(context.Background(), handle.Key, "tx-123"))

	// Once the wallet reported, the key no longer serves a reduced tx.
	_, err = broker.Reduced(context.Background(), handle.Key)
	assert.ErrorIs(t, err, payload.ErrNotFound)
}

func TestExpiredHandleSurfaces(t *testing.T) {
	store := payload.NewInMemoryStore()
	clock := time2.NewMockClock(time.Now())
	store.Clock = clock

	broker := signing.NewBroker(store, testSigningConfig(), clock)
	handle, err := broker.Publish(context.Background(), reducedFixture(t))
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), handle.ExpiresAt)

	clock.Advance(2 * time.Hour)

	_, err = broker.Reduced(context.Background(), handle.Key)
	assert.ErrorIs(t, err, payload.ErrExpiredHandle)
	_, err = broker.Result(context.Background(), handle.Key)
	assert.ErrorIs(t, err, payload.ErrExpiredHandle)
}
