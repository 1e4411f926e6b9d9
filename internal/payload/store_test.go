package payload_test

import (
	"context"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundtrip(t *testing.T) {
	store := payload.NewInMemoryStore()

	require.NoError(t, store.Put(context.Background(), "k1", "v1", time.Hour))

	rec, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "k1", rec.Key)
	assert.Equal(t, "v1", rec.Value)
	assert.False(t, rec.Scanned)

	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, payload.ErrNotFound)
}

func TestExpiryIsNeverServed(t *testing.T) {
	store := payload.NewInMemoryStore()
	clock := time2.NewMockClock(time.Now())
	store.Clock = clock

	require.NoError(t, store.Put(context.Background(), "k1", "v1", time.Hour))

	// One second before expiry the record is still readable.
	clock.Advance(time.Hour - time.Second)
	_, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)

	// Past expiry every access reports the expired handle, including the
	// write paths.
	clock.Advance(2 * time.Second)
	_, err = store.Get(context.Background(), "k1")
	assert.ErrorIs(t, err, payload.ErrExpiredHandle)
	assert.Error(t, store.MarkScanned(context.Background(), "k1"))
	assert.Error(t, store.SetValue(context.Background(), "k1", "v2"))
}

func TestWriteSweepsExpiredRecords(t *testing.T) {
	store := payload.NewInMemoryStore()
	clock := time2.NewMockClock(time.Now())
	store.Clock = clock

	require.NoError(t, store.Put(context.Background(), "old", "v", time.Minute))
	clock.Advance(2 * time.Minute)
	require.NoError(t, store.Put(context.Background(), "fresh", "v", time.Minute))

	// The sweep happens on write, scoped purely by expiry timestamp.
	_, err := store.Get(context.Background(), "old")
	assert.ErrorIs(t, err, payload.ErrNotFound)
	_, err = store.Get(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestMarkScannedAndSetValue(t *testing.T) {
	store := payload.NewInMemoryStore()

	require.NoError(t, store.Put(context.Background(), "k1", "v1", time.Hour))
	require.NoError(t, store.MarkScanned(context.Background(), "k1"))

	rec, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, rec.Scanned)

	require.NoError(t, store.SetValue(context.Background(), "k1", "v2"))
	rec, err = store.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Value)
	assert.True(t, rec.Scanned, "overwriting the value keeps the scanned flag")

	assert.ErrorIs(t, store.MarkScanned(context.Background(), "missing"), payload.ErrNotFound)
	assert.ErrorIs(t, store.SetValue(context.Background(), "missing", "v"), payload.ErrNotFound)
}
