package identity_test

import (
	"context"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "9f4QF8AD1nQ3nJahQVkMj8hFSVVzVom77b52JU7EW71Zexg6N8v"

func TestIssueNonceCreatesIdentity(t *testing.T) {
	store := identity.NewInMemoryStore()

	_, err := store.GetIdentity(context.Background(), testAddress)
	require.ErrorIs(t, err, identity.ErrNotFound)

	nonce, err := store.IssueNonce(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Len(t, nonce, ergo.NonceHexLen)

	id, err := store.GetIdentity(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, id.Address)
	assert.Equal(t, testAddress, id.DefaultAddress)
	assert.Equal(t, nonce, id.Nonce.String)
}

func TestIssueNonceSupersedesPrevious(t *testing.T) {
	store := identity.NewInMemoryStore()

	first, err := store.IssueNonce(context.Background(), testAddress)
	require.NoError(t, err)
	second, err := store.IssueNonce(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	ok, err := store.ConsumeNonce(context.Background(), testAddress, first)
	require.NoError(t, err)
	assert.False(t, ok, "a superseded nonce must not be current")

	ok, err = store.ConsumeNonce(context.Background(), testAddress, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConsumeNonceDoesNotRotate(t *testing.T) {
	store := identity.NewInMemoryStore()

	nonce, err := store.IssueNonce(context.Background(), testAddress)
	require.NoError(t, err)

	// Checking is idempotent; only RotateNonce invalidates.
	for i := 0; i < 3; i++ {
		ok, err := store.ConsumeNonce(context.Background(), testAddress, nonce)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	require.NoError(t, store.RotateNonce(context.Background(), testAddress))
	ok, err := store.ConsumeNonce(context.Background(), testAddress, nonce)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsumeNonceEdgeCases(t *testing.T) {
	store := identity.NewInMemoryStore()

	ok, err := store.ConsumeNonce(context.Background(), "unknown", "aaaa")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.IssueNonce(context.Background(), testAddress)
	require.NoError(t, err)
	ok, err = store.ConsumeNonce(context.Background(), testAddress, "")
	require.NoError(t, err)
	assert.False(t, ok, "an empty nonce never matches")

	assert.ErrorIs(t, store.RotateNonce(context.Background(), "unknown"), identity.ErrNotFound)
}

func TestVerificationLifecycle(t *testing.T) {
	store := identity.NewInMemoryStore()

	req := identity.VerificationRequest{
		ID:         "v-1",
		Address:    testAddress,
		SignerType: ergo.SignerTypeNautilus,
		Nonce:      "aaaa",
	}
	require.NoError(t, store.CreateVerification(context.Background(), req))

	got, err := store.GetVerification(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, identity.VerificationStatusPending, got.Status)

	transitioned, err := store.MarkSigned(context.Background(), "v-1", "msg", "proof")
	require.NoError(t, err)
	assert.True(t, transitioned)

	got, err = store.GetVerification(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, identity.VerificationStatusSigned, got.Status)
	assert.Equal(t, "msg", got.SignedMessage.String)
	assert.Equal(t, "proof", got.Proof.String)

	// The PENDING -> SIGNED transition happens at most once.
	transitioned, err = store.MarkSigned(context.Background(), "v-1", "other", "other")
	require.NoError(t, err)
	assert.False(t, transitioned)

	got, err = store.GetVerification(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, "msg", got.SignedMessage.String, "a second report must not overwrite")
}

func TestCreateVerificationSupersedes(t *testing.T) {
	store := identity.NewInMemoryStore()

	require.NoError(t, store.CreateVerification(context.Background(), identity.VerificationRequest{
		ID: "v-1", Address: testAddress, SignerType: ergo.SignerTypeNautilus, Nonce: "n1",
	}))
	require.NoError(t, store.CreateVerification(context.Background(), identity.VerificationRequest{
		ID: "v-2", Address: testAddress, SignerType: ergo.SignerTypeNautilus, Nonce: "n2",
	}))

	_, err := store.GetVerification(context.Background(), "v-1")
	assert.ErrorIs(t, err, identity.ErrNotFound)

	_, err = store.GetVerification(context.Background(), "v-2")
	assert.NoError(t, err)
}

func TestMarkFailed(t *testing.T) {
	store := identity.NewInMemoryStore()

	require.NoError(t, store.CreateVerification(context.Background(), identity.VerificationRequest{
		ID: "v-1", Address: testAddress, SignerType: ergo.SignerTypeMobile, Nonce: "n1",
	}))
	require.NoError(t, store.MarkFailed(context.Background(), "v-1"))

	got, err := store.GetVerification(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, identity.VerificationStatusFailed, got.Status)

	// FAILED is terminal for signing.
	transitioned, err := store.MarkSigned(context.Background(), "v-1", "msg", "proof")
	require.NoError(t, err)
	assert.False(t, transitioned)
}
