package wallet_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevWalletConnectionGate(t *testing.T) {
	dev, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeNautilus)
	require.NoError(t, err)

	assert.False(t, dev.IsConnected())
	_, err = dev.GetChangeAddress(context.Background())
	assert.Error(t, err)
	_, err = dev.SignTransaction(context.Background(), []byte("x"))
	assert.Error(t, err)

	ok, err := dev.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, dev.IsConnected())

	require.NoError(t, dev.Disconnect(context.Background()))
	assert.False(t, dev.IsConnected())
}

func TestDevWalletSignsVerifiableMessages(t *testing.T) {
	verifier := ergo.NewVerifier()
	nonce := strings.Repeat("ab", 16)

	for _, signer := range []ergo.SignerType{ergo.SignerTypeNautilus, ergo.SignerTypeMobile} {
		t.Run(string(signer), func(t *testing.T) {
			dev, err := wallet.NewDevWallet(ergo.MainnetPrefix, signer)
			require.NoError(t, err)
			_, err = dev.Connect(context.Background())
			require.NoError(t, err)
			address, err := dev.GetChangeAddress(context.Background())
			require.NoError(t, err)

			message := dev.EnvelopeMessage(nonce)

			codec, err := ergo.CodecFor(signer)
			require.NoError(t, err)
			embedded, err := codec.ExtractNonce(message)
			require.NoError(t, err)
			assert.Equal(t, nonce, embedded)

			proof, err := dev.SignMessage(context.Background(), address, message)
			require.NoError(t, err)
			assert.True(t, verifier.Verify(address, message, proof, signer))
		})
	}
}

func TestDevWalletProofEncodingPerVariant(t *testing.T) {
	nautilus, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeNautilus)
	require.NoError(t, err)
	_, err = nautilus.Connect(context.Background())
	require.NoError(t, err)
	address, err := nautilus.GetChangeAddress(context.Background())
	require.NoError(t, err)

	proof, err := nautilus.SignMessage(context.Background(), address, "message")
	require.NoError(t, err)
	_, err = hex.DecodeString(proof)
	assert.NoError(t, err, "nautilus proofs are hex")

	mobile, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeMobile)
	require.NoError(t, err)
	_, err = mobile.Connect(context.Background())
	require.NoError(t, err)
	address, err = mobile.GetChangeAddress(context.Background())
	require.NoError(t, err)

	proof, err = mobile.SignMessage(context.Background(), address, "message")
	require.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(proof)
	assert.NoError(t, err, "mobile proofs are base64")
}

func TestDevWalletRejectsForeignAddress(t *testing.T) {
	dev, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeNautilus)
	require.NoError(t, err)
	_, err = dev.Connect(context.Background())
	require.NoError(t, err)

	other, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeNautilus)
	require.NoError(t, err)
	_, err = other.Connect(context.Background())
	require.NoError(t, err)
	otherAddr, err := other.GetChangeAddress(context.Background())
	require.NoError(t, err)

	_, err = dev.SignMessage(context.Background(), otherAddr, "message")
	assert.Error(t, err)
}

func TestDevWalletTransactionLifecycle(t *testing.T) {
	dev, err := wallet.NewDevWallet(ergo.MainnetPrefix, ergo.SignerTypeNautilus)
	require.NoError(t, err)
	_, err = dev.Connect(context.Background())
	require.NoError(t, err)

	reduced := []byte(`{"context":{"height":100},"tx":{}}`)
	signed, err := dev.SignTransaction(context.Background(), reduced)
	require.NoError(t, err)

	txID, err := dev.SubmitTransaction(context.Background(), signed)
	require.NoError(t, err)
	assert.Len(t, txID, 64)

	_, err = dev.SubmitTransaction(context.Background(), []byte("not json"))
	assert.Error(t, err)
}
