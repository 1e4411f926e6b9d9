package ergo_test

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierAcceptsBothEncodings(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	address := ergo.EncodeP2PK(priv.PubKey(), ergo.MainnetPrefix)

	message := testNonce + ";login to crux"
	proof, err := ergo.SignMessage(priv, []byte(message))
	require.NoError(t, err)

	v := ergo.NewVerifier()
	assert.True(t, v.Verify(address, message, hex.EncodeToString(proof), ergo.SignerTypeNautilus))
	assert.True(t, v.Verify(address, message, base64.StdEncoding.EncodeToString(proof), ergo.SignerTypeMobile))

	// Each variant only accepts its own proof encoding.
	assert.False(t, v.Verify(address, message, base64.StdEncoding.EncodeToString(proof), ergo.SignerTypeNautilus))
}

func TestVerifierNeverErrors(t *testing.T) {
	v := ergo.NewVerifier()

	assert.False(t, v.Verify("", "", "", ergo.SignerTypeNautilus))
	assert.False(t, v.Verify("not an address", "msg", "00", ergo.SignerTypeNautilus))
	assert.False(t, v.Verify("not an address", "msg", "00", "unknown"))

	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	address := ergo.EncodeP2PK(priv.PubKey(), ergo.MainnetPrefix)

	assert.False(t, v.Verify(address, "msg", "zzzz", ergo.SignerTypeNautilus))
	assert.False(t, v.Verify(address, "msg", hex.EncodeToString([]byte{0x00}), ergo.SignerTypeNautilus))
}
