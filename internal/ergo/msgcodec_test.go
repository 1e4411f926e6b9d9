package ergo_test

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNonce = "a1b2c3d4e5f60718293a4b5c6d7e8f90"

func TestNautilusCodecExtractNonce(t *testing.T) {
	codec := ergo.NautilusCodec{}

	nonce, err := codec.ExtractNonce(testNonce + ";login to crux")
	require.NoError(t, err)
	assert.Equal(t, testNonce, nonce)

	// Freeform suffix may itself contain separators.
	nonce, err = codec.ExtractNonce(testNonce + ";a;b;c")
	require.NoError(t, err)
	assert.Equal(t, testNonce, nonce)
}

func TestNautilusCodecExtractNonceRejectsBadLayout(t *testing.T) {
	codec := ergo.NautilusCodec{}

	for _, msg := range []string{
		"",
		"no separator at all",
		"short;suffix",
		testNonce, // separator missing entirely
		testNonce + "x;separator shifted",
	} {
		_, err := codec.ExtractNonce(msg)
		assert.Error(t, err, msg)
	}
}

func TestMobileCodecExtractNonce(t *testing.T) {
	codec := ergo.MobileCodec{}

	message := strings.Repeat("0", 20) + testNonce + "9some-address-suffix"
	nonce, err := codec.ExtractNonce(message)
	require.NoError(t, err)
	assert.Equal(t, testNonce, nonce)

	// Exactly offset+nonce long is still valid.
	nonce, err = codec.ExtractNonce(strings.Repeat("0", 20) + testNonce)
	require.NoError(t, err)
	assert.Equal(t, testNonce, nonce)

	_, err = codec.ExtractNonce(strings.Repeat("0", 20) + testNonce[:ergo.NonceHexLen-1])
	assert.Error(t, err)
}

func TestProofDecoding(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0xff}

	decoded, err := ergo.NautilusCodec{}.DecodeProof(hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = ergo.NautilusCodec{}.DecodeProof("not-hex")
	assert.Error(t, err)

	decoded, err = ergo.MobileCodec{}.DecodeProof(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = ergo.MobileCodec{}.DecodeProof("!!! not base64 !!!")
	assert.Error(t, err)
}

func TestCodecFor(t *testing.T) {
	codec, err := ergo.CodecFor(ergo.SignerTypeNautilus)
	require.NoError(t, err)
	assert.Equal(t, ergo.SignerTypeNautilus, codec.SignerType())

	codec, err = ergo.CodecFor(ergo.SignerTypeMobile)
	require.NoError(t, err)
	assert.Equal(t, ergo.SignerTypeMobile, codec.SignerType())

	_, err = ergo.CodecFor("ledger")
	assert.Error(t, err)
}
