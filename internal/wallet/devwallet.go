package wallet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// DevWallet is a scriptable in-process wallet holding a real key. It signs
// with the same Schnorr scheme production wallets use, in either signer
// variant's encoding, which makes it suitable for end-to-end exercising of
// the login and payment flows.
type DevWallet struct {
	priv      *secp256k1.PrivateKey
	address   string
	signer    ergo.SignerType
	connected bool
}

// NewDevWallet creates a wallet with a fresh key for the given network and
// signer variant.
func NewDevWallet(networkPrefix byte, signer ergo.SignerType) (*DevWallet, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate wallet key")
	}
	return &DevWallet{
		priv:    priv,
		address: ergo.EncodeP2PK(priv.PubKey(), networkPrefix),
		signer:  signer,
	}, nil
}

func (w *DevWallet) Connect(ctx context.Context) (bool, error) {
	w.connected = true
	return true, nil
}

func (w *DevWallet) IsConnected() bool { return w.connected }

func (w *DevWallet) GetChangeAddress(ctx context.Context) (string, error) {
	if !w.connected {
		return "", errors.New("wallet not connected")
	}
	return w.address, nil
}

// EnvelopeMessage renders a challenge nonce the way this wallet's signer
// variant embeds it into the signed message.
func (w *DevWallet) EnvelopeMessage(nonce string) string {
	if w.signer == ergo.SignerTypeMobile {
		// Fixed-layout envelope: 20 bytes of padding, then the nonce.
		return strings.Repeat("0", 20) + nonce + w.address
	}
	return nonce + ";login to crux"
}

func (w *DevWallet) SignMessage(ctx context.Context, address, message string) (string, error) {
	if !w.connected {
		return "", errors.New("wallet not connected")
	}
	if address != w.address {
		return "", errors.Errorf("address %s is not held by this wallet", address)
	}

	proof, err := ergo.SignMessage(w.priv, []byte(message))
	if err != nil {
		return "", err
	}
	if w.signer == ergo.SignerTypeMobile {
		return base64.StdEncoding.EncodeToString(proof), nil
	}
	return hex.EncodeToString(proof), nil
}

type signedTx struct {
	Reduced []byte `json:"reduced"`
	Proof   []byte `json:"proof"`
}

func (w *DevWallet) SignTransaction(ctx context.Context, reducedTx []byte) ([]byte, error) {
	if !w.connected {
		return nil, errors.New("wallet not connected")
	}

	// Approving a reduced transaction means proving over its bytes; the
	// chain context is already bound inside them.
	proof, err := ergo.SignMessage(w.priv, reducedTx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(signedTx{Reduced: reducedTx, Proof: proof})
}

func (w *DevWallet) SubmitTransaction(ctx context.Context, raw []byte) (string, error) {
	if !w.connected {
		return "", errors.New("wallet not connected")
	}

	var tx signedTx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return "", errors.Wrap(err, "invalid signed transaction")
	}

	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (w *DevWallet) Disconnect(ctx context.Context) error {
	w.connected = false
	return nil
}
