package ergo

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Network prefixes baked into the address head byte.
const (
	MainnetPrefix byte = 0x00
	TestnetPrefix byte = 0x10
)

// addressTypeP2PK is the only address kind this service deals with: a
// pay-to-public-key address whose body is the compressed EC point itself.
const addressTypeP2PK byte = 0x01

const (
	p2pkBodyLen     = 1 + 33
	addressChecksum = 4
)

// FeeTreeHex is the well-known miner fee proposition every transaction pays
// its fixed fee to.
const FeeTreeHex = "1005040004000e36100204a00b08cd0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798ea02d192a39a8cc7a701730073011001020402d19683030193a38cc7b2a57300000193c2b2a57301007473027303830108cdeeac93b1a57304"

// EncodeP2PK renders a compressed public key as a base58 P2PK address for
// the given network.
func EncodeP2PK(pub *secp256k1.PublicKey, networkPrefix byte) string {
	body := make([]byte, 0, p2pkBodyLen+addressChecksum)
	body = append(body, networkPrefix+addressTypeP2PK)
	body = append(body, pub.SerializeCompressed()...)

	sum := blake2b.Sum256(body)
	return base58.Encode(append(body, sum[:addressChecksum]...))
}

// DecodeP2PK parses a base58 P2PK address and returns the embedded public
// key. The checksum and the address type are both enforced.
func DecodeP2PK(address string) (*secp256k1.PublicKey, error) {
	raw := base58.Decode(address)
	if len(raw) != p2pkBodyLen+addressChecksum {
		return nil, errors.Errorf("invalid address length %d", len(raw))
	}

	body := raw[:p2pkBodyLen]
	sum := blake2b.Sum256(body)
	if !bytes.Equal(raw[p2pkBodyLen:], sum[:addressChecksum]) {
		return nil, errors.New("address checksum mismatch")
	}

	if body[0]&0x0f != addressTypeP2PK {
		return nil, errors.Errorf("unsupported address type 0x%02x", body[0])
	}

	pub, err := secp256k1.ParsePubKey(body[1:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid public key in address")
	}
	return pub, nil
}

// TreeForAddress returns the hex-encoded guarding script of a P2PK address:
// the serialized prove-dlog proposition over the address's public key.
func TreeForAddress(address string) (string, error) {
	pub, err := DecodeP2PK(address)
	if err != nil {
		return "", err
	}
	return TreeForKey(pub), nil
}

// TreeForKey returns the hex-encoded P2PK guarding script for a public key.
func TreeForKey(pub *secp256k1.PublicKey) string {
	tree := make([]byte, 0, 3+33)
	tree = append(tree, 0x00, 0x08, 0xcd)
	tree = append(tree, pub.SerializeCompressed()...)
	return hex.EncodeToString(tree)
}
