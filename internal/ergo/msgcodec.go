package ergo

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// SignerType identifies which wallet capability produced a proof. The two
// variants use different proof encodings and embed the challenge nonce
// differently inside the signed message.
type SignerType string

const (
	// SignerTypeNautilus is the in-browser extension wallet.
	SignerTypeNautilus SignerType = "nautilus"
	// SignerTypeMobile is the remote wallet reached via deep link / QR.
	SignerTypeMobile SignerType = "mobile"
)

// NonceHexLen is the length of an issued challenge nonce (16 random bytes,
// hex encoded).
const NonceHexLen = 32

// mobileEnvelopeOffset is where the mobile wallet places the nonce inside
// its fixed-layout signing envelope.
const mobileEnvelopeOffset = 20

// MessageCodec decodes the artifacts of one signer variant: the proof bytes
// and the nonce embedded in the signed message.
type MessageCodec interface {
	// SignerType reports which variant this codec decodes.
	SignerType() SignerType
	// DecodeProof decodes the wire representation of a proof.
	DecodeProof(proof string) ([]byte, error)
	// ExtractNonce pulls the challenge nonce out of the signed message.
	ExtractNonce(signedMessage string) (string, error)
}

// NautilusCodec decodes extension-signed artifacts: hex proofs and messages
// of the form "<nonce>;<freeform>".
type NautilusCodec struct{}

func (NautilusCodec) SignerType() SignerType { return SignerTypeNautilus }

func (NautilusCodec) DecodeProof(proof string) ([]byte, error) {
	raw, err := hex.DecodeString(proof)
	if err != nil {
		return nil, errors.Wrap(err, "proof is not valid hex")
	}
	return raw, nil
}

func (NautilusCodec) ExtractNonce(signedMessage string) (string, error) {
	idx := strings.IndexByte(signedMessage, ';')
	if idx != NonceHexLen {
		return "", errors.New("signed message does not start with a nonce")
	}
	return signedMessage[:idx], nil
}

// MobileCodec decodes remote-wallet artifacts: base64 proofs and a padded
// signing envelope carrying the nonce at a fixed offset.
type MobileCodec struct{}

func (MobileCodec) SignerType() SignerType { return SignerTypeMobile }

func (MobileCodec) DecodeProof(proof string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(proof)
	if err != nil {
		return nil, errors.Wrap(err, "proof is not valid base64")
	}
	return raw, nil
}

func (MobileCodec) ExtractNonce(signedMessage string) (string, error) {
	if len(signedMessage) < mobileEnvelopeOffset+NonceHexLen {
		return "", errors.New("signed message shorter than envelope")
	}
	return signedMessage[mobileEnvelopeOffset : mobileEnvelopeOffset+NonceHexLen], nil
}

// CodecFor returns the codec for a signer type.
func CodecFor(t SignerType) (MessageCodec, error) {
	switch t {
	case SignerTypeNautilus:
		return NautilusCodec{}, nil
	case SignerTypeMobile:
		return MobileCodec{}, nil
	default:
		return nil, errors.Errorf("unknown signer type %q", t)
	}
}
