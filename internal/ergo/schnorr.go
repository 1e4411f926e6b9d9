package ergo

import (
	"crypto/rand"
	"crypto/subtle"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Proof layout: a 24-byte truncated Fiat-Shamir challenge followed by a
// 32-byte big-endian response scalar.
const (
	challengeLen = 24
	responseLen  = 32

	// ProofLen is the byte length of a serialized Schnorr proof.
	ProofLen = challengeLen + responseLen
)

// proveDlogPrefix tags the hashed transcript as a discrete-log proof leaf so
// proofs cannot be transplanted between statement kinds.
var proveDlogPrefix = []byte{0x01, 0x00}

// SignMessage produces a Schnorr proof of knowledge of the private key,
// bound to msg. Used by the dev wallet and the test suite; verification is
// the production path.
func SignMessage(priv *secp256k1.PrivateKey, msg []byte) ([]byte, error) {
	pub := priv.PubKey()

	for {
		var kBytes [32]byte
		if _, err := rand.Read(kBytes[:]); err != nil {
			return nil, errors.Wrap(err, "failed to draw commitment scalar")
		}

		var k secp256k1.ModNScalar
		overflow := k.SetBytes(&kBytes)
		if overflow > 0 || k.IsZero() {
			continue
		}

		var commitJac secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&k, &commitJac)
		commitJac.ToAffine()
		commitment := secp256k1.NewPublicKey(&commitJac.X, &commitJac.Y)

		c := challengeScalarBytes(pub, commitment, msg)

		var cScalar secp256k1.ModNScalar
		cScalar.SetByteSlice(c)

		// z = k + c*x (mod n)
		z := new(secp256k1.ModNScalar).Mul2(&cScalar, &priv.Key).Add(&k)

		proof := make([]byte, 0, ProofLen)
		proof = append(proof, c...)
		zBytes := z.Bytes()
		proof = append(proof, zBytes[:]...)

		k.Zero()
		return proof, nil
	}
}

// VerifyMessage checks a Schnorr proof against a public key and message. It
// never panics; any malformed input simply verifies as false.
func VerifyMessage(pub *secp256k1.PublicKey, msg, proof []byte) bool {
	if len(proof) != ProofLen {
		return false
	}

	var c secp256k1.ModNScalar
	c.SetByteSlice(proof[:challengeLen])

	var z secp256k1.ModNScalar
	if overflow := z.SetByteSlice(proof[challengeLen:]); overflow {
		return false
	}

	// Recompute the commitment: a = g^z * P^{-c}.
	var pubJac secp256k1.JacobianPoint
	pub.AsJacobian(&pubJac)

	cNeg := c
	cNeg.Negate()

	var zG, cP, commitJac secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&z, &zG)
	secp256k1.ScalarMultNonConst(&cNeg, &pubJac, &cP)
	secp256k1.AddNonConst(&zG, &cP, &commitJac)

	if (commitJac.X.IsZero() && commitJac.Y.IsZero()) || commitJac.Z.IsZero() {
		return false
	}
	commitJac.ToAffine()
	commitment := secp256k1.NewPublicKey(&commitJac.X, &commitJac.Y)

	expected := challengeScalarBytes(pub, commitment, msg)
	return subtle.ConstantTimeCompare(expected, proof[:challengeLen]) == 1
}

// challengeScalarBytes derives the truncated Fiat-Shamir challenge over the
// proposition bytes, the commitment and the message.
func challengeScalarBytes(pub, commitment *secp256k1.PublicKey, msg []byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with an invalid key length.
		panic(err)
	}

	h.Write(proveDlogPrefix)
	h.Write(pub.SerializeCompressed())
	h.Write(commitment.SerializeCompressed())
	h.Write(msg)

	return h.Sum(nil)[:challengeLen]
}
