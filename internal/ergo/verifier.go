package ergo

// Verifier checks a detached proof against the public key implied by a P2PK
// address. It is deliberately infallible in signature: every malformed
// input, decoding failure or bad proof comes back as false and the login
// protocol simply reports authentication failure.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify decodes proof according to the signer type and verifies it over
// the full signed message.
func (v *Verifier) Verify(address, signedMessage, proof string, signer SignerType) bool {
	codec, err := CodecFor(signer)
	if err != nil {
		return false
	}

	pub, err := DecodeP2PK(address)
	if err != nil {
		return false
	}

	raw, err := codec.DecodeProof(proof)
	if err != nil {
		return false
	}

	return VerifyMessage(pub, []byte(signedMessage), raw)
}
