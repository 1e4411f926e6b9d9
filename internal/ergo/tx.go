package ergo

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// BaseAssetID keys the chain's native value in per-asset accounting maps.
// It is not a real token id; boxes carry native value in their Value field.
const BaseAssetID = ""

// Asset is a token amount riding on a box.
type Asset struct {
	TokenID string `json:"tokenId"`
	Amount  uint64 `json:"amount"`
}

// Box is an unspent output as reported by the chain data source.
type Box struct {
	BoxID          string  `json:"boxId"`
	TransactionID  string  `json:"transactionId"`
	Index          uint16  `json:"index"`
	Value          uint64  `json:"value"`
	ErgoTree       string  `json:"ergoTree"`
	Assets         []Asset `json:"assets"`
	CreationHeight uint32  `json:"creationHeight"`
}

// Output is a box candidate of an unsigned transaction.
type Output struct {
	Value          uint64  `json:"value"`
	ErgoTree       string  `json:"ergoTree"`
	Assets         []Asset `json:"assets"`
	CreationHeight uint32  `json:"creationHeight"`
}

// UnsignedTransaction spends a set of input boxes into a set of output
// candidates. It is only valid when value is conserved exactly, per asset
// kind including the native one.
type UnsignedTransaction struct {
	Inputs  []Box    `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// InsufficientFundsError reports the first asset whose outputs exceed the
// available inputs. It is a business failure, never retried.
type InsufficientFundsError struct {
	TokenID string
	Missing uint64
}

func (e *InsufficientFundsError) Error() string {
	if e.TokenID == BaseAssetID {
		return "insufficient funds: native value"
	}
	return "insufficient funds: token " + e.TokenID
}

// AssetSums aggregates per-asset totals, with the native value under
// BaseAssetID.
func AssetSums(values []uint64, assets [][]Asset) map[string]uint64 {
	sums := make(map[string]uint64)
	for _, v := range values {
		sums[BaseAssetID] += v
	}
	for _, list := range assets {
		for _, a := range list {
			sums[a.TokenID] += a.Amount
		}
	}
	return sums
}

func (tx *UnsignedTransaction) inputSums() map[string]uint64 {
	values := make([]uint64, 0, len(tx.Inputs))
	assets := make([][]Asset, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		values = append(values, in.Value)
		assets = append(assets, in.Assets)
	}
	return AssetSums(values, assets)
}

func (tx *UnsignedTransaction) outputSums() map[string]uint64 {
	values := make([]uint64, 0, len(tx.Outputs))
	assets := make([][]Asset, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		values = append(values, out.Value)
		assets = append(assets, out.Assets)
	}
	return AssetSums(values, assets)
}

// CheckConservation verifies that inputs and outputs balance exactly for
// every asset kind. A deficit is an *InsufficientFundsError; a surplus means
// the builder failed to emit a change output and is a hard error.
func (tx *UnsignedTransaction) CheckConservation() error {
	in := tx.inputSums()
	out := tx.outputSums()

	for tokenID, outSum := range out {
		if in[tokenID] < outSum {
			return &InsufficientFundsError{TokenID: tokenID, Missing: outSum - in[tokenID]}
		}
	}
	for tokenID, inSum := range in {
		if out[tokenID] != inSum {
			return errors.Errorf("unaccounted value for asset %q: inputs %d outputs %d", tokenID, inSum, out[tokenID])
		}
	}
	return nil
}

// SigningContext pins a reduced transaction to recent chain state so an
// external signer can approve it without full node access.
type SigningContext struct {
	Height        uint32   `json:"height"`
	LastHeaderIDs []string `json:"lastHeaderIds"`
}

// ReducedTransaction is the immutable, chain-context-bound serialization of
// an unsigned transaction handed to external signers.
type ReducedTransaction struct {
	ID    string
	Bytes []byte
}

type reducedWire struct {
	Context SigningContext      `json:"context"`
	Tx      UnsignedTransaction `json:"tx"`
}

// Reduce serializes the transaction bound to the given signing context.
// Conservation is enforced here as the last gate before anything leaves the
// builder.
func (tx *UnsignedTransaction) Reduce(sctx SigningContext) (*ReducedTransaction, error) {
	if len(tx.Inputs) == 0 {
		return nil, errors.New("transaction has no inputs")
	}
	if err := tx.CheckConservation(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(reducedWire{Context: sctx, Tx: *tx})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize reduced transaction")
	}

	sum := blake2b.Sum256(raw)
	return &ReducedTransaction{
		ID:    hex.EncodeToString(sum[:]),
		Bytes: raw,
	}, nil
}

// ParseReduced decodes serialized reduced-transaction bytes back into the
// unsigned transaction and its signing context.
func ParseReduced(raw []byte) (*UnsignedTransaction, SigningContext, error) {
	var wire reducedWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, SigningContext{}, errors.Wrap(err, "failed to parse reduced transaction")
	}
	return &wire.Tx, wire.Context, nil
}
