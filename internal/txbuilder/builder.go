// Package txbuilder assembles payment-request transactions: it spends the
// sender's unspent boxes into a recipient box, the fixed fee box and, for
// any surplus, a change box, under a strict value-conservation invariant.
package txbuilder

import (
	"context"
	"math"
	"sort"

	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

// ErrAmountOverflow reports transfer amounts whose sum exceeds the value
// range of a box. Always a malformed request, never a funds problem.
var ErrAmountOverflow = errors.New("transfer amounts overflow")

// Transfer is one requested movement of value. An empty TokenID means the
// native asset.
type Transfer struct {
	TokenID string
	Amount  uint64
}

// Builder turns transfer requests into reduced transactions. It performs no
// retries: insufficient funds and unreachable chain state are both reported
// synchronously to the caller, distinguishably.
type Builder struct {
	source chainstate.Source
	cfg    config.Chain
}

func NewBuilder(source chainstate.Source, cfg config.Chain) *Builder {
	return &Builder{source: source, cfg: cfg}
}

// Build collects every unspent box of the sender and constructs a reduced
// transaction paying the requested transfers to the recipient.
//
// No coin selection is attempted: all of the sender's boxes are spent and
// the surplus returns in the change box. This is a documented simplification
// for low-activity addresses, not an omission.
func (b *Builder) Build(ctx context.Context, sender, recipient string, transfers []Transfer) (*ergo.ReducedTransaction, error) {
	if len(transfers) == 0 {
		return nil, errors.New("no transfers requested")
	}

	senderTree, err := ergo.TreeForAddress(sender)
	if err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	recipientTree, err := ergo.TreeForAddress(recipient)
	if err != nil {
		return nil, errors.Wrap(err, "invalid recipient address")
	}

	// Chain height and the unspent set are fetched as a best-effort
	// consistent snapshot. If the set changes underneath us the network
	// rejects the transaction; nothing worse can happen.
	height, err := b.source.Height(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := b.source.LastHeaders(ctx, b.cfg.ContextHeaders)
	if err != nil {
		return nil, err
	}
	inputs, err := b.source.UnspentBoxes(ctx, sender)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, &ergo.InsufficientFundsError{TokenID: ergo.BaseAssetID}
	}

	recipientOut, err := buildRecipientOutput(recipientTree, transfers, b.cfg.SafeMinBoxValue, height)
	if err != nil {
		return nil, err
	}
	feeOut := ergo.Output{
		Value:          b.cfg.MinFee,
		ErgoTree:       ergo.FeeTreeHex,
		CreationHeight: height,
	}

	outputs := []ergo.Output{recipientOut, feeOut}
	changeOut, err := buildChangeOutput(inputs, outputs, senderTree, b.cfg.SafeMinBoxValue, height)
	if err != nil {
		return nil, err
	}
	if changeOut != nil {
		outputs = append(outputs, *changeOut)
	}

	tx := &ergo.UnsignedTransaction{
		Inputs:  inputs,
		Outputs: outputs,
	}

	headerIDs := make([]string, 0, len(headers))
	for _, h := range headers {
		headerIDs = append(headerIDs, h.ID)
	}

	return tx.Reduce(ergo.SigningContext{Height: height, LastHeaderIDs: headerIDs})
}

// buildRecipientOutput aggregates the requested transfers into a single
// recipient box: native amounts sum into the box value, token amounts into
// its asset list. A tokens-only payment still needs a valid native value, so
// the minimum safe box value is used then.
func buildRecipientOutput(recipientTree string, transfers []Transfer, safeMinValue uint64, height uint32) (ergo.Output, error) {
	var value uint64
	tokenSums := make(map[string]uint64)
	for _, t := range transfers {
		if t.TokenID == ergo.BaseAssetID {
			if t.Amount > math.MaxUint64-value {
				return ergo.Output{}, ErrAmountOverflow
			}
			value += t.Amount
			continue
		}
		if t.Amount > math.MaxUint64-tokenSums[t.TokenID] {
			return ergo.Output{}, errors.Wrapf(ErrAmountOverflow, "token %s", t.TokenID)
		}
		tokenSums[t.TokenID] += t.Amount
	}
	if value == 0 {
		value = safeMinValue
	}

	return ergo.Output{
		Value:          value,
		ErgoTree:       recipientTree,
		Assets:         sortedAssets(tokenSums),
		CreationHeight: height,
	}, nil
}

// buildChangeOutput computes the per-asset remainder of inputs over the
// planned outputs. Any negative remainder fails the build with insufficient
// funds before anything is serialized. An exact spend returns no change box
// at all; a remainder below the minimum box value cannot be returned on
// chain and fails the build too.
func buildChangeOutput(inputs []ergo.Box, planned []ergo.Output, senderTree string, safeMinValue uint64, height uint32) (*ergo.Output, error) {
	inValues := make([]uint64, 0, len(inputs))
	inAssets := make([][]ergo.Asset, 0, len(inputs))
	for _, in := range inputs {
		inValues = append(inValues, in.Value)
		inAssets = append(inAssets, in.Assets)
	}
	inSums := ergo.AssetSums(inValues, inAssets)

	outValues := make([]uint64, 0, len(planned))
	outAssets := make([][]ergo.Asset, 0, len(planned))
	for _, out := range planned {
		outValues = append(outValues, out.Value)
		outAssets = append(outAssets, out.Assets)
	}
	outSums := ergo.AssetSums(outValues, outAssets)

	change := ergo.Output{
		ErgoTree:       senderTree,
		CreationHeight: height,
	}

	tokenChange := make(map[string]uint64)
	for tokenID, inSum := range inSums {
		outSum := outSums[tokenID]
		if inSum < outSum {
			return nil, &ergo.InsufficientFundsError{TokenID: tokenID, Missing: outSum - inSum}
		}
		remainder := inSum - outSum
		if tokenID == ergo.BaseAssetID {
			change.Value = remainder
			continue
		}
		if remainder > 0 {
			tokenChange[tokenID] = remainder
		}
	}
	// Outputs may only reference assets present in the inputs; a missing
	// input asset is a deficit by definition.
	for tokenID, outSum := range outSums {
		if _, ok := inSums[tokenID]; !ok && outSum > 0 {
			return nil, &ergo.InsufficientFundsError{TokenID: tokenID, Missing: outSum}
		}
	}

	change.Assets = sortedAssets(tokenChange)
	if change.Value == 0 && len(change.Assets) == 0 {
		return nil, nil
	}
	if change.Value < safeMinValue {
		return nil, &ergo.InsufficientFundsError{TokenID: ergo.BaseAssetID, Missing: safeMinValue - change.Value}
	}
	return &change, nil
}

func sortedAssets(sums map[string]uint64) []ergo.Asset {
	if len(sums) == 0 {
		return nil
	}
	assets := make([]ergo.Asset, 0, len(sums))
	for tokenID, amount := range sums {
		assets = append(assets, ergo.Asset{TokenID: tokenID, Amount: amount})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].TokenID < assets[j].TokenID })
	return assets
}
