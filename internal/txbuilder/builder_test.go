package txbuilder_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/txbuilder"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChainConfig() config.Chain {
	return config.Chain{
		NetworkPrefix:   ergo.MainnetPrefix,
		MinFee:          1_100_000,
		SafeMinBoxValue: 1_000_000,
		ContextHeaders:  2,
	}
}

func newAddress(t *testing.T) string {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return ergo.EncodeP2PK(priv.PubKey(), ergo.MainnetPrefix)
}

func newSource() *chainstate.StaticSource {
	return chainstate.NewStaticSource(1000, []chainstate.Header{
		{ID: "h1", Height: 999},
		{ID: "h2", Height: 1000},
	})
}

func TestBuildSplitsValueExactly(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)
	recipient := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 5_000_000}})

	builder := txbuilder.NewBuilder(source, cfg)
	reduced, err := builder.Build(context.Background(), sender, recipient, []txbuilder.Transfer{{Amount: 1_000_000}})
	require.NoError(t, err)

	tx, sctx, err := ergo.ParseReduced(reduced.Bytes)
	require.NoError(t, err)

	require.Len(t, tx.Outputs, 3)
	assert.Equal(t, uint64(1_000_000), tx.Outputs[0].Value)
	assert.Equal(t, uint64(1_100_000), tx.Outputs[1].Value)
	assert.Equal(t, ergo.FeeTreeHex, tx.Outputs[1].ErgoTree)
	assert.Equal(t, uint64(2_900_000), tx.Outputs[2].Value)

	recipientTree, err := ergo.TreeForAddress(recipient)
	require.NoError(t, err)
	senderTree, err := ergo.TreeForAddress(sender)
	require.NoError(t, err)
	assert.Equal(t, recipientTree, tx.Outputs[0].ErgoTree)
	assert.Equal(t, senderTree, tx.Outputs[2].ErgoTree)

	assert.NoError(t, tx.CheckConservation())

	assert.Equal(t, uint32(1000), sctx.Height)
	assert.Equal(t, []string{"h1", "h2"}, sctx.LastHeaderIDs)
}

func TestBuildTokenTransferUsesSafeMinValue(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)
	recipient := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{{
		BoxID:  "in-0",
		Value:  5_000_000,
		Assets: []ergo.Asset{{TokenID: "tok-a", Amount: 100}},
	}})

	builder := txbuilder.NewBuilder(source, cfg)
	reduced, err := builder.Build(context.Background(), sender, recipient, []txbuilder.Transfer{{TokenID: "tok-a", Amount: 40}})
	require.NoError(t, err)

	tx, _, err := ergo.ParseReduced(reduced.Bytes)
	require.NoError(t, err)

	require.Len(t, tx.Outputs, 3)
	assert.Equal(t, cfg.SafeMinBoxValue, tx.Outputs[0].Value)
	assert.Equal(t, []ergo.Asset{{TokenID: "tok-a", Amount: 40}}, tx.Outputs[0].Assets)
	assert.Equal(t, []ergo.Asset{{TokenID: "tok-a", Amount: 60}}, tx.Outputs[2].Assets)
	assert.NoError(t, tx.CheckConservation())
}

func TestBuildAggregatesTransfers(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)
	recipient := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{
		{BoxID: "in-0", Value: 3_000_000, Assets: []ergo.Asset{{TokenID: "tok-a", Amount: 5}}},
		{BoxID: "in-1", Value: 3_000_000, Assets: []ergo.Asset{{TokenID: "tok-a", Amount: 5}}},
	})

	builder := txbuilder.NewBuilder(source, cfg)
	reduced, err := builder.Build(context.Background(), sender, recipient, []txbuilder.Transfer{
		{Amount: 500_000},
		{Amount: 700_000},
		{TokenID: "tok-a", Amount: 3},
		{TokenID: "tok-a", Amount: 4},
	})
	require.NoError(t, err)

	tx, _, err := ergo.ParseReduced(reduced.Bytes)
	require.NoError(t, err)

	require.Len(t, tx.Inputs, 2)
	assert.Equal(t, uint64(1_200_000), tx.Outputs[0].Value)
	assert.Equal(t, []ergo.Asset{{TokenID: "tok-a", Amount: 7}}, tx.Outputs[0].Assets)
	assert.Equal(t, []ergo.Asset{{TokenID: "tok-a", Amount: 3}}, tx.Outputs[2].Assets)
	assert.NoError(t, tx.CheckConservation())
}

func TestBuildExactSpendOmitsChangeBox(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)
	recipient := newAddress(t)

	// Inputs match recipient value plus fee exactly; a zero-value change
	// box would be rejected on chain, so none is emitted.
	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 2_100_000}})

	builder := txbuilder.NewBuilder(source, cfg)
	reduced, err := builder.Build(context.Background(), sender, recipient, []txbuilder.Transfer{{Amount: 1_000_000}})
	require.NoError(t, err)

	tx, _, err := ergo.ParseReduced(reduced.Bytes)
	require.NoError(t, err)

	require.Len(t, tx.Outputs, 2)
	assert.Equal(t, uint64(1_000_000), tx.Outputs[0].Value)
	assert.Equal(t, uint64(1_100_000), tx.Outputs[1].Value)
	assert.NoError(t, tx.CheckConservation())
}

func TestBuildDustChangeIsInsufficient(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)

	// The remainder of 500_000 is below the minimum box value and cannot
	// be returned as change.
	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 2_600_000}})

	builder := txbuilder.NewBuilder(source, cfg)
	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{{Amount: 1_000_000}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, ergo.BaseAssetID, insufficient.TokenID)
	assert.Equal(t, uint64(500_000), insufficient.Missing)
}

func TestBuildTokenChangeNeedsCarrierValue(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)

	// All native value is consumed by the recipient box and the fee, but
	// leftover tokens still need a change box with a valid value.
	source.SetBoxes(sender, []ergo.Box{{
		BoxID:  "in-0",
		Value:  2_100_000,
		Assets: []ergo.Asset{{TokenID: "tok-a", Amount: 10}},
	}})

	builder := txbuilder.NewBuilder(source, cfg)
	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{{TokenID: "tok-a", Amount: 5}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, ergo.BaseAssetID, insufficient.TokenID)
}

func TestBuildRejectsOverflowingAmounts(t *testing.T) {
	source := newSource()
	sender := newAddress(t)
	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 5_000_000}})

	builder := txbuilder.NewBuilder(source, testChainConfig())

	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{
		{Amount: math.MaxUint64},
		{Amount: 1},
	})
	require.ErrorIs(t, err, txbuilder.ErrAmountOverflow)

	_, err = builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{
		{TokenID: "tok-a", Amount: math.MaxUint64},
		{TokenID: "tok-a", Amount: 1},
	})
	require.ErrorIs(t, err, txbuilder.ErrAmountOverflow)
}

func TestBuildInsufficientNativeValue(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 2_000_000}})

	builder := txbuilder.NewBuilder(source, cfg)
	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{{Amount: 1_000_000}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, ergo.BaseAssetID, insufficient.TokenID)
	assert.Equal(t, uint64(100_000), insufficient.Missing)
}

func TestBuildInsufficientTokens(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{{
		BoxID:  "in-0",
		Value:  5_000_000,
		Assets: []ergo.Asset{{TokenID: "tok-a", Amount: 2}},
	}})

	builder := txbuilder.NewBuilder(source, cfg)
	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{{TokenID: "tok-a", Amount: 3}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "tok-a", insufficient.TokenID)
}

func TestBuildUnknownTokenIsInsufficient(t *testing.T) {
	cfg := testChainConfig()
	source := newSource()
	sender := newAddress(t)

	source.SetBoxes(sender, []ergo.Box{{BoxID: "in-0", Value: 5_000_000}})

	builder := txbuilder.NewBuilder(source, cfg)
	_, err := builder.Build(context.Background(), sender, newAddress(t), []txbuilder.Transfer{{TokenID: "tok-missing", Amount: 1}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "tok-missing", insufficient.TokenID)
}

func TestBuildNoBoxesIsInsufficient(t *testing.T) {
	builder := txbuilder.NewBuilder(newSource(), testChainConfig())
	_, err := builder.Build(context.Background(), newAddress(t), newAddress(t), []txbuilder.Transfer{{Amount: 1}})

	var insufficient *ergo.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
}

func TestBuildSurfacesUpstreamFailure(t *testing.T) {
	source := newSource()
	source.Fail = errors.Join(chainstate.ErrUpstreamUnavailable, errors.New("connection refused"))

	builder := txbuilder.NewBuilder(source, testChainConfig())
	_, err := builder.Build(context.Background(), newAddress(t), newAddress(t), []txbuilder.Transfer{{Amount: 1}})
	require.ErrorIs(t, err, chainstate.ErrUpstreamUnavailable)
}

func TestBuildRejectsInvalidAddresses(t *testing.T) {
	builder := txbuilder.NewBuilder(newSource(), testChainConfig())

	_, err := builder.Build(context.Background(), "garbage", newAddress(t), []txbuilder.Transfer{{Amount: 1}})
	require.Error(t, err)

	_, err = builder.Build(context.Background(), newAddress(t), "garbage", []txbuilder.Transfer{{Amount: 1}})
	require.Error(t, err)

	_, err = builder.Build(context.Background(), newAddress(t), newAddress(t), nil)
	require.Error(t, err)
}
