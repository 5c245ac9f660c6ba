package keeper

import (
	"errors"
	"testing"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

// TestMsgServerRejectsUnparseableAmounts tests that numeric message fields
// fail loudly instead of flowing through as zero values
func TestMsgServerRejectsUnparseableAmounts(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	srv := NewMsgServerImpl(k)

	_, err := srv.SwapExactAmountIn(ctx, &types.MsgSwapExactAmountIn{
		Sender:            testAuthority,
		TokenIn:           "100uaaa",
		TokenOutDenom:     "ubbb",
		TokenOutMinAmount: "not-a-number",
	})
	if !errors.Is(err, types.ErrZeroValueOperation) {
		t.Errorf("expected ErrZeroValueOperation for bad min amount, got %v", err)
	}

	_, err = srv.SwapExactAmountOut(ctx, &types.MsgSwapExactAmountOut{
		Sender:           testAuthority,
		TokenInDenom:     "uaaa",
		TokenInMaxAmount: "not-a-number",
		TokenOut:         "100ubbb",
	})
	if !errors.Is(err, types.ErrZeroValueOperation) {
		t.Errorf("expected ErrZeroValueOperation for bad max amount, got %v", err)
	}

	_, err = srv.RescaleNormalizationFactor(ctx, &types.MsgRescaleNormalizationFactor{
		Authority: testAuthority,
		Numerator: "not-a-number", Denominator: "1",
	})
	if !errors.Is(err, types.ErrNonPositiveNormFactor) {
		t.Errorf("expected ErrNonPositiveNormFactor for bad numerator, got %v", err)
	}

	freshKeeper, _, freshCtx := newTestKeeper(t)
	_, err = NewMsgServerImpl(freshKeeper).CreatePool(freshCtx, &types.MsgCreatePool{
		Authority:                  testAuthority,
		AlloyedDenom:               "alloyed",
		AlloyedNormalizationFactor: "not-a-number",
		Assets: []types.AssetDefinition{
			{Denom: "uaaa", NormalizationFactor: "1"},
		},
	})
	if !errors.Is(err, types.ErrNonPositiveNormFactor) {
		t.Errorf("expected ErrNonPositiveNormFactor for bad alloyed factor, got %v", err)
	}
}
