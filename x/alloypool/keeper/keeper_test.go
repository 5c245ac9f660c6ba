package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

const testAuthority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

// testT0 is the block time tests start at, in unix nanoseconds.
const testT0 = int64(1_700_000_000_000_000_000)

// mockBankKeeper records mint, burn and transfer calls without real balances.
type mockBankKeeper struct {
	minted sdk.Coins
	burned sdk.Coins
}

func (m *mockBankKeeper) MintCoins(_ context.Context, _ string, amt sdk.Coins) error {
	m.minted = m.minted.Add(amt...)
	return nil
}

func (m *mockBankKeeper) BurnCoins(_ context.Context, _ string, amt sdk.Coins) error {
	m.burned = m.burned.Add(amt...)
	return nil
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, _ sdk.AccAddress, _ string, _ sdk.Coins) error {
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, _ string, _ sdk.AccAddress, _ sdk.Coins) error {
	return nil
}

func newTestKeeper(t *testing.T) (*Keeper, *mockBankKeeper, sdk.Context) {
	t.Helper()
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	tkey := storetypes.NewTransientStoreKey("transient_" + types.StoreKey)
	ctx := testutil.DefaultContext(storeKey, tkey).WithBlockTime(time.Unix(0, testT0))

	bank := &mockBankKeeper{}
	k := NewKeeper(nil, storeKey, bank, testAuthority, log.NewNopLogger())
	return k, bank, ctx
}

// newTestKeeperWithPool seeds a pool of uaaa and ubbb, both at factor 1 with
// 1000 units each, behind the alloyed denom at factor 1.
func newTestKeeperWithPool(t *testing.T) (*Keeper, *mockBankKeeper, sdk.Context) {
	t.Helper()
	k, bank, ctx := newTestKeeper(t)

	assetA, err := types.NewAsset("uaaa", math.NewInt(1000), math.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assetB, err := types.NewAsset("ubbb", math.NewInt(1000), math.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool, err := types.NewPool("alloyed", math.NewInt(1), []types.Asset{assetA, assetB})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.CreatePool(ctx, pool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return k, bank, ctx
}

func testAddr() sdk.AccAddress {
	return sdk.AccAddress("test_________________")
}

func mustCoin(denom string, amount int64) sdk.Coin {
	return sdk.NewCoin(denom, math.NewInt(amount))
}
