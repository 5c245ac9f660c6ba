package keeper

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

// TestCreatePoolOnce tests the single-pool constraint
func TestCreatePoolOnce(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	asset, _ := types.NewAsset("uccc", math.ZeroInt(), math.NewInt(1))
	pool, _ := types.NewPool("other", math.NewInt(1), []types.Asset{asset})
	if err := k.CreatePool(ctx, pool); !errors.Is(err, types.ErrPoolAlreadyExists) {
		t.Errorf("expected ErrPoolAlreadyExists, got %v", err)
	}
}

// TestJoinPool tests deposit, share minting and reserve accounting
func TestJoinPool(t *testing.T) {
	k, bank, ctx := newTestKeeperWithPool(t)

	shares, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 500)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shares.Equal(math.NewInt(500)) {
		t.Errorf("expected 500 shares, got %s", shares)
	}
	if !bank.minted.AmountOf("alloyed").Equal(math.NewInt(500)) {
		t.Errorf("expected 500 alloyed minted, got %s", bank.minted.AmountOf("alloyed"))
	}

	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	if !a.Amount.Equal(math.NewInt(1500)) {
		t.Errorf("expected reserve 1500, got %s", a.Amount)
	}

	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uzzz", 10))); err == nil {
		t.Errorf("expected error joining with unknown denom")
	}
}

// TestExitPool tests withdrawal and share burning
func TestExitPool(t *testing.T) {
	k, bank, ctx := newTestKeeperWithPool(t)

	shares, err := k.ExitPool(ctx, testAddr(), sdk.NewCoins(mustCoin("ubbb", 200)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shares.Equal(math.NewInt(200)) {
		t.Errorf("expected 200 shares burned, got %s", shares)
	}
	if !bank.burned.AmountOf("alloyed").Equal(math.NewInt(200)) {
		t.Errorf("expected 200 alloyed burned, got %s", bank.burned.AmountOf("alloyed"))
	}

	pool, _ := k.GetPool(ctx)
	b, _ := pool.GetAsset("ubbb")
	if !b.Amount.Equal(math.NewInt(800)) {
		t.Errorf("expected reserve 800, got %s", b.Amount)
	}

	if _, err := k.ExitPool(ctx, testAddr(), sdk.NewCoins(mustCoin("ubbb", 10000))); !errors.Is(err, types.ErrInsufficientPoolAsset) {
		t.Errorf("expected ErrInsufficientPoolAsset, got %v", err)
	}
}

// TestSwapExactAmountIn tests transmute routing and the min-out bound
func TestSwapExactAmountIn(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	out, err := k.SwapExactAmountIn(ctx, testAddr(), mustCoin("uaaa", 100), "ubbb", math.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Denom != "ubbb" || !out.Amount.Equal(math.NewInt(100)) {
		t.Errorf("expected 100 ubbb out, got %s", out)
	}

	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	b, _ := pool.GetAsset("ubbb")
	if !a.Amount.Equal(math.NewInt(1100)) || !b.Amount.Equal(math.NewInt(900)) {
		t.Errorf("expected reserves 1100/900, got %s/%s", a.Amount, b.Amount)
	}

	if _, err := k.SwapExactAmountIn(ctx, testAddr(), mustCoin("uaaa", 100), "uaaa", math.Int{}); err == nil {
		t.Errorf("expected error swapping a denom for itself")
	}
	if _, err := k.SwapExactAmountIn(ctx, testAddr(), mustCoin("uaaa", 100), "ubbb", math.NewInt(101)); err == nil {
		t.Errorf("expected error when output is below min amount")
	}
}

// TestSwapExactAmountInAlloyedLegs tests routing through share mint and burn
func TestSwapExactAmountInAlloyedLegs(t *testing.T) {
	k, bank, ctx := newTestKeeperWithPool(t)

	// asset in, shares out behaves as a join
	out, err := k.SwapExactAmountIn(ctx, testAddr(), mustCoin("uaaa", 100), "alloyed", math.Int{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Denom != "alloyed" || !out.Amount.Equal(math.NewInt(100)) {
		t.Errorf("expected 100 alloyed out, got %s", out)
	}
	if !bank.minted.AmountOf("alloyed").Equal(math.NewInt(100)) {
		t.Errorf("expected mint of 100 alloyed, got %s", bank.minted.AmountOf("alloyed"))
	}

	// shares in, asset out behaves as an exit
	out, err = k.SwapExactAmountIn(ctx, testAddr(), mustCoin("alloyed", 50), "ubbb", math.Int{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Denom != "ubbb" || !out.Amount.Equal(math.NewInt(50)) {
		t.Errorf("expected 50 ubbb out, got %s", out)
	}
	if !bank.burned.AmountOf("alloyed").Equal(math.NewInt(50)) {
		t.Errorf("expected burn of 50 alloyed, got %s", bank.burned.AmountOf("alloyed"))
	}
}

// TestSwapExactAmountOut tests exact-output routing and the max-in bound
func TestSwapExactAmountOut(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	in, err := k.SwapExactAmountOut(ctx, testAddr(), "uaaa", math.NewInt(100), mustCoin("ubbb", 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Denom != "uaaa" || !in.Amount.Equal(math.NewInt(100)) {
		t.Errorf("expected 100 uaaa in, got %s", in)
	}

	if _, err := k.SwapExactAmountOut(ctx, testAddr(), "uaaa", math.NewInt(99), mustCoin("ubbb", 100)); err == nil {
		t.Errorf("expected error when input exceeds max amount")
	}
	if _, err := k.SwapExactAmountOut(ctx, testAddr(), "ubbb", math.Int{}, mustCoin("ubbb", 100)); err == nil {
		t.Errorf("expected error swapping a denom for itself")
	}
}

// TestMutationRespectsLimiters tests that a join breaching a limiter leaves no
// state behind
func TestMutationRespectsLimiters(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	scope := types.DenomScope("uaaa")
	if err := k.RegisterLimiter(ctx, scope, "cap", staticParams("0.55")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1300/2300 > 0.55: rejected, pool unchanged
	_, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 300)))
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Fatalf("expected ErrUpperLimitExceeded, got %v", err)
	}
	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	if !a.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected untouched reserve 1000, got %s", a.Amount)
	}

	// 1100/2100 < 0.55: accepted
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 100))); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestAssetGroupLimiterGatesMutation tests that a static limiter on a group
// scope gates mutations through the combined weight of its members
func TestAssetGroupLimiterGatesMutation(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	added, _ := types.NewAsset("uccc", math.ZeroInt(), math.NewInt(1))
	if err := k.AddNewAssets(ctx, []types.Asset{added}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uccc", 1000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.CreateAssetGroup(ctx, "majors", []string{"uaaa", "ubbb"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scope := types.AssetGroupScope("majors")
	if err := k.RegisterLimiter(ctx, scope, "cap", staticParams("0.7")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (1500+1000)/3500 > 0.7: rejected through the group weight, pool untouched
	_, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 500)))
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Fatalf("expected ErrUpperLimitExceeded, got %v", err)
	}
	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	if !a.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected untouched reserve 1000, got %s", a.Amount)
	}

	// (1200+1000)/3200 < 0.7: accepted
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 200))); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestAssetGroupChangeLimiterGatesMutation tests that a change limiter on a
// group scope records the combined weight and rejects drift past its bound
func TestAssetGroupChangeLimiterGatesMutation(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	added, _ := types.NewAsset("uccc", math.ZeroInt(), math.NewInt(1))
	if err := k.AddNewAssets(ctx, []types.Asset{added}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uccc", 1000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.CreateAssetGroup(ctx, "majors", []string{"uaaa", "ubbb"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scope := types.AssetGroupScope("majors")
	if err := k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// first mutation bootstraps the limiter with the group weight 2100/3100
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 100))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ten minutes later the bound is 2100/3100 + 0.05; 2700/3700 breaches it
	later := ctx.WithBlockTime(time.Unix(0, testT0+10*types.Minute))
	_, err := k.JoinPool(later, testAddr(), sdk.NewCoins(mustCoin("uaaa", 600)))
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Fatalf("expected ErrUpperLimitExceeded, got %v", err)
	}

	// 2400/3400 stays within the bound
	if _, err := k.JoinPool(later, testAddr(), sdk.NewCoins(mustCoin("uaaa", 300))); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestCorruptedScopeBlocksIncrease tests the non-increase rule for corrupted
// scopes
func TestCorruptedScopeBlocksIncrease(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	if err := k.MarkCorruptedScopes(ctx, []types.Scope{types.DenomScope("uaaa")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// raising the corrupted asset's weight is blocked
	_, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 100)))
	if !errors.Is(err, types.ErrCorruptedScopeIncreased) {
		t.Errorf("expected ErrCorruptedScopeIncreased, got %v", err)
	}

	// draining it is fine
	if _, err := k.SwapExactAmountIn(ctx, testAddr(), mustCoin("ubbb", 100), "uaaa", math.Int{}); err != nil {
		t.Errorf("expected drain accepted, got %v", err)
	}

	if err := k.UnmarkCorruptedScopes(ctx, []types.Scope{types.DenomScope("uaaa")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.UnmarkCorruptedScopes(ctx, []types.Scope{types.DenomScope("ubbb")}); !errors.Is(err, types.ErrScopeNotCorrupted) {
		t.Errorf("expected ErrScopeNotCorrupted, got %v", err)
	}

	// clean again: joins work
	if _, err := k.JoinPool(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 100))); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestForceExitCorruptedAssets tests the limiter-bypassing exit path with
// pruning and limiter cleanup
func TestForceExitCorruptedAssets(t *testing.T) {
	k, bank, ctx := newTestKeeperWithPool(t)
	scopeA := types.DenomScope("uaaa")
	scopeB := types.DenomScope("ubbb")
	_ = k.RegisterLimiter(ctx, scopeA, "cap", staticParams("0.6"))
	_ = k.RegisterLimiter(ctx, scopeB, "drift", changeParams("0.05"))

	// only corrupted denoms can be force exited
	if _, err := k.ForceExitCorruptedAssets(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 1000))); !errors.Is(err, types.ErrScopeNotCorrupted) {
		t.Fatalf("expected ErrScopeNotCorrupted, got %v", err)
	}

	if err := k.MarkCorruptedScopes(ctx, []types.Scope{scopeA}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// drain the corrupted asset completely, well past any static cap
	shares, err := k.ForceExitCorruptedAssets(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 1000)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shares.Equal(math.NewInt(1000)) {
		t.Errorf("expected 1000 shares burned, got %s", shares)
	}
	if !bank.burned.AmountOf("alloyed").Equal(math.NewInt(1000)) {
		t.Errorf("expected 1000 alloyed burned, got %s", bank.burned.AmountOf("alloyed"))
	}

	// the drained asset is pruned and its limiters removed
	pool, _ := k.GetPool(ctx)
	if pool.HasDenom("uaaa") {
		t.Errorf("expected uaaa pruned from pool")
	}
	if _, err := k.GetLimiter(ctx, scopeA, "cap"); !errors.Is(err, types.ErrLimiterDoesNotExist) {
		t.Errorf("expected uaaa limiter removed, got %v", err)
	}

	// the surviving change limiter is reseeded with the post-exit weight
	limiter, err := k.GetLimiter(ctx, scopeB, "drift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !limiter.ChangeLimiter.LatestValue.Equal(math.LegacyOneDec()) {
		t.Errorf("expected reseeded weight 1.0, got %s", limiter.ChangeLimiter.LatestValue)
	}
	if len(limiter.ChangeLimiter.Divisions) != 1 {
		t.Errorf("expected history discarded, got %d divisions", len(limiter.ChangeLimiter.Divisions))
	}
}

// TestForceExitRequiresFullDrain tests that partial redemptions of a
// corrupted asset are rejected
func TestForceExitRequiresFullDrain(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	scope := types.DenomScope("uaaa")
	if err := k.MarkCorruptedScopes(ctx, []types.Scope{scope}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := k.ForceExitCorruptedAssets(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 500)))
	if !errors.Is(err, types.ErrCorruptedNotFullyDrained) {
		t.Fatalf("expected ErrCorruptedNotFullyDrained, got %v", err)
	}
	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	if !a.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected untouched reserve 1000, got %s", a.Amount)
	}
}

// TestForceExitTwoCorruptedScopes tests that draining one corrupted scope may
// not raise another's relative weight
func TestForceExitTwoCorruptedScopes(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	scopes := []types.Scope{types.DenomScope("uaaa"), types.DenomScope("ubbb")}
	if err := k.MarkCorruptedScopes(ctx, scopes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// draining only uaaa would raise ubbb's weight 0.5 -> 1.0
	_, err := k.ForceExitCorruptedAssets(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 1000)))
	if !errors.Is(err, types.ErrCorruptedScopeIncreased) {
		t.Fatalf("expected ErrCorruptedScopeIncreased, got %v", err)
	}

	// draining both together is allowed
	shares, err := k.ForceExitCorruptedAssets(ctx, testAddr(), sdk.NewCoins(mustCoin("uaaa", 1000), mustCoin("ubbb", 1000)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shares.Equal(math.NewInt(2000)) {
		t.Errorf("expected 2000 shares burned, got %s", shares)
	}
	pool, _ := k.GetPool(ctx)
	if pool.HasDenom("uaaa") || pool.HasDenom("ubbb") {
		t.Errorf("expected both drained assets pruned")
	}
}
