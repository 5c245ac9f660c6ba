package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

// TestAssetGroupLifecycle tests group creation and removal with limiter cleanup
func TestAssetGroupLifecycle(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	if err := k.CreateAssetGroup(ctx, "stables", []string{"uaaa", "ubbb"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.CreateAssetGroup(ctx, "stables", []string{"uaaa"}); !errors.Is(err, types.ErrAssetGroupAlreadyExists) {
		t.Errorf("expected ErrAssetGroupAlreadyExists, got %v", err)
	}

	scope := types.AssetGroupScope("stables")
	if err := k.RegisterLimiter(ctx, scope, "cap", staticParams("0.9")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := k.RemoveAssetGroup(ctx, "stables"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool, _ := k.GetPool(ctx)
	if _, ok := pool.AssetGroups["stables"]; ok {
		t.Errorf("expected group removed")
	}
	if _, err := k.GetLimiter(ctx, scope, "cap"); !errors.Is(err, types.ErrLimiterDoesNotExist) {
		t.Errorf("expected group limiters removed, got %v", err)
	}

	if err := k.RemoveAssetGroup(ctx, "stables"); !errors.Is(err, types.ErrAssetGroupNotFound) {
		t.Errorf("expected ErrAssetGroupNotFound, got %v", err)
	}
}

// TestAddNewAssets tests asset registration and change limiter reseeding
func TestAddNewAssets(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)
	scope := types.DenomScope("uaaa")
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))
	_ = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0"), New: dec("0.5")},
	})

	added, _ := types.NewAsset("uccc", math.ZeroInt(), math.NewInt(1))
	if err := k.AddNewAssets(ctx, []types.Asset{added}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool, _ := k.GetPool(ctx)
	if !pool.HasDenom("uccc") {
		t.Errorf("expected uccc registered")
	}

	// the limiter restarts from the current weight
	limiter, _ := k.GetLimiter(ctx, scope, "drift")
	if !limiter.ChangeLimiter.LatestValue.Equal(dec("0.5")) {
		t.Errorf("expected reseeded weight 0.5, got %s", limiter.ChangeLimiter.LatestValue)
	}
	if len(limiter.ChangeLimiter.Divisions) != 1 {
		t.Errorf("expected history discarded, got %d divisions", len(limiter.ChangeLimiter.Divisions))
	}

	dup := added
	if err := k.AddNewAssets(ctx, []types.Asset{dup}); !errors.Is(err, types.ErrDuplicatedPoolAssetDenom) {
		t.Errorf("expected ErrDuplicatedPoolAssetDenom, got %v", err)
	}
}

// TestRescaleNormalizationFactor tests uniform factor scaling through the
// keeper
func TestRescaleNormalizationFactor(t *testing.T) {
	k, _, ctx := newTestKeeperWithPool(t)

	if err := k.RescaleNormalizationFactor(ctx, math.NewInt(1000), math.NewInt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool, _ := k.GetPool(ctx)
	a, _ := pool.GetAsset("uaaa")
	if !a.NormalizationFactor.Equal(math.NewInt(1000)) {
		t.Errorf("expected factor 1000, got %s", a.NormalizationFactor)
	}
	if !pool.AlloyedNormalizationFactor.Equal(math.NewInt(1000)) {
		t.Errorf("expected alloyed factor 1000, got %s", pool.AlloyedNormalizationFactor)
	}

	if err := k.RescaleNormalizationFactor(ctx, math.ZeroInt(), math.NewInt(1)); err == nil {
		t.Errorf("expected error for zero numerator")
	}
}
