package keeper

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

func dec(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

func staticParams(limit string) types.LimiterParams {
	return types.StaticLimiterParams(dec(limit))
}

func changeParams(offset string) types.LimiterParams {
	return types.ChangeLimiterParams(types.WindowConfig{WindowSize: types.Hour, DivisionCount: 2}, dec(offset))
}

// TestRegisterLimiter tests registration invariants
func TestRegisterLimiter(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")

	if err := k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := k.GetLimiter(ctx, scope, "cap"); err != nil {
		t.Errorf("expected limiter retrievable, got %v", err)
	}

	if err := k.RegisterLimiter(ctx, scope, "", staticParams("0.6")); !errors.Is(err, types.ErrEmptyLimiterLabel) {
		t.Errorf("expected ErrEmptyLimiterLabel, got %v", err)
	}
	if err := k.RegisterLimiter(ctx, scope, "cap", staticParams("0.5")); !errors.Is(err, types.ErrLimiterAlreadyExists) {
		t.Errorf("expected ErrLimiterAlreadyExists, got %v", err)
	}
	if err := k.RegisterLimiter(ctx, scope, "bad", staticParams("0")); !errors.Is(err, types.ErrZeroUpperLimit) {
		t.Errorf("expected ErrZeroUpperLimit, got %v", err)
	}

	// same label under another scope is independent
	if err := k.RegisterLimiter(ctx, types.DenomScope("uusdt"), "cap", staticParams("0.6")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestRegisterLimiterMaxPerScope tests the per-scope count bound
func TestRegisterLimiterMaxPerScope(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.AssetGroupScope("stables")

	for i := 0; i < types.MaxLimiterCountPerScope; i++ {
		if err := k.RegisterLimiter(ctx, scope, fmt.Sprintf("limiter-%d", i), staticParams("0.6")); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	err := k.RegisterLimiter(ctx, scope, "overflow", staticParams("0.6"))
	if !errors.Is(err, types.ErrMaxLimiterCountExceeded) {
		t.Errorf("expected ErrMaxLimiterCountExceeded, got %v", err)
	}
}

// TestDeregisterLimiter tests removal and the last-limiter guard
func TestDeregisterLimiter(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")

	if err := k.DeregisterLimiter(ctx, scope, "missing"); !errors.Is(err, types.ErrLimiterDoesNotExist) {
		t.Errorf("expected ErrLimiterDoesNotExist, got %v", err)
	}

	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6"))
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))

	if err := k.DeregisterLimiter(ctx, scope, "cap"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the scope must keep at least one limiter
	if err := k.DeregisterLimiter(ctx, scope, "drift"); !errors.Is(err, types.ErrEmptyLimiterNotAllowed) {
		t.Errorf("expected ErrEmptyLimiterNotAllowed, got %v", err)
	}
	// unchecked removal bypasses the guard
	if err := k.UncheckedDeregisterLimiter(ctx, scope, "drift"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries := k.LimitersForScope(ctx, scope); len(entries) != 0 {
		t.Errorf("expected no limiters, got %d", len(entries))
	}
}

// TestDeregisterAllLimitersForScope tests scope teardown
func TestDeregisterAllLimitersForScope(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	other := types.DenomScope("uusdt")

	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6"))
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))
	_ = k.RegisterLimiter(ctx, other, "cap", staticParams("0.6"))

	k.DeregisterAllLimitersForScope(ctx, scope)

	if entries := k.LimitersForScope(ctx, scope); len(entries) != 0 {
		t.Errorf("expected scope cleared, got %d limiters", len(entries))
	}
	if entries := k.LimitersForScope(ctx, other); len(entries) != 1 {
		t.Errorf("expected other scope untouched, got %d limiters", len(entries))
	}
}

// TestLimiterSetters tests parameter updates and type checks
func TestLimiterSetters(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6"))
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))

	if err := k.SetStaticLimiterUpperLimit(ctx, scope, "cap", dec("0.4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limiter, _ := k.GetLimiter(ctx, scope, "cap")
	if !limiter.StaticLimiter.UpperLimit.Equal(dec("0.4")) {
		t.Errorf("expected updated limit 0.4, got %s", limiter.StaticLimiter.UpperLimit)
	}

	if err := k.SetChangeLimiterBoundaryOffset(ctx, scope, "drift", dec("0.1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limiter, _ = k.GetLimiter(ctx, scope, "drift")
	if !limiter.ChangeLimiter.BoundaryOffset.Equal(dec("0.1")) {
		t.Errorf("expected updated offset 0.1, got %s", limiter.ChangeLimiter.BoundaryOffset)
	}

	if err := k.SetStaticLimiterUpperLimit(ctx, scope, "drift", dec("0.4")); !errors.Is(err, types.ErrWrongLimiterType) {
		t.Errorf("expected ErrWrongLimiterType, got %v", err)
	}
	if err := k.SetChangeLimiterBoundaryOffset(ctx, scope, "cap", dec("0.1")); !errors.Is(err, types.ErrWrongLimiterType) {
		t.Errorf("expected ErrWrongLimiterType, got %v", err)
	}
	if err := k.SetChangeLimiterBoundaryOffset(ctx, scope, "drift", dec("0")); !errors.Is(err, types.ErrZeroBoundaryOffset) {
		t.Errorf("expected ErrZeroBoundaryOffset, got %v", err)
	}
}

// TestCheckLimitsAndUpdateStatic tests the asymmetric static gate
func TestCheckLimitsAndUpdateStatic(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6"))

	// increase above the cap is rejected
	err := k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.5"), New: dec("0.7")},
	})
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Errorf("expected ErrUpperLimitExceeded, got %v", err)
	}

	// a decrease is accepted even while still above the cap
	err = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.9"), New: dec("0.7")},
	})
	if err != nil {
		t.Errorf("expected decrease accepted, got %v", err)
	}

	// increase within the cap passes
	err = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.5"), New: dec("0.6")},
	})
	if err != nil {
		t.Errorf("expected increase at cap accepted, got %v", err)
	}
}

// TestCheckLimitsAndUpdateUnchangedWeight tests that an unchanged weight is
// still held to the bound
func TestCheckLimitsAndUpdateUnchangedWeight(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.5"))

	// a scope sitting above the cap does not get a free pass
	err := k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.7"), New: dec("0.7")},
	})
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Errorf("expected ErrUpperLimitExceeded, got %v", err)
	}

	err = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.4"), New: dec("0.4")},
	})
	if err != nil {
		t.Errorf("expected unchanged weight within the cap accepted, got %v", err)
	}
}

// TestCheckLimitsAndUpdateScopeOrder tests that a batch with several failing
// scopes reports the first one in key order
func TestCheckLimitsAndUpdateScopeOrder(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scopeA := types.DenomScope("uusdc")
	scopeB := types.DenomScope("uusdt")
	_ = k.RegisterLimiter(ctx, scopeA, "cap", staticParams("0.1"))
	_ = k.RegisterLimiter(ctx, scopeB, "cap", staticParams("0.1"))

	err := k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scopeB.Key(): {Prev: dec("0.1"), New: dec("0.5")},
		scopeA.Key(): {Prev: dec("0.1"), New: dec("0.5")},
	})
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Fatalf("expected ErrUpperLimitExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "denom::uusdc") {
		t.Errorf("expected the first scope in key order reported, got %v", err)
	}
}

// TestCheckLimitsAndUpdateChange tests data point recording and rejection
// atomicity for change limiters
func TestCheckLimitsAndUpdateChange(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))

	// bootstrap: any value is accepted and recorded
	err := k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0"), New: dec("0.5")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limiter, _ := k.GetLimiter(ctx, scope, "drift")
	if len(limiter.ChangeLimiter.Divisions) != 1 {
		t.Fatalf("expected 1 division recorded, got %d", len(limiter.ChangeLimiter.Divisions))
	}

	// ten minutes later the bound is 0.55
	later := ctx.WithBlockTime(time.Unix(0, testT0+10*types.Minute))
	err = k.CheckLimitsAndUpdate(later, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.5"), New: dec("0.56")},
	})
	if !errors.Is(err, types.ErrUpperLimitExceeded) {
		t.Errorf("expected ErrUpperLimitExceeded, got %v", err)
	}
	// the rejected attempt left no data point behind
	limiter, _ = k.GetLimiter(ctx, scope, "drift")
	if !limiter.ChangeLimiter.LatestValue.Equal(dec("0.5")) {
		t.Errorf("expected latest value 0.5 after rejection, got %s", limiter.ChangeLimiter.LatestValue)
	}

	err = k.CheckLimitsAndUpdate(later, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0.5"), New: dec("0.55")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limiter, _ = k.GetLimiter(ctx, scope, "drift")
	if !limiter.ChangeLimiter.LatestValue.Equal(dec("0.55")) {
		t.Errorf("expected latest value 0.55, got %s", limiter.ChangeLimiter.LatestValue)
	}
}

// TestResetChangeLimiterStates tests reseeding after composition changes
func TestResetChangeLimiterStates(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scopeA := types.DenomScope("uusdc")
	scopeB := types.DenomScope("uusdt")
	_ = k.RegisterLimiter(ctx, scopeA, "drift", changeParams("0.05"))
	_ = k.RegisterLimiter(ctx, scopeB, "drift", changeParams("0.05"))
	_ = k.RegisterLimiter(ctx, scopeB, "cap", staticParams("0.6"))

	_ = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scopeA.Key(): {Prev: dec("0"), New: dec("0.5")},
		scopeB.Key(): {Prev: dec("0"), New: dec("0.5")},
	})

	err := k.ResetChangeLimiterStates(ctx, map[string]math.LegacyDec{
		scopeA.Key(): dec("0.8"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	limiter, _ := k.GetLimiter(ctx, scopeA, "drift")
	if !limiter.ChangeLimiter.LatestValue.Equal(dec("0.8")) {
		t.Errorf("expected reseeded value 0.8, got %s", limiter.ChangeLimiter.LatestValue)
	}
	if len(limiter.ChangeLimiter.Divisions) != 1 {
		t.Errorf("expected history discarded, got %d divisions", len(limiter.ChangeLimiter.Divisions))
	}

	// scopes without a weight reseed at zero
	limiter, _ = k.GetLimiter(ctx, scopeB, "drift")
	if !limiter.ChangeLimiter.LatestValue.IsZero() {
		t.Errorf("expected reseeded value 0, got %s", limiter.ChangeLimiter.LatestValue)
	}
	// static limiters are untouched
	limiter, _ = k.GetLimiter(ctx, scopeB, "cap")
	if !limiter.StaticLimiter.UpperLimit.Equal(dec("0.6")) {
		t.Errorf("expected static limiter untouched, got %s", limiter.StaticLimiter.UpperLimit)
	}
}

// TestUpperLimits tests the effective per-scope bound
func TestUpperLimits(t *testing.T) {
	k, _, ctx := newTestKeeper(t)
	scope := types.DenomScope("uusdc")
	_ = k.RegisterLimiter(ctx, scope, "cap", staticParams("0.6"))
	_ = k.RegisterLimiter(ctx, scope, "tight", staticParams("0.4"))
	_ = k.RegisterLimiter(ctx, scope, "drift", changeParams("0.05"))

	limits, err := k.UpperLimits(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// tightest static wins; the bootstrap change limiter contributes 1.0
	if !limits[scope.Key()].Equal(dec("0.4")) {
		t.Errorf("expected effective bound 0.4, got %s", limits[scope.Key()])
	}

	// once the change limiter has history it can become the binding constraint
	_ = k.CheckLimitsAndUpdate(ctx, map[string]WeightUpdate{
		scope.Key(): {Prev: dec("0"), New: dec("0.1")},
	})
	later := ctx.WithBlockTime(time.Unix(0, testT0+10*types.Minute))
	limits, err = k.UpperLimits(later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !limits[scope.Key()].Equal(dec("0.15")) {
		t.Errorf("expected change limiter bound 0.15, got %s", limits[scope.Key()])
	}
}
