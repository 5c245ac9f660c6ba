package keeper

import (
	"encoding/json"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/alloyed/metrics"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// limiterKey builds the store key for a (scope, label) pair. Scope keys and
// labels never contain NUL, so the separator keeps keys unambiguous even for
// denoms with '/' in them.
func limiterKey(scope types.Scope, label string) []byte {
	key := append([]byte{}, LimiterKeyPrefix...)
	key = append(key, []byte(scope.Key())...)
	key = append(key, 0x00)
	return append(key, []byte(label)...)
}

// limiterScopePrefix is the common prefix of every limiter key under scope.
func limiterScopePrefix(scope types.Scope) []byte {
	key := append([]byte{}, LimiterKeyPrefix...)
	key = append(key, []byte(scope.Key())...)
	return append(key, 0x00)
}

// LimiterEntry pairs a registered limiter with its identity.
type LimiterEntry struct {
	Scope   types.Scope   `json:"scope"`
	Label   string        `json:"label"`
	Limiter types.Limiter `json:"limiter"`
}

// WeightUpdate carries a scope's weight before and after a pool mutation.
type WeightUpdate struct {
	Prev math.LegacyDec
	New  math.LegacyDec
}

func (k *Keeper) setLimiter(ctx sdk.Context, scope types.Scope, label string, limiter types.Limiter) {
	bz, _ := json.Marshal(limiter)
	k.GetStore(ctx).Set(limiterKey(scope, label), bz)
}

// GetLimiter retrieves a limiter by scope and label.
func (k *Keeper) GetLimiter(ctx sdk.Context, scope types.Scope, label string) (types.Limiter, error) {
	bz := k.GetStore(ctx).Get(limiterKey(scope, label))
	if bz == nil {
		return types.Limiter{}, errorsmod.Wrapf(types.ErrLimiterDoesNotExist, "scope: %s, label: %s", scope.Key(), label)
	}
	var limiter types.Limiter
	if err := json.Unmarshal(bz, &limiter); err != nil {
		return types.Limiter{}, err
	}
	return limiter, nil
}

// LimitersForScope returns the scope's limiters ordered by label.
func (k *Keeper) LimitersForScope(ctx sdk.Context, scope types.Scope) []LimiterEntry {
	prefix := limiterScopePrefix(scope)
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var entries []LimiterEntry
	for ; iterator.Valid(); iterator.Next() {
		var limiter types.Limiter
		if err := json.Unmarshal(iterator.Value(), &limiter); err != nil {
			continue
		}
		entries = append(entries, LimiterEntry{
			Scope:   scope,
			Label:   string(iterator.Key()[len(prefix):]),
			Limiter: limiter,
		})
	}
	return entries
}

// AllLimiters returns every registered limiter ordered by scope key then label.
func (k *Keeper) AllLimiters(ctx sdk.Context) []LimiterEntry {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), LimiterKeyPrefix)
	defer iterator.Close()

	var entries []LimiterEntry
	for ; iterator.Valid(); iterator.Next() {
		scope, label, ok := parseLimiterKey(iterator.Key())
		if !ok {
			continue
		}
		var limiter types.Limiter
		if err := json.Unmarshal(iterator.Value(), &limiter); err != nil {
			continue
		}
		entries = append(entries, LimiterEntry{Scope: scope, Label: label, Limiter: limiter})
	}
	return entries
}

func parseLimiterKey(key []byte) (types.Scope, string, bool) {
	rest := key[len(LimiterKeyPrefix):]
	for i, b := range rest {
		if b != 0x00 {
			continue
		}
		scope, err := types.ParseScope(string(rest[:i]))
		if err != nil {
			return types.Scope{}, "", false
		}
		return scope, string(rest[i+1:]), true
	}
	return types.Scope{}, "", false
}

// RegisterLimiter validates params and stores a fresh limiter under
// (scope, label).
func (k *Keeper) RegisterLimiter(ctx sdk.Context, scope types.Scope, label string, params types.LimiterParams) error {
	if label == "" {
		return errorsmod.Wrapf(types.ErrEmptyLimiterLabel, "scope: %s", scope.Key())
	}
	if k.GetStore(ctx).Has(limiterKey(scope, label)) {
		return errorsmod.Wrapf(types.ErrLimiterAlreadyExists, "scope: %s, label: %s", scope.Key(), label)
	}
	if len(k.LimitersForScope(ctx, scope)) >= types.MaxLimiterCountPerScope {
		return errorsmod.Wrapf(types.ErrMaxLimiterCountExceeded, "scope: %s, max: %d", scope.Key(), types.MaxLimiterCountPerScope)
	}

	limiter, err := types.NewLimiter(params)
	if err != nil {
		return err
	}

	k.setLimiter(ctx, scope, label, limiter)
	k.logger.Info("registered limiter", "scope", scope.Key(), "label", label, "type", limiter.Type())
	return nil
}

// DeregisterLimiter removes a limiter, refusing to leave the scope with none.
func (k *Keeper) DeregisterLimiter(ctx sdk.Context, scope types.Scope, label string) error {
	store := k.GetStore(ctx)
	if !store.Has(limiterKey(scope, label)) {
		return errorsmod.Wrapf(types.ErrLimiterDoesNotExist, "scope: %s, label: %s", scope.Key(), label)
	}
	if len(k.LimitersForScope(ctx, scope)) == 1 {
		return errorsmod.Wrapf(types.ErrEmptyLimiterNotAllowed, "scope: %s", scope.Key())
	}
	store.Delete(limiterKey(scope, label))
	k.logger.Info("deregistered limiter", "scope", scope.Key(), "label", label)
	return nil
}

// UncheckedDeregisterLimiter removes a limiter without the last-limiter guard.
// Used when the scope itself is going away.
func (k *Keeper) UncheckedDeregisterLimiter(ctx sdk.Context, scope types.Scope, label string) error {
	store := k.GetStore(ctx)
	if !store.Has(limiterKey(scope, label)) {
		return errorsmod.Wrapf(types.ErrLimiterDoesNotExist, "scope: %s, label: %s", scope.Key(), label)
	}
	store.Delete(limiterKey(scope, label))
	return nil
}

// DeregisterAllLimitersForScope removes every limiter under the scope.
func (k *Keeper) DeregisterAllLimitersForScope(ctx sdk.Context, scope types.Scope) {
	store := k.GetStore(ctx)
	for _, entry := range k.LimitersForScope(ctx, scope) {
		store.Delete(limiterKey(scope, entry.Label))
	}
}

// SetChangeLimiterBoundaryOffset updates the boundary offset of a change
// limiter, preserving its division history.
func (k *Keeper) SetChangeLimiterBoundaryOffset(ctx sdk.Context, scope types.Scope, label string, boundaryOffset math.LegacyDec) error {
	limiter, err := k.GetLimiter(ctx, scope, label)
	if err != nil {
		return err
	}
	if limiter.ChangeLimiter == nil {
		return errorsmod.Wrapf(types.ErrWrongLimiterType, "scope: %s, label: %s is a %s", scope.Key(), label, limiter.Type())
	}
	if !boundaryOffset.IsPositive() {
		return errorsmod.Wrapf(types.ErrZeroBoundaryOffset, "boundary offset: %s", boundaryOffset)
	}
	limiter.ChangeLimiter.BoundaryOffset = boundaryOffset
	k.setLimiter(ctx, scope, label, limiter)
	return nil
}

// SetStaticLimiterUpperLimit updates the ceiling of a static limiter.
func (k *Keeper) SetStaticLimiterUpperLimit(ctx sdk.Context, scope types.Scope, label string, upperLimit math.LegacyDec) error {
	limiter, err := k.GetLimiter(ctx, scope, label)
	if err != nil {
		return err
	}
	if limiter.StaticLimiter == nil {
		return errorsmod.Wrapf(types.ErrWrongLimiterType, "scope: %s, label: %s is a %s", scope.Key(), label, limiter.Type())
	}
	updated, err := limiter.StaticLimiter.SetUpperLimit(upperLimit)
	if err != nil {
		return err
	}
	limiter.StaticLimiter = &updated
	k.setLimiter(ctx, scope, label, limiter)
	return nil
}

// CheckLimitsAndUpdate enforces every limiter of the updated scopes against
// the new weights and records the data points. Bounds are checked whenever a
// scope's weight did not decrease; decreases are always accepted but still
// recorded. Scopes are processed in key order so rejections attribute the
// same scope on every node. Nothing is written unless every check passes.
func (k *Keeper) CheckLimitsAndUpdate(ctx sdk.Context, updates map[string]WeightUpdate) error {
	now := ctx.BlockTime().UnixNano()

	type pendingWrite struct {
		scope   types.Scope
		label   string
		limiter types.Limiter
	}
	var writes []pendingWrite

	scopeKeys := make([]string, 0, len(updates))
	for scopeKey := range updates {
		scopeKeys = append(scopeKeys, scopeKey)
	}
	sort.Strings(scopeKeys)

	for _, scopeKey := range scopeKeys {
		update := updates[scopeKey]
		scope, err := types.ParseScope(scopeKey)
		if err != nil {
			return err
		}
		notDecreased := update.New.GTE(update.Prev)

		for _, entry := range k.LimitersForScope(ctx, scope) {
			switch {
			case entry.Limiter.ChangeLimiter != nil:
				limiter := *entry.Limiter.ChangeLimiter
				if notDecreased {
					if err := limiter.EnsureUpperLimit(now, scope, update.New); err != nil {
						metrics.RecordLimiterRejection(scope.Key(), entry.Label)
						return err
					}
				} else {
					limiter.CleanUpOutdatedDivisions(now)
				}
				if err := limiter.Update(now, update.New); err != nil {
					return err
				}
				writes = append(writes, pendingWrite{scope, entry.Label, types.Limiter{ChangeLimiter: &limiter}})

			case entry.Limiter.StaticLimiter != nil:
				if notDecreased {
					if err := entry.Limiter.StaticLimiter.EnsureUpperLimit(scope, update.New); err != nil {
						metrics.RecordLimiterRejection(scope.Key(), entry.Label)
						return err
					}
				}
			}
		}
	}

	for _, w := range writes {
		k.setLimiter(ctx, w.scope, w.label, w.limiter)
	}
	return nil
}

// ResetChangeLimiterStates reseeds every change limiter with the current
// weight of its scope. Called after asset composition changes, when the old
// history no longer describes the same pool.
func (k *Keeper) ResetChangeLimiterStates(ctx sdk.Context, weights map[string]math.LegacyDec) error {
	now := ctx.BlockTime().UnixNano()
	for _, entry := range k.AllLimiters(ctx) {
		if entry.Limiter.ChangeLimiter == nil {
			continue
		}
		weight, ok := weights[entry.Scope.Key()]
		if !ok {
			weight = math.LegacyZeroDec()
		}
		limiter := *entry.Limiter.ChangeLimiter
		if err := limiter.Reset(now, weight); err != nil {
			return err
		}
		k.setLimiter(ctx, entry.Scope, entry.Label, types.Limiter{ChangeLimiter: &limiter})
	}
	return nil
}

// UpperLimits returns the effective bound per scope: the minimum across its
// limiters. Change limiters without history contribute 100%.
func (k *Keeper) UpperLimits(ctx sdk.Context) (map[string]math.LegacyDec, error) {
	now := ctx.BlockTime().UnixNano()
	limits := make(map[string]math.LegacyDec)

	for _, entry := range k.AllLimiters(ctx) {
		var bound math.LegacyDec
		switch {
		case entry.Limiter.ChangeLimiter != nil:
			limiter := *entry.Limiter.ChangeLimiter
			b, err := limiter.UpperLimit(now)
			if err != nil {
				return nil, err
			}
			bound = b
		case entry.Limiter.StaticLimiter != nil:
			bound = entry.Limiter.StaticLimiter.UpperLimit
		default:
			continue
		}

		key := entry.Scope.Key()
		if current, ok := limits[key]; !ok || bound.LT(current) {
			limits[key] = bound
		}
	}
	return limits, nil
}
