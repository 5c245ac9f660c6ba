package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// MarkCorruptedScopes flags the scopes as corrupted. From then on their weight
// may not relatively increase and their assets are pruned once drained.
func (k *Keeper) MarkCorruptedScopes(ctx sdk.Context, scopes []types.Scope) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if err := pool.MarkCorrupted(scope); err != nil {
			return err
		}
	}
	k.SetPool(ctx, pool)

	for _, scope := range scopes {
		k.logger.Info("marked corrupted scope", "scope", scope.Key())
	}
	emitCorruptedEvent(ctx, scopes)
	return nil
}

// UnmarkCorruptedScopes clears the corrupted flag on the scopes.
func (k *Keeper) UnmarkCorruptedScopes(ctx sdk.Context, scopes []types.Scope) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if !pool.IsCorrupted(scope) {
			return errorsmod.Wrapf(types.ErrScopeNotCorrupted, "%s", scope.Key())
		}
		if err := pool.UnmarkCorrupted(scope); err != nil {
			return err
		}
	}
	k.SetPool(ctx, pool)

	for _, scope := range scopes {
		k.logger.Info("unmarked corrupted scope", "scope", scope.Key())
	}
	return nil
}

// ForceExitCorruptedAssets redeems alloyed shares held by addr for corrupted
// assets, bypassing the limiter batch so corrupted positions can always be
// unwound. The bypass is only valid for a full redemption: every redeemed
// denom must end at exactly zero and no other corrupted scope may relatively
// gain from the exit. Drained corrupted assets are pruned, their limiters
// removed, and every remaining change limiter reseeded with the post-exit
// weights.
func (k *Keeper) ForceExitCorruptedAssets(ctx sdk.Context, addr sdk.AccAddress, tokensOut sdk.Coins) (math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if tokensOut.IsZero() {
		return math.Int{}, errorsmod.Wrap(types.ErrZeroValueOperation, "force exit with no tokens")
	}

	for _, coin := range tokensOut {
		if !pool.IsCorrupted(types.DenomScope(coin.Denom)) {
			return math.Int{}, errorsmod.Wrapf(types.ErrScopeNotCorrupted, "denom::%s", coin.Denom)
		}
	}

	prevWeights := pool.ScopeWeights()

	shares, err := pool.SharesForWithdrawal(tokensOut)
	if err != nil {
		return math.Int{}, err
	}

	cacheCtx, write := ctx.CacheContext()

	if err := pool.ExitPool(tokensOut); err != nil {
		return math.Int{}, err
	}

	for _, coin := range tokensOut {
		asset, err := pool.GetAsset(coin.Denom)
		if err != nil {
			return math.Int{}, err
		}
		if !asset.Amount.IsZero() {
			return math.Int{}, errorsmod.Wrapf(types.ErrCorruptedNotFullyDrained, "denom: %s, remaining: %s", coin.Denom, asset.Amount)
		}
	}

	if err := ensureCorruptedScopesNotIncreased(pool, prevWeights, pool.ScopeWeights()); err != nil {
		return math.Int{}, err
	}

	sharesCoins := sdk.NewCoins(sdk.NewCoin(pool.AlloyedDenom, shares))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, addr, types.ModuleName, sharesCoins); err != nil {
		return math.Int{}, err
	}
	if err := k.bankKeeper.BurnCoins(cacheCtx, types.ModuleName, sharesCoins); err != nil {
		return math.Int{}, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, addr, tokensOut); err != nil {
		return math.Int{}, err
	}

	prunedDenoms, prunedGroups := pool.PruneDrainedCorruptedAssets()
	for _, denom := range prunedDenoms {
		k.DeregisterAllLimitersForScope(cacheCtx, types.DenomScope(denom))
	}
	for _, label := range prunedGroups {
		k.DeregisterAllLimitersForScope(cacheCtx, types.AssetGroupScope(label))
	}

	k.SetPool(cacheCtx, pool)

	if len(prunedDenoms) > 0 || len(prunedGroups) > 0 {
		weights := pool.ScopeWeights()
		if weights == nil {
			weights = map[string]math.LegacyDec{}
		}
		if err := k.ResetChangeLimiterStates(cacheCtx, weights); err != nil {
			return math.Int{}, err
		}
		k.logger.Info("pruned drained corrupted assets", "denoms", prunedDenoms, "groups", prunedGroups)
	}

	write()

	k.logger.Info("force exit corrupted assets", "address", addr.String(), "tokens_out", tokensOut.String(), "shares_burned", shares.String())
	return shares, nil
}

func emitCorruptedEvent(ctx sdk.Context, scopes []types.Scope) {
	attrs := make([]sdk.Attribute, 0, len(scopes))
	for _, scope := range scopes {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyScope, scope.Key()))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeCorruptedScopes, attrs...))
}
