package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/metrics"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// mutatePool runs a pool mutation inside a cache context, enforcing the
// corrupted-scope rule and the limiter batch before committing. Either every
// effect lands (pool record, bank transfers, limiter data points) or none do.
func (k *Keeper) mutatePool(ctx sdk.Context, fn func(cacheCtx sdk.Context, pool *types.Pool) error) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	prevWeights := pool.ScopeWeights()

	cacheCtx, write := ctx.CacheContext()

	if err := fn(cacheCtx, &pool); err != nil {
		return err
	}
	k.SetPool(cacheCtx, pool)

	newWeights := pool.ScopeWeights()

	if err := ensureCorruptedScopesNotIncreased(pool, prevWeights, newWeights); err != nil {
		return err
	}

	// weights are undefined on an empty pool, nothing to limit
	if newWeights != nil {
		updates := changedWeights(prevWeights, newWeights)
		if err := k.CheckLimitsAndUpdate(cacheCtx, updates); err != nil {
			return err
		}
	}

	write()
	return nil
}

// changedWeights pairs previous and new weight per scope, covering scopes
// present on either side. Missing entries count as zero.
func changedWeights(prev, next map[string]math.LegacyDec) map[string]WeightUpdate {
	updates := make(map[string]WeightUpdate, len(next))
	for key, newWeight := range next {
		prevWeight, ok := prev[key]
		if !ok {
			prevWeight = math.LegacyZeroDec()
		}
		updates[key] = WeightUpdate{Prev: prevWeight, New: newWeight}
	}
	for key, prevWeight := range prev {
		if _, ok := next[key]; !ok {
			updates[key] = WeightUpdate{Prev: prevWeight, New: math.LegacyZeroDec()}
		}
	}
	return updates
}

func ensureCorruptedScopesNotIncreased(pool types.Pool, prev, next map[string]math.LegacyDec) error {
	for _, scope := range pool.CorruptedScopes() {
		key := scope.Key()
		prevWeight, newWeight := math.LegacyZeroDec(), math.LegacyZeroDec()
		if prev != nil {
			if w, ok := prev[key]; ok {
				prevWeight = w
			}
		}
		if next != nil {
			if w, ok := next[key]; ok {
				newWeight = w
			}
		}
		if newWeight.GT(prevWeight) {
			return errorsmod.Wrapf(types.ErrCorruptedScopeIncreased, "scope: %s, prev: %s, new: %s", key, prevWeight, newWeight)
		}
	}
	return nil
}

// JoinPool deposits tokensIn and mints alloyed shares of equal normalized
// value to the sender.
func (k *Keeper) JoinPool(ctx sdk.Context, sender sdk.AccAddress, tokensIn sdk.Coins) (math.Int, error) {
	var sharesOut math.Int

	err := k.mutatePool(ctx, func(cacheCtx sdk.Context, pool *types.Pool) error {
		shares, err := pool.SharesForDeposit(tokensIn)
		if err != nil {
			return err
		}
		if err := pool.JoinPool(tokensIn); err != nil {
			return err
		}

		if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, tokensIn); err != nil {
			return err
		}
		sharesCoins := sdk.NewCoins(sdk.NewCoin(pool.AlloyedDenom, shares))
		if err := k.bankKeeper.MintCoins(cacheCtx, types.ModuleName, sharesCoins); err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, sender, sharesCoins); err != nil {
			return err
		}

		sharesOut = shares
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}

	k.logger.Info("join pool", "sender", sender.String(), "tokens_in", tokensIn.String(), "shares_out", sharesOut.String())
	metrics.RecordJoin()
	emitPoolEvent(ctx, types.EventTypeJoinPool, sender, tokensIn.String(), sharesOut.String())
	return sharesOut, nil
}

// ExitPool burns the sender's alloyed shares covering tokensOut and releases
// the tokens. Share cost rounds up.
func (k *Keeper) ExitPool(ctx sdk.Context, sender sdk.AccAddress, tokensOut sdk.Coins) (math.Int, error) {
	var sharesBurned math.Int

	err := k.mutatePool(ctx, func(cacheCtx sdk.Context, pool *types.Pool) error {
		shares, err := pool.SharesForWithdrawal(tokensOut)
		if err != nil {
			return err
		}
		if err := pool.ExitPool(tokensOut); err != nil {
			return err
		}

		sharesCoins := sdk.NewCoins(sdk.NewCoin(pool.AlloyedDenom, shares))
		if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, sharesCoins); err != nil {
			return err
		}
		if err := k.bankKeeper.BurnCoins(cacheCtx, types.ModuleName, sharesCoins); err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, sender, tokensOut); err != nil {
			return err
		}

		sharesBurned = shares
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}

	k.logger.Info("exit pool", "sender", sender.String(), "tokens_out", tokensOut.String(), "shares_burned", sharesBurned.String())
	metrics.RecordExit()
	emitPoolEvent(ctx, types.EventTypeExitPool, sender, sharesBurned.String(), tokensOut.String())
	return sharesBurned, nil
}

// SwapExactAmountIn converts tokenIn into tokenOutDenom. Either leg may be the
// alloyed denom, routing through share mint or burn; otherwise it is a direct
// transmute. Output rounds down.
func (k *Keeper) SwapExactAmountIn(ctx sdk.Context, sender sdk.AccAddress, tokenIn sdk.Coin, tokenOutDenom string, tokenOutMinAmount math.Int) (sdk.Coin, error) {
	if tokenIn.Denom == tokenOutDenom {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidPoolAssetDenom, "cannot swap %s for itself", tokenIn.Denom)
	}

	var tokenOut sdk.Coin

	err := k.mutatePool(ctx, func(cacheCtx sdk.Context, pool *types.Pool) error {
		var err error
		switch {
		case tokenOutDenom == pool.AlloyedDenom:
			tokenOut, err = k.swapAssetForShares(cacheCtx, pool, sender, tokenIn)
		case tokenIn.Denom == pool.AlloyedDenom:
			tokenOut, err = k.swapSharesForAsset(cacheCtx, pool, sender, tokenIn, tokenOutDenom)
		default:
			tokenOut, err = pool.TransmuteExactIn(tokenIn, tokenOutDenom)
			if err != nil {
				return err
			}
			err = k.settleTransmute(cacheCtx, sender, tokenIn, tokenOut)
		}
		return err
	})
	if err != nil {
		return sdk.Coin{}, err
	}

	if !tokenOutMinAmount.IsNil() && tokenOut.Amount.LT(tokenOutMinAmount) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInsufficientPoolAsset, "token out %s below min amount %s", tokenOut, tokenOutMinAmount)
	}

	k.logger.Info("swap exact in", "sender", sender.String(), "token_in", tokenIn.String(), "token_out", tokenOut.String())
	metrics.RecordSwap()
	emitPoolEvent(ctx, types.EventTypeSwap, sender, tokenIn.String(), tokenOut.String())
	return tokenOut, nil
}

// SwapExactAmountOut converts just enough tokenInDenom to produce tokenOut.
// Input rounds up.
func (k *Keeper) SwapExactAmountOut(ctx sdk.Context, sender sdk.AccAddress, tokenInDenom string, tokenInMaxAmount math.Int, tokenOut sdk.Coin) (sdk.Coin, error) {
	if tokenInDenom == tokenOut.Denom {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidPoolAssetDenom, "cannot swap %s for itself", tokenInDenom)
	}

	var tokenIn sdk.Coin

	err := k.mutatePool(ctx, func(cacheCtx sdk.Context, pool *types.Pool) error {
		var err error
		switch {
		case tokenOut.Denom == pool.AlloyedDenom:
			inAmount, convErr := pool.ConvertAmount(tokenOut.Amount, pool.AlloyedDenom, tokenInDenom, true)
			if convErr != nil {
				return convErr
			}
			tokenIn = sdk.NewCoin(tokenInDenom, inAmount)
			_, err = k.swapAssetForShares(cacheCtx, pool, sender, tokenIn)
		case tokenInDenom == pool.AlloyedDenom:
			inAmount, convErr := pool.ConvertAmount(tokenOut.Amount, tokenOut.Denom, pool.AlloyedDenom, true)
			if convErr != nil {
				return convErr
			}
			tokenIn = sdk.NewCoin(pool.AlloyedDenom, inAmount)
			_, err = k.swapSharesForAsset(cacheCtx, pool, sender, tokenIn, tokenOut.Denom)
		default:
			tokenIn, err = pool.TransmuteExactOut(tokenInDenom, tokenOut)
			if err != nil {
				return err
			}
			err = k.settleTransmute(cacheCtx, sender, tokenIn, tokenOut)
		}
		return err
	})
	if err != nil {
		return sdk.Coin{}, err
	}

	if !tokenInMaxAmount.IsNil() && tokenIn.Amount.GT(tokenInMaxAmount) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInsufficientPoolAsset, "token in %s above max amount %s", tokenIn, tokenInMaxAmount)
	}

	k.logger.Info("swap exact out", "sender", sender.String(), "token_in", tokenIn.String(), "token_out", tokenOut.String())
	metrics.RecordSwap()
	emitPoolEvent(ctx, types.EventTypeSwap, sender, tokenIn.String(), tokenOut.String())
	return tokenIn, nil
}

// swapAssetForShares takes a pool asset in and mints alloyed shares of equal
// normalized value to the sender.
func (k *Keeper) swapAssetForShares(ctx sdk.Context, pool *types.Pool, sender sdk.AccAddress, tokenIn sdk.Coin) (sdk.Coin, error) {
	tokensIn := sdk.NewCoins(tokenIn)
	shares, err := pool.SharesForDeposit(tokensIn)
	if err != nil {
		return sdk.Coin{}, err
	}
	if err := pool.JoinPool(tokensIn); err != nil {
		return sdk.Coin{}, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, tokensIn); err != nil {
		return sdk.Coin{}, err
	}
	sharesCoins := sdk.NewCoins(sdk.NewCoin(pool.AlloyedDenom, shares))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, sharesCoins); err != nil {
		return sdk.Coin{}, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sharesCoins); err != nil {
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(pool.AlloyedDenom, shares), nil
}

// swapSharesForAsset burns alloyed shares and releases the equivalent amount
// of tokenOutDenom, rounded down.
func (k *Keeper) swapSharesForAsset(ctx sdk.Context, pool *types.Pool, sender sdk.AccAddress, sharesIn sdk.Coin, tokenOutDenom string) (sdk.Coin, error) {
	outAmount, err := pool.ConvertAmount(sharesIn.Amount, pool.AlloyedDenom, tokenOutDenom, false)
	if err != nil {
		return sdk.Coin{}, err
	}
	if outAmount.IsZero() {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrZeroValueOperation, "%s converts to zero %s", sharesIn, tokenOutDenom)
	}
	tokenOut := sdk.NewCoin(tokenOutDenom, outAmount)

	if err := pool.ExitPool(sdk.NewCoins(tokenOut)); err != nil {
		return sdk.Coin{}, err
	}

	sharesCoins := sdk.NewCoins(sharesIn)
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sharesCoins); err != nil {
		return sdk.Coin{}, err
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, sharesCoins); err != nil {
		return sdk.Coin{}, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(tokenOut)); err != nil {
		return sdk.Coin{}, err
	}
	return tokenOut, nil
}

// settleTransmute moves the swap legs between sender and module account.
func (k *Keeper) settleTransmute(ctx sdk.Context, sender sdk.AccAddress, tokenIn, tokenOut sdk.Coin) error {
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sdk.NewCoins(tokenIn)); err != nil {
		return err
	}
	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(tokenOut))
}

func emitPoolEvent(ctx sdk.Context, eventType string, sender sdk.AccAddress, in, out string) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute(types.AttributeKeySender, sender.String()),
		sdk.NewAttribute(types.AttributeKeyTokensIn, in),
		sdk.NewAttribute(types.AttributeKeyTokensOut, out),
	))
}
