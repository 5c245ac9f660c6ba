package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// CreateAssetGroup registers a named asset group. The new group scope starts
// with no limiters; registering them is a separate step.
func (k *Keeper) CreateAssetGroup(ctx sdk.Context, label string, denoms []string) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	if err := pool.CreateAssetGroup(label, denoms); err != nil {
		return err
	}
	k.SetPool(ctx, pool)
	k.logger.Info("created asset group", "label", label, "denoms", denoms)
	return nil
}

// RemoveAssetGroup deletes the group and every limiter registered under its
// scope.
func (k *Keeper) RemoveAssetGroup(ctx sdk.Context, label string) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	if err := pool.RemoveAssetGroup(label); err != nil {
		return err
	}
	k.DeregisterAllLimitersForScope(ctx, types.AssetGroupScope(label))
	k.SetPool(ctx, pool)
	k.logger.Info("removed asset group", "label", label)
	return nil
}

// AddNewAssets appends empty assets to the pool and reseeds change limiters,
// since weights shift against the new composition.
func (k *Keeper) AddNewAssets(ctx sdk.Context, assets []types.Asset) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	if err := pool.AddNewAssets(assets); err != nil {
		return err
	}
	k.SetPool(ctx, pool)

	weights := pool.ScopeWeights()
	if weights == nil {
		weights = map[string]math.LegacyDec{}
	}
	if err := k.ResetChangeLimiterStates(ctx, weights); err != nil {
		return err
	}

	denoms := make([]string, 0, len(assets))
	for _, asset := range assets {
		denoms = append(denoms, asset.Denom)
	}
	k.logger.Info("added new assets", "denoms", denoms)
	return nil
}

// RescaleNormalizationFactor rescales every normalization factor uniformly.
// Weights are unchanged, so limiter histories stay valid.
func (k *Keeper) RescaleNormalizationFactor(ctx sdk.Context, numerator, denominator math.Int) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	if err := pool.RescaleNormalizationFactor(numerator, denominator); err != nil {
		return err
	}
	k.SetPool(ctx, pool)
	k.logger.Info("rescaled normalization factors", "numerator", numerator.String(), "denominator", denominator.String())
	return nil
}
