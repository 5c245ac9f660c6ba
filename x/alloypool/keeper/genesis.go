package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// InitGenesis restores module state from genesis.
func (k *Keeper) InitGenesis(ctx sdk.Context, state types.GenesisState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if state.Pool != nil {
		k.SetPool(ctx, *state.Pool)
	}
	for _, entry := range state.Limiters {
		scope, err := types.ParseScope(entry.Scope)
		if err != nil {
			return err
		}
		k.setLimiter(ctx, scope, entry.Label, entry.Limiter)
	}
	return nil
}

// ExportGenesis dumps module state for genesis export.
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	state := types.DefaultGenesisState()

	if pool, err := k.GetPool(ctx); err == nil {
		state.Pool = &pool
	}
	for _, entry := range k.AllLimiters(ctx) {
		state.Limiters = append(state.Limiters, types.GenesisLimiter{
			Scope:   entry.Scope.Key(),
			Label:   entry.Label,
			Limiter: entry.Limiter,
		})
	}
	return state
}
