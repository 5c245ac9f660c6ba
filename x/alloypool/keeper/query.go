package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// QueryServer defines the alloypool QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns the pool state
func (q *QueryServer) Pool(ctx context.Context) (types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetPool(sdkCtx)
}

// ScopeWeights returns the current weight of every limitable scope. Empty when
// the pool holds no value.
func (q *QueryServer) ScopeWeights(ctx context.Context) (map[string]math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := q.keeper.GetPool(sdkCtx)
	if err != nil {
		return nil, err
	}
	return pool.ScopeWeights(), nil
}

// Limiters returns every registered limiter ordered by scope key then label.
func (q *QueryServer) Limiters(ctx context.Context) ([]LimiterEntry, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.AllLimiters(sdkCtx), nil
}

// LimitersForScope returns the limiters registered under a scope.
func (q *QueryServer) LimitersForScope(ctx context.Context, scopeKey string) ([]LimiterEntry, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	scope, err := types.ParseScope(scopeKey)
	if err != nil {
		return nil, err
	}
	return q.keeper.LimitersForScope(sdkCtx, scope), nil
}

// UpperLimits returns the effective bound per scope at the current block time.
func (q *QueryServer) UpperLimits(ctx context.Context) (map[string]math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.UpperLimits(sdkCtx)
}

// CorruptedScopes returns every scope currently marked corrupted.
func (q *QueryServer) CorruptedScopes(ctx context.Context) ([]string, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := q.keeper.GetPool(sdkCtx)
	if err != nil {
		return nil, err
	}
	scopes := pool.CorruptedScopes()
	keys := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		keys = append(keys, scope.Key())
	}
	return keys, nil
}

// SpotPrice returns the price of baseDenom quoted in quoteDenom. Both legs may
// be pool assets or the alloyed denom.
func (q *QueryServer) SpotPrice(ctx context.Context, baseDenom, quoteDenom string) (math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := q.keeper.GetPool(sdkCtx)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return pool.SpotPrice(baseDenom, quoteDenom)
}

// EstimateSwapExactAmountIn quotes a swap without executing it.
func (q *QueryServer) EstimateSwapExactAmountIn(ctx context.Context, tokenIn sdk.Coin, tokenOutDenom string) (sdk.Coin, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := q.keeper.GetPool(sdkCtx)
	if err != nil {
		return sdk.Coin{}, err
	}
	outAmount, err := pool.ConvertAmount(tokenIn.Amount, tokenIn.Denom, tokenOutDenom, false)
	if err != nil {
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(tokenOutDenom, outAmount), nil
}

// EstimateSwapExactAmountOut quotes the input needed for a desired output.
func (q *QueryServer) EstimateSwapExactAmountOut(ctx context.Context, tokenInDenom string, tokenOut sdk.Coin) (sdk.Coin, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := q.keeper.GetPool(sdkCtx)
	if err != nil {
		return sdk.Coin{}, err
	}
	inAmount, err := pool.ConvertAmount(tokenOut.Amount, tokenOut.Denom, tokenInDenom, true)
	if err != nil {
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(tokenInDenom, inAmount), nil
}
