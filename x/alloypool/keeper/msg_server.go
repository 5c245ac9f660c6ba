package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// MsgServer defines the alloypool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func (m *MsgServer) checkAuthority(authority string) error {
	if authority != m.keeper.GetAuthority() {
		return types.ErrUnauthorized
	}
	return nil
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	assets := make([]types.Asset, 0, len(msg.Assets))
	for _, def := range msg.Assets {
		asset, err := types.NewAsset(def.Denom, math.ZeroInt(), def.NormalizationFactorInt())
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	alloyedFactor, ok := math.NewIntFromString(msg.AlloyedNormalizationFactor)
	if !ok {
		return nil, types.ErrNonPositiveNormFactor
	}
	pool, err := types.NewPool(msg.AlloyedDenom, alloyedFactor, assets)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.CreatePool(sdkCtx, pool); err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{}, nil
}

// JoinPool handles MsgJoinPool
func (m *MsgServer) JoinPool(ctx context.Context, msg *types.MsgJoinPool) (*types.MsgJoinPoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}
	tokensIn, err := sdk.ParseCoinsNormalized(msg.TokensIn)
	if err != nil {
		return nil, err
	}

	shares, err := m.keeper.JoinPool(sdkCtx, sender, tokensIn)
	if err != nil {
		return nil, err
	}
	return &types.MsgJoinPoolResponse{SharesOut: shares.String()}, nil
}

// ExitPool handles MsgExitPool
func (m *MsgServer) ExitPool(ctx context.Context, msg *types.MsgExitPool) (*types.MsgExitPoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}
	tokensOut, err := sdk.ParseCoinsNormalized(msg.TokensOut)
	if err != nil {
		return nil, err
	}

	shares, err := m.keeper.ExitPool(sdkCtx, sender, tokensOut)
	if err != nil {
		return nil, err
	}
	return &types.MsgExitPoolResponse{SharesBurned: shares.String()}, nil
}

// SwapExactAmountIn handles MsgSwapExactAmountIn
func (m *MsgServer) SwapExactAmountIn(ctx context.Context, msg *types.MsgSwapExactAmountIn) (*types.MsgSwapExactAmountInResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}
	tokenIn, err := sdk.ParseCoinNormalized(msg.TokenIn)
	if err != nil {
		return nil, err
	}
	minOut := math.Int{}
	if msg.TokenOutMinAmount != "" {
		parsed, ok := math.NewIntFromString(msg.TokenOutMinAmount)
		if !ok {
			return nil, types.ErrZeroValueOperation
		}
		minOut = parsed
	}

	tokenOut, err := m.keeper.SwapExactAmountIn(sdkCtx, sender, tokenIn, msg.TokenOutDenom, minOut)
	if err != nil {
		return nil, err
	}
	return &types.MsgSwapExactAmountInResponse{TokenOut: tokenOut.String()}, nil
}

// SwapExactAmountOut handles MsgSwapExactAmountOut
func (m *MsgServer) SwapExactAmountOut(ctx context.Context, msg *types.MsgSwapExactAmountOut) (*types.MsgSwapExactAmountOutResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}
	tokenOut, err := sdk.ParseCoinNormalized(msg.TokenOut)
	if err != nil {
		return nil, err
	}
	maxIn := math.Int{}
	if msg.TokenInMaxAmount != "" {
		parsed, ok := math.NewIntFromString(msg.TokenInMaxAmount)
		if !ok {
			return nil, types.ErrZeroValueOperation
		}
		maxIn = parsed
	}

	tokenIn, err := m.keeper.SwapExactAmountOut(sdkCtx, sender, msg.TokenInDenom, maxIn, tokenOut)
	if err != nil {
		return nil, err
	}
	return &types.MsgSwapExactAmountOutResponse{TokenIn: tokenIn.String()}, nil
}

// RegisterLimiter handles MsgRegisterLimiter
func (m *MsgServer) RegisterLimiter(ctx context.Context, msg *types.MsgRegisterLimiter) (*types.MsgRegisterLimiterResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scope, err := types.ParseScope(msg.Scope)
	if err != nil {
		return nil, err
	}
	params, err := msg.LimiterParams()
	if err != nil {
		return nil, err
	}
	if err := m.keeper.RegisterLimiter(sdkCtx, scope, msg.Label, params); err != nil {
		return nil, err
	}
	return &types.MsgRegisterLimiterResponse{}, nil
}

// DeregisterLimiter handles MsgDeregisterLimiter
func (m *MsgServer) DeregisterLimiter(ctx context.Context, msg *types.MsgDeregisterLimiter) (*types.MsgDeregisterLimiterResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scope, err := types.ParseScope(msg.Scope)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.DeregisterLimiter(sdkCtx, scope, msg.Label); err != nil {
		return nil, err
	}
	return &types.MsgDeregisterLimiterResponse{}, nil
}

// SetChangeLimiterBoundaryOffset handles MsgSetChangeLimiterBoundaryOffset
func (m *MsgServer) SetChangeLimiterBoundaryOffset(ctx context.Context, msg *types.MsgSetChangeLimiterBoundaryOffset) (*types.MsgSetChangeLimiterBoundaryOffsetResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scope, err := types.ParseScope(msg.Scope)
	if err != nil {
		return nil, err
	}
	offset, err := math.LegacyNewDecFromStr(msg.BoundaryOffset)
	if err != nil {
		return nil, types.ErrZeroBoundaryOffset
	}
	if err := m.keeper.SetChangeLimiterBoundaryOffset(sdkCtx, scope, msg.Label, offset); err != nil {
		return nil, err
	}
	return &types.MsgSetChangeLimiterBoundaryOffsetResponse{}, nil
}

// SetStaticLimiterUpperLimit handles MsgSetStaticLimiterUpperLimit
func (m *MsgServer) SetStaticLimiterUpperLimit(ctx context.Context, msg *types.MsgSetStaticLimiterUpperLimit) (*types.MsgSetStaticLimiterUpperLimitResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scope, err := types.ParseScope(msg.Scope)
	if err != nil {
		return nil, err
	}
	limit, err := math.LegacyNewDecFromStr(msg.UpperLimit)
	if err != nil {
		return nil, types.ErrZeroUpperLimit
	}
	if err := m.keeper.SetStaticLimiterUpperLimit(sdkCtx, scope, msg.Label, limit); err != nil {
		return nil, err
	}
	return &types.MsgSetStaticLimiterUpperLimitResponse{}, nil
}

// MarkCorruptedScopes handles MsgMarkCorruptedScopes
func (m *MsgServer) MarkCorruptedScopes(ctx context.Context, msg *types.MsgMarkCorruptedScopes) (*types.MsgMarkCorruptedScopesResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scopes, err := parseScopes(msg.Scopes)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.MarkCorruptedScopes(sdkCtx, scopes); err != nil {
		return nil, err
	}
	return &types.MsgMarkCorruptedScopesResponse{}, nil
}

// UnmarkCorruptedScopes handles MsgUnmarkCorruptedScopes
func (m *MsgServer) UnmarkCorruptedScopes(ctx context.Context, msg *types.MsgUnmarkCorruptedScopes) (*types.MsgUnmarkCorruptedScopesResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	scopes, err := parseScopes(msg.Scopes)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.UnmarkCorruptedScopes(sdkCtx, scopes); err != nil {
		return nil, err
	}
	return &types.MsgUnmarkCorruptedScopesResponse{}, nil
}

// ForceExitCorruptedAssets handles MsgForceExitCorruptedAssets
func (m *MsgServer) ForceExitCorruptedAssets(ctx context.Context, msg *types.MsgForceExitCorruptedAssets) (*types.MsgForceExitCorruptedAssetsResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(msg.Address)
	if err != nil {
		return nil, err
	}
	tokensOut, err := sdk.ParseCoinsNormalized(msg.TokensOut)
	if err != nil {
		return nil, err
	}
	shares, err := m.keeper.ForceExitCorruptedAssets(sdkCtx, addr, tokensOut)
	if err != nil {
		return nil, err
	}
	return &types.MsgForceExitCorruptedAssetsResponse{SharesBurned: shares.String()}, nil
}

// CreateAssetGroup handles MsgCreateAssetGroup
func (m *MsgServer) CreateAssetGroup(ctx context.Context, msg *types.MsgCreateAssetGroup) (*types.MsgCreateAssetGroupResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.CreateAssetGroup(sdkCtx, msg.Label, msg.Denoms); err != nil {
		return nil, err
	}
	return &types.MsgCreateAssetGroupResponse{}, nil
}

// RemoveAssetGroup handles MsgRemoveAssetGroup
func (m *MsgServer) RemoveAssetGroup(ctx context.Context, msg *types.MsgRemoveAssetGroup) (*types.MsgRemoveAssetGroupResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.RemoveAssetGroup(sdkCtx, msg.Label); err != nil {
		return nil, err
	}
	return &types.MsgRemoveAssetGroupResponse{}, nil
}

// AddNewAssets handles MsgAddNewAssets
func (m *MsgServer) AddNewAssets(ctx context.Context, msg *types.MsgAddNewAssets) (*types.MsgAddNewAssetsResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	assets := make([]types.Asset, 0, len(msg.Assets))
	for _, def := range msg.Assets {
		asset, err := types.NewAsset(def.Denom, math.ZeroInt(), def.NormalizationFactorInt())
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := m.keeper.AddNewAssets(sdkCtx, assets); err != nil {
		return nil, err
	}
	return &types.MsgAddNewAssetsResponse{}, nil
}

// RescaleNormalizationFactor handles MsgRescaleNormalizationFactor
func (m *MsgServer) RescaleNormalizationFactor(ctx context.Context, msg *types.MsgRescaleNormalizationFactor) (*types.MsgRescaleNormalizationFactorResponse, error) {
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	numerator, ok := math.NewIntFromString(msg.Numerator)
	if !ok {
		return nil, types.ErrNonPositiveNormFactor
	}
	denominator, ok := math.NewIntFromString(msg.Denominator)
	if !ok {
		return nil, types.ErrNonPositiveNormFactor
	}
	if err := m.keeper.RescaleNormalizationFactor(sdkCtx, numerator, denominator); err != nil {
		return nil, err
	}
	return &types.MsgRescaleNormalizationFactorResponse{}, nil
}

func parseScopes(keys []string) ([]types.Scope, error) {
	scopes := make([]types.Scope, 0, len(keys))
	for _, key := range keys {
		scope, err := types.ParseScope(key)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}
