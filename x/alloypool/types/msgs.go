package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool                     = "create_pool"
	TypeMsgJoinPool                       = "join_pool"
	TypeMsgExitPool                       = "exit_pool"
	TypeMsgSwapExactAmountIn              = "swap_exact_amount_in"
	TypeMsgSwapExactAmountOut             = "swap_exact_amount_out"
	TypeMsgRegisterLimiter                = "register_limiter"
	TypeMsgDeregisterLimiter              = "deregister_limiter"
	TypeMsgSetChangeLimiterBoundaryOffset = "set_change_limiter_boundary_offset"
	TypeMsgSetStaticLimiterUpperLimit     = "set_static_limiter_upper_limit"
	TypeMsgMarkCorruptedScopes            = "mark_corrupted_scopes"
	TypeMsgUnmarkCorruptedScopes          = "unmark_corrupted_scopes"
	TypeMsgForceExitCorruptedAssets       = "force_exit_corrupted_assets"
	TypeMsgCreateAssetGroup               = "create_asset_group"
	TypeMsgRemoveAssetGroup               = "remove_asset_group"
	TypeMsgAddNewAssets                   = "add_new_assets"
	TypeMsgRescaleNormalizationFactor     = "rescale_normalization_factor"
)

// AssetDefinition declares a pool asset in pool-creation and asset-addition
// messages.
type AssetDefinition struct {
	Denom               string `json:"denom"`
	NormalizationFactor string `json:"normalization_factor"`
}

func (d AssetDefinition) validate() error {
	if err := sdk.ValidateDenom(d.Denom); err != nil {
		return ErrInvalidPoolAssetDenom
	}
	factor, ok := math.NewIntFromString(d.NormalizationFactor)
	if !ok || !factor.IsPositive() {
		return ErrNonPositiveNormFactor
	}
	return nil
}

// NormalizationFactorInt parses the declared factor. Call after validate.
func (d AssetDefinition) NormalizationFactorInt() math.Int {
	factor, _ := math.NewIntFromString(d.NormalizationFactor)
	return factor
}

// MsgCreatePool defines the CreatePool message
type MsgCreatePool struct {
	Authority                  string            `json:"authority"`
	AlloyedDenom               string            `json:"alloyed_denom"`
	AlloyedNormalizationFactor string            `json:"alloyed_normalization_factor"`
	Assets                     []AssetDefinition `json:"assets"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.AlloyedDenom); err != nil {
		return ErrInvalidPoolAssetDenom
	}
	factor, ok := math.NewIntFromString(msg.AlloyedNormalizationFactor)
	if !ok || !factor.IsPositive() {
		return ErrNonPositiveNormFactor
	}
	if len(msg.Assets) < MinPoolAssets || len(msg.Assets) > MaxPoolAssets {
		return ErrPoolAssetCountOutOfRange
	}
	for _, asset := range msg.Assets {
		if err := asset.validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, AlloyedDenom: %s, Assets: %d}", msg.Authority, msg.AlloyedDenom, len(msg.Assets))
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct{}

// MsgJoinPool defines the JoinPool message
type MsgJoinPool struct {
	Sender   string `json:"sender"`
	TokensIn string `json:"tokens_in"` // coins, e.g. "100ibc/AAA,50ibc/BBB"
}

// Route implements sdk.Msg
func (msg MsgJoinPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgJoinPool) Type() string { return TypeMsgJoinPool }

// ValidateBasic implements sdk.Msg
func (msg MsgJoinPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return err
	}
	coins, err := sdk.ParseCoinsNormalized(msg.TokensIn)
	if err != nil {
		return err
	}
	if coins.IsZero() {
		return ErrZeroValueOperation
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgJoinPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgJoinPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgJoinPool) Reset() { *msg = MsgJoinPool{} }

// String implements proto.Message
func (msg MsgJoinPool) String() string {
	return fmt.Sprintf("MsgJoinPool{Sender: %s, TokensIn: %s}", msg.Sender, msg.TokensIn)
}

// MsgJoinPoolResponse defines the JoinPool response
type MsgJoinPoolResponse struct {
	SharesOut string `json:"shares_out"`
}

// MsgExitPool defines the ExitPool message
type MsgExitPool struct {
	Sender    string `json:"sender"`
	TokensOut string `json:"tokens_out"`
}

// Route implements sdk.Msg
func (msg MsgExitPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgExitPool) Type() string { return TypeMsgExitPool }

// ValidateBasic implements sdk.Msg
func (msg MsgExitPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return err
	}
	coins, err := sdk.ParseCoinsNormalized(msg.TokensOut)
	if err != nil {
		return err
	}
	if coins.IsZero() {
		return ErrZeroValueOperation
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgExitPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgExitPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgExitPool) Reset() { *msg = MsgExitPool{} }

// String implements proto.Message
func (msg MsgExitPool) String() string {
	return fmt.Sprintf("MsgExitPool{Sender: %s, TokensOut: %s}", msg.Sender, msg.TokensOut)
}

// MsgExitPoolResponse defines the ExitPool response
type MsgExitPoolResponse struct {
	SharesBurned string `json:"shares_burned"`
}

// MsgSwapExactAmountIn defines the SwapExactAmountIn message
type MsgSwapExactAmountIn struct {
	Sender            string `json:"sender"`
	TokenIn           string `json:"token_in"` // single coin, e.g. "100ibc/AAA"
	TokenOutDenom     string `json:"token_out_denom"`
	TokenOutMinAmount string `json:"token_out_min_amount"`
}

// Route implements sdk.Msg
func (msg MsgSwapExactAmountIn) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapExactAmountIn) Type() string { return TypeMsgSwapExactAmountIn }

// ValidateBasic implements sdk.Msg
func (msg MsgSwapExactAmountIn) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return err
	}
	tokenIn, err := sdk.ParseCoinNormalized(msg.TokenIn)
	if err != nil {
		return err
	}
	if tokenIn.IsZero() {
		return ErrZeroValueOperation
	}
	if err := sdk.ValidateDenom(msg.TokenOutDenom); err != nil {
		return ErrInvalidPoolAssetDenom
	}
	if msg.TokenOutMinAmount != "" {
		if _, ok := math.NewIntFromString(msg.TokenOutMinAmount); !ok {
			return ErrZeroValueOperation
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSwapExactAmountIn) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSwapExactAmountIn) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapExactAmountIn) Reset() { *msg = MsgSwapExactAmountIn{} }

// String implements proto.Message
func (msg MsgSwapExactAmountIn) String() string {
	return fmt.Sprintf("MsgSwapExactAmountIn{Sender: %s, TokenIn: %s, TokenOutDenom: %s}", msg.Sender, msg.TokenIn, msg.TokenOutDenom)
}

// MsgSwapExactAmountInResponse defines the SwapExactAmountIn response
type MsgSwapExactAmountInResponse struct {
	TokenOut string `json:"token_out"`
}

// MsgSwapExactAmountOut defines the SwapExactAmountOut message
type MsgSwapExactAmountOut struct {
	Sender           string `json:"sender"`
	TokenInDenom     string `json:"token_in_denom"`
	TokenInMaxAmount string `json:"token_in_max_amount"`
	TokenOut         string `json:"token_out"`
}

// Route implements sdk.Msg
func (msg MsgSwapExactAmountOut) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwapExactAmountOut) Type() string { return TypeMsgSwapExactAmountOut }

// ValidateBasic implements sdk.Msg
func (msg MsgSwapExactAmountOut) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return err
	}
	tokenOut, err := sdk.ParseCoinNormalized(msg.TokenOut)
	if err != nil {
		return err
	}
	if tokenOut.IsZero() {
		return ErrZeroValueOperation
	}
	if err := sdk.ValidateDenom(msg.TokenInDenom); err != nil {
		return ErrInvalidPoolAssetDenom
	}
	if msg.TokenInMaxAmount != "" {
		if _, ok := math.NewIntFromString(msg.TokenInMaxAmount); !ok {
			return ErrZeroValueOperation
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSwapExactAmountOut) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSwapExactAmountOut) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSwapExactAmountOut) Reset() { *msg = MsgSwapExactAmountOut{} }

// String implements proto.Message
func (msg MsgSwapExactAmountOut) String() string {
	return fmt.Sprintf("MsgSwapExactAmountOut{Sender: %s, TokenInDenom: %s, TokenOut: %s}", msg.Sender, msg.TokenInDenom, msg.TokenOut)
}

// MsgSwapExactAmountOutResponse defines the SwapExactAmountOut response
type MsgSwapExactAmountOutResponse struct {
	TokenIn string `json:"token_in"`
}

// MsgRegisterLimiter defines the RegisterLimiter message
type MsgRegisterLimiter struct {
	Authority string `json:"authority"`
	Scope     string `json:"scope"` // canonical scope key
	Label     string `json:"label"`

	// Exactly one of the two limiter configs must be set.
	WindowSize     int64  `json:"window_size,omitempty"`
	DivisionCount  int64  `json:"division_count,omitempty"`
	BoundaryOffset string `json:"boundary_offset,omitempty"`
	UpperLimit     string `json:"upper_limit,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgRegisterLimiter) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRegisterLimiter) Type() string { return TypeMsgRegisterLimiter }

// ValidateBasic implements sdk.Msg
func (msg MsgRegisterLimiter) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := ParseScope(msg.Scope); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrEmptyLimiterLabel
	}
	if _, err := msg.LimiterParams(); err != nil {
		return err
	}
	return nil
}

// LimiterParams parses the message's limiter config into registration params.
func (msg MsgRegisterLimiter) LimiterParams() (LimiterParams, error) {
	if msg.WindowSize != 0 || msg.DivisionCount != 0 || msg.BoundaryOffset != "" {
		offset, err := math.LegacyNewDecFromStr(msg.BoundaryOffset)
		if err != nil {
			return LimiterParams{}, ErrZeroBoundaryOffset
		}
		return ChangeLimiterParams(WindowConfig{WindowSize: msg.WindowSize, DivisionCount: msg.DivisionCount}, offset), nil
	}
	limit, err := math.LegacyNewDecFromStr(msg.UpperLimit)
	if err != nil {
		return LimiterParams{}, ErrZeroUpperLimit
	}
	return StaticLimiterParams(limit), nil
}

// GetSigners implements sdk.Msg
func (msg MsgRegisterLimiter) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRegisterLimiter) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRegisterLimiter) Reset() { *msg = MsgRegisterLimiter{} }

// String implements proto.Message
func (msg MsgRegisterLimiter) String() string {
	return fmt.Sprintf("MsgRegisterLimiter{Authority: %s, Scope: %s, Label: %s}", msg.Authority, msg.Scope, msg.Label)
}

// MsgRegisterLimiterResponse defines the RegisterLimiter response
type MsgRegisterLimiterResponse struct{}

// MsgDeregisterLimiter defines the DeregisterLimiter message
type MsgDeregisterLimiter struct {
	Authority string `json:"authority"`
	Scope     string `json:"scope"`
	Label     string `json:"label"`
}

// Route implements sdk.Msg
func (msg MsgDeregisterLimiter) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeregisterLimiter) Type() string { return TypeMsgDeregisterLimiter }

// ValidateBasic implements sdk.Msg
func (msg MsgDeregisterLimiter) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := ParseScope(msg.Scope); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrEmptyLimiterLabel
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeregisterLimiter) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeregisterLimiter) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeregisterLimiter) Reset() { *msg = MsgDeregisterLimiter{} }

// String implements proto.Message
func (msg MsgDeregisterLimiter) String() string {
	return fmt.Sprintf("MsgDeregisterLimiter{Authority: %s, Scope: %s, Label: %s}", msg.Authority, msg.Scope, msg.Label)
}

// MsgDeregisterLimiterResponse defines the DeregisterLimiter response
type MsgDeregisterLimiterResponse struct{}

// MsgSetChangeLimiterBoundaryOffset defines the SetChangeLimiterBoundaryOffset message
type MsgSetChangeLimiterBoundaryOffset struct {
	Authority      string `json:"authority"`
	Scope          string `json:"scope"`
	Label          string `json:"label"`
	BoundaryOffset string `json:"boundary_offset"`
}

// Route implements sdk.Msg
func (msg MsgSetChangeLimiterBoundaryOffset) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetChangeLimiterBoundaryOffset) Type() string {
	return TypeMsgSetChangeLimiterBoundaryOffset
}

// ValidateBasic implements sdk.Msg
func (msg MsgSetChangeLimiterBoundaryOffset) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := ParseScope(msg.Scope); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrEmptyLimiterLabel
	}
	offset, err := math.LegacyNewDecFromStr(msg.BoundaryOffset)
	if err != nil || !offset.IsPositive() {
		return ErrZeroBoundaryOffset
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetChangeLimiterBoundaryOffset) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetChangeLimiterBoundaryOffset) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetChangeLimiterBoundaryOffset) Reset() { *msg = MsgSetChangeLimiterBoundaryOffset{} }

// String implements proto.Message
func (msg MsgSetChangeLimiterBoundaryOffset) String() string {
	return fmt.Sprintf("MsgSetChangeLimiterBoundaryOffset{Scope: %s, Label: %s, BoundaryOffset: %s}", msg.Scope, msg.Label, msg.BoundaryOffset)
}

// MsgSetChangeLimiterBoundaryOffsetResponse defines the SetChangeLimiterBoundaryOffset response
type MsgSetChangeLimiterBoundaryOffsetResponse struct{}

// MsgSetStaticLimiterUpperLimit defines the SetStaticLimiterUpperLimit message
type MsgSetStaticLimiterUpperLimit struct {
	Authority  string `json:"authority"`
	Scope      string `json:"scope"`
	Label      string `json:"label"`
	UpperLimit string `json:"upper_limit"`
}

// Route implements sdk.Msg
func (msg MsgSetStaticLimiterUpperLimit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetStaticLimiterUpperLimit) Type() string { return TypeMsgSetStaticLimiterUpperLimit }

// ValidateBasic implements sdk.Msg
func (msg MsgSetStaticLimiterUpperLimit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := ParseScope(msg.Scope); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrEmptyLimiterLabel
	}
	limit, err := math.LegacyNewDecFromStr(msg.UpperLimit)
	if err != nil {
		return ErrZeroUpperLimit
	}
	if _, err := NewStaticLimiter(limit); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetStaticLimiterUpperLimit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetStaticLimiterUpperLimit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetStaticLimiterUpperLimit) Reset() { *msg = MsgSetStaticLimiterUpperLimit{} }

// String implements proto.Message
func (msg MsgSetStaticLimiterUpperLimit) String() string {
	return fmt.Sprintf("MsgSetStaticLimiterUpperLimit{Scope: %s, Label: %s, UpperLimit: %s}", msg.Scope, msg.Label, msg.UpperLimit)
}

// MsgSetStaticLimiterUpperLimitResponse defines the SetStaticLimiterUpperLimit response
type MsgSetStaticLimiterUpperLimitResponse struct{}

// MsgMarkCorruptedScopes defines the MarkCorruptedScopes message
type MsgMarkCorruptedScopes struct {
	Authority string   `json:"authority"`
	Scopes    []string `json:"scopes"`
}

// Route implements sdk.Msg
func (msg MsgMarkCorruptedScopes) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgMarkCorruptedScopes) Type() string { return TypeMsgMarkCorruptedScopes }

// ValidateBasic implements sdk.Msg
func (msg MsgMarkCorruptedScopes) ValidateBasic() error {
	return validateScopeList(msg.Authority, msg.Scopes)
}

// GetSigners implements sdk.Msg
func (msg MsgMarkCorruptedScopes) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgMarkCorruptedScopes) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgMarkCorruptedScopes) Reset() { *msg = MsgMarkCorruptedScopes{} }

// String implements proto.Message
func (msg MsgMarkCorruptedScopes) String() string {
	return fmt.Sprintf("MsgMarkCorruptedScopes{Authority: %s, Scopes: %v}", msg.Authority, msg.Scopes)
}

// MsgMarkCorruptedScopesResponse defines the MarkCorruptedScopes response
type MsgMarkCorruptedScopesResponse struct{}

// MsgUnmarkCorruptedScopes defines the UnmarkCorruptedScopes message
type MsgUnmarkCorruptedScopes struct {
	Authority string   `json:"authority"`
	Scopes    []string `json:"scopes"`
}

// Route implements sdk.Msg
func (msg MsgUnmarkCorruptedScopes) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUnmarkCorruptedScopes) Type() string { return TypeMsgUnmarkCorruptedScopes }

// ValidateBasic implements sdk.Msg
func (msg MsgUnmarkCorruptedScopes) ValidateBasic() error {
	return validateScopeList(msg.Authority, msg.Scopes)
}

// GetSigners implements sdk.Msg
func (msg MsgUnmarkCorruptedScopes) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUnmarkCorruptedScopes) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUnmarkCorruptedScopes) Reset() { *msg = MsgUnmarkCorruptedScopes{} }

// String implements proto.Message
func (msg MsgUnmarkCorruptedScopes) String() string {
	return fmt.Sprintf("MsgUnmarkCorruptedScopes{Authority: %s, Scopes: %v}", msg.Authority, msg.Scopes)
}

// MsgUnmarkCorruptedScopesResponse defines the UnmarkCorruptedScopes response
type MsgUnmarkCorruptedScopesResponse struct{}

// MsgForceExitCorruptedAssets defines the ForceExitCorruptedAssets message.
// The authority redeems alloyed shares held by Address for corrupted assets,
// bypassing limiters so corrupted positions can always be wound down.
type MsgForceExitCorruptedAssets struct {
	Authority string `json:"authority"`
	Address   string `json:"address"`
	TokensOut string `json:"tokens_out"`
}

// Route implements sdk.Msg
func (msg MsgForceExitCorruptedAssets) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgForceExitCorruptedAssets) Type() string { return TypeMsgForceExitCorruptedAssets }

// ValidateBasic implements sdk.Msg
func (msg MsgForceExitCorruptedAssets) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Address); err != nil {
		return err
	}
	coins, err := sdk.ParseCoinsNormalized(msg.TokensOut)
	if err != nil {
		return err
	}
	if coins.IsZero() {
		return ErrZeroValueOperation
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgForceExitCorruptedAssets) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgForceExitCorruptedAssets) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgForceExitCorruptedAssets) Reset() { *msg = MsgForceExitCorruptedAssets{} }

// String implements proto.Message
func (msg MsgForceExitCorruptedAssets) String() string {
	return fmt.Sprintf("MsgForceExitCorruptedAssets{Authority: %s, Address: %s, TokensOut: %s}", msg.Authority, msg.Address, msg.TokensOut)
}

// MsgForceExitCorruptedAssetsResponse defines the ForceExitCorruptedAssets response
type MsgForceExitCorruptedAssetsResponse struct {
	SharesBurned string `json:"shares_burned"`
}

// MsgCreateAssetGroup defines the CreateAssetGroup message
type MsgCreateAssetGroup struct {
	Authority string   `json:"authority"`
	Label     string   `json:"label"`
	Denoms    []string `json:"denoms"`
}

// Route implements sdk.Msg
func (msg MsgCreateAssetGroup) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateAssetGroup) Type() string { return TypeMsgCreateAssetGroup }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateAssetGroup) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrAssetGroupNotFound
	}
	if len(msg.Denoms) == 0 {
		return ErrEmptyAssetGroup
	}
	for _, denom := range msg.Denoms {
		if err := sdk.ValidateDenom(denom); err != nil {
			return ErrInvalidPoolAssetDenom
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreateAssetGroup) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreateAssetGroup) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateAssetGroup) Reset() { *msg = MsgCreateAssetGroup{} }

// String implements proto.Message
func (msg MsgCreateAssetGroup) String() string {
	return fmt.Sprintf("MsgCreateAssetGroup{Authority: %s, Label: %s, Denoms: %v}", msg.Authority, msg.Label, msg.Denoms)
}

// MsgCreateAssetGroupResponse defines the CreateAssetGroup response
type MsgCreateAssetGroupResponse struct{}

// MsgRemoveAssetGroup defines the RemoveAssetGroup message
type MsgRemoveAssetGroup struct {
	Authority string `json:"authority"`
	Label     string `json:"label"`
}

// Route implements sdk.Msg
func (msg MsgRemoveAssetGroup) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRemoveAssetGroup) Type() string { return TypeMsgRemoveAssetGroup }

// ValidateBasic implements sdk.Msg
func (msg MsgRemoveAssetGroup) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Label == "" {
		return ErrAssetGroupNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRemoveAssetGroup) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRemoveAssetGroup) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRemoveAssetGroup) Reset() { *msg = MsgRemoveAssetGroup{} }

// String implements proto.Message
func (msg MsgRemoveAssetGroup) String() string {
	return fmt.Sprintf("MsgRemoveAssetGroup{Authority: %s, Label: %s}", msg.Authority, msg.Label)
}

// MsgRemoveAssetGroupResponse defines the RemoveAssetGroup response
type MsgRemoveAssetGroupResponse struct{}

// MsgAddNewAssets defines the AddNewAssets message
type MsgAddNewAssets struct {
	Authority string            `json:"authority"`
	Assets    []AssetDefinition `json:"assets"`
}

// Route implements sdk.Msg
func (msg MsgAddNewAssets) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddNewAssets) Type() string { return TypeMsgAddNewAssets }

// ValidateBasic implements sdk.Msg
func (msg MsgAddNewAssets) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if len(msg.Assets) == 0 {
		return ErrZeroValueOperation
	}
	for _, asset := range msg.Assets {
		if err := asset.validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAddNewAssets) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddNewAssets) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAddNewAssets) Reset() { *msg = MsgAddNewAssets{} }

// String implements proto.Message
func (msg MsgAddNewAssets) String() string {
	return fmt.Sprintf("MsgAddNewAssets{Authority: %s, Assets: %d}", msg.Authority, len(msg.Assets))
}

// MsgAddNewAssetsResponse defines the AddNewAssets response
type MsgAddNewAssetsResponse struct{}

// MsgRescaleNormalizationFactor defines the RescaleNormalizationFactor message
type MsgRescaleNormalizationFactor struct {
	Authority   string `json:"authority"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// Route implements sdk.Msg
func (msg MsgRescaleNormalizationFactor) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRescaleNormalizationFactor) Type() string { return TypeMsgRescaleNormalizationFactor }

// ValidateBasic implements sdk.Msg
func (msg MsgRescaleNormalizationFactor) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	numerator, ok := math.NewIntFromString(msg.Numerator)
	if !ok || !numerator.IsPositive() {
		return ErrNonPositiveNormFactor
	}
	denominator, ok := math.NewIntFromString(msg.Denominator)
	if !ok || !denominator.IsPositive() {
		return ErrNonPositiveNormFactor
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRescaleNormalizationFactor) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRescaleNormalizationFactor) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRescaleNormalizationFactor) Reset() { *msg = MsgRescaleNormalizationFactor{} }

// String implements proto.Message
func (msg MsgRescaleNormalizationFactor) String() string {
	return fmt.Sprintf("MsgRescaleNormalizationFactor{Authority: %s, Numerator: %s, Denominator: %s}", msg.Authority, msg.Numerator, msg.Denominator)
}

// MsgRescaleNormalizationFactorResponse defines the RescaleNormalizationFactor response
type MsgRescaleNormalizationFactorResponse struct{}

func validateScopeList(authority string, scopes []string) error {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		return err
	}
	if len(scopes) == 0 {
		return ErrInvalidScope
	}
	for _, scope := range scopes {
		if _, err := ParseScope(scope); err != nil {
			return err
		}
	}
	return nil
}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgCreatePool{}
	_ sdk.Msg = &MsgJoinPool{}
	_ sdk.Msg = &MsgExitPool{}
	_ sdk.Msg = &MsgSwapExactAmountIn{}
	_ sdk.Msg = &MsgSwapExactAmountOut{}
	_ sdk.Msg = &MsgRegisterLimiter{}
	_ sdk.Msg = &MsgDeregisterLimiter{}
	_ sdk.Msg = &MsgSetChangeLimiterBoundaryOffset{}
	_ sdk.Msg = &MsgSetStaticLimiterUpperLimit{}
	_ sdk.Msg = &MsgMarkCorruptedScopes{}
	_ sdk.Msg = &MsgUnmarkCorruptedScopes{}
	_ sdk.Msg = &MsgForceExitCorruptedAssets{}
	_ sdk.Msg = &MsgCreateAssetGroup{}
	_ sdk.Msg = &MsgRemoveAssetGroup{}
	_ sdk.Msg = &MsgAddNewAssets{}
	_ sdk.Msg = &MsgRescaleNormalizationFactor{}
)
