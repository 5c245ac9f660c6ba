package types

import (
	"sort"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool composition bounds.
const (
	MinPoolAssets  = 1
	MaxPoolAssets  = 20
	MaxAssetGroups = 10
)

// Asset is a pool asset. Amounts of different denoms are comparable only after
// dividing by the normalization factor: value = amount / normalizationFactor.
type Asset struct {
	Denom string `json:"denom"`

	Amount math.Int `json:"amount"`

	// NormalizationFactor scales the denom's base units onto the pool's common
	// value axis. Must be positive.
	NormalizationFactor math.Int `json:"normalization_factor"`

	// Corrupted marks an asset slated for removal: its weight must not rise
	// and it is pruned once drained.
	Corrupted bool `json:"corrupted,omitempty"`
}

// NewAsset validates and constructs a pool asset.
func NewAsset(denom string, amount, normalizationFactor math.Int) (Asset, error) {
	if err := sdk.ValidateDenom(denom); err != nil {
		return Asset{}, errorsmod.Wrapf(ErrInvalidPoolAssetDenom, "%s", denom)
	}
	if amount.IsNil() || amount.IsNegative() {
		return Asset{}, errorsmod.Wrapf(ErrInsufficientPoolAsset, "amount must be non-negative, got %s for %s", amount, denom)
	}
	if normalizationFactor.IsNil() || !normalizationFactor.IsPositive() {
		return Asset{}, errorsmod.Wrapf(ErrNonPositiveNormFactor, "denom: %s, factor: %s", denom, normalizationFactor)
	}
	return Asset{Denom: denom, Amount: amount, NormalizationFactor: normalizationFactor}, nil
}

// Value returns the asset's normalized value as a decimal.
func (a Asset) Value() math.LegacyDec {
	return math.LegacyNewDecFromInt(a.Amount).QuoInt(a.NormalizationFactor)
}

// AssetGroup is a named set of pool denoms limiters can target as one scope.
type AssetGroup struct {
	Denoms []string `json:"denoms"`

	Corrupted bool `json:"corrupted,omitempty"`
}

// Pool is the alloyed-asset pool: value-preserving reserves for 1:1 conversion
// between assets at their normalization-factor ratio, backing a single alloyed
// share denom.
type Pool struct {
	// Assets ordered by insertion, denoms unique, count in [1, 20].
	Assets []Asset `json:"assets"`

	// AssetGroups by label, at most 10.
	AssetGroups map[string]AssetGroup `json:"asset_groups,omitempty"`

	// AlloyedDenom is the share token denom minted against deposits.
	AlloyedDenom string `json:"alloyed_denom"`

	// AlloyedNormalizationFactor scales shares onto the same value axis as the
	// pool assets.
	AlloyedNormalizationFactor math.Int `json:"alloyed_normalization_factor"`
}

// NewPool validates composition bounds and constructs a pool.
func NewPool(alloyedDenom string, alloyedNormalizationFactor math.Int, assets []Asset) (Pool, error) {
	if err := sdk.ValidateDenom(alloyedDenom); err != nil {
		return Pool{}, errorsmod.Wrapf(ErrInvalidPoolAssetDenom, "alloyed denom %s", alloyedDenom)
	}
	if alloyedNormalizationFactor.IsNil() || !alloyedNormalizationFactor.IsPositive() {
		return Pool{}, errorsmod.Wrapf(ErrNonPositiveNormFactor, "alloyed denom: %s, factor: %s", alloyedDenom, alloyedNormalizationFactor)
	}
	if len(assets) < MinPoolAssets || len(assets) > MaxPoolAssets {
		return Pool{}, errorsmod.Wrapf(ErrPoolAssetCountOutOfRange, "got %d, allowed [%d, %d]", len(assets), MinPoolAssets, MaxPoolAssets)
	}

	seen := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		if asset.Denom == alloyedDenom {
			return Pool{}, errorsmod.Wrapf(ErrDuplicatedPoolAssetDenom, "pool asset must differ from alloyed denom %s", alloyedDenom)
		}
		if _, ok := seen[asset.Denom]; ok {
			return Pool{}, errorsmod.Wrapf(ErrDuplicatedPoolAssetDenom, "%s", asset.Denom)
		}
		seen[asset.Denom] = struct{}{}
	}

	return Pool{
		Assets:                     assets,
		AlloyedDenom:               alloyedDenom,
		AlloyedNormalizationFactor: alloyedNormalizationFactor,
	}, nil
}

// HasDenom reports whether denom is a pool asset.
func (p Pool) HasDenom(denom string) bool {
	_, err := p.assetIndex(denom)
	return err == nil
}

// GetAsset returns the pool asset for denom.
func (p Pool) GetAsset(denom string) (Asset, error) {
	i, err := p.assetIndex(denom)
	if err != nil {
		return Asset{}, err
	}
	return p.Assets[i], nil
}

func (p Pool) assetIndex(denom string) (int, error) {
	for i, asset := range p.Assets {
		if asset.Denom == denom {
			return i, nil
		}
	}
	return 0, errorsmod.Wrapf(ErrInvalidPoolAssetDenom, "%s is not a pool asset", denom)
}

// JoinPool increases reserves by the deposited coins. Every coin must name a
// pool asset and carry a positive amount.
func (p *Pool) JoinPool(tokensIn sdk.Coins) error {
	for _, coin := range tokensIn {
		if coin.Amount.IsZero() {
			return errorsmod.Wrapf(ErrZeroValueOperation, "join with zero %s", coin.Denom)
		}
		i, err := p.assetIndex(coin.Denom)
		if err != nil {
			return err
		}
		p.Assets[i].Amount = p.Assets[i].Amount.Add(coin.Amount)
	}
	return nil
}

// ExitPool decreases reserves by the withdrawn coins, checking liquidity per
// denom.
func (p *Pool) ExitPool(tokensOut sdk.Coins) error {
	for _, coin := range tokensOut {
		if coin.Amount.IsZero() {
			return errorsmod.Wrapf(ErrZeroValueOperation, "exit with zero %s", coin.Denom)
		}
		i, err := p.assetIndex(coin.Denom)
		if err != nil {
			return err
		}
		if p.Assets[i].Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(ErrInsufficientPoolAsset, "denom: %s, required: %s, available: %s", coin.Denom, coin.Amount, p.Assets[i].Amount)
		}
		p.Assets[i].Amount = p.Assets[i].Amount.Sub(coin.Amount)
	}
	return nil
}

// TransmuteExactIn converts tokenIn into tokenOutDenom at equal normalized
// value, rounding the output down. Reserves are updated on both sides.
func (p *Pool) TransmuteExactIn(tokenIn sdk.Coin, tokenOutDenom string) (sdk.Coin, error) {
	if tokenIn.Amount.IsZero() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrZeroValueOperation, "transmute zero %s", tokenIn.Denom)
	}
	in, err := p.GetAsset(tokenIn.Denom)
	if err != nil {
		return sdk.Coin{}, err
	}
	out, err := p.GetAsset(tokenOutDenom)
	if err != nil {
		return sdk.Coin{}, err
	}

	// equal normalized value: out = in * outFactor / inFactor, rounded down
	outAmount := tokenIn.Amount.Mul(out.NormalizationFactor).Quo(in.NormalizationFactor)
	if outAmount.IsZero() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrZeroValueOperation, "%s %s converts to zero %s", tokenIn.Amount, tokenIn.Denom, tokenOutDenom)
	}

	tokenOut := sdk.NewCoin(tokenOutDenom, outAmount)
	if err := p.swapBalances(tokenIn, tokenOut); err != nil {
		return sdk.Coin{}, err
	}
	return tokenOut, nil
}

// TransmuteExactOut converts just enough tokenInDenom to produce tokenOut at
// equal normalized value, rounding the input up.
func (p *Pool) TransmuteExactOut(tokenInDenom string, tokenOut sdk.Coin) (sdk.Coin, error) {
	if tokenOut.Amount.IsZero() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrZeroValueOperation, "transmute to zero %s", tokenOut.Denom)
	}
	in, err := p.GetAsset(tokenInDenom)
	if err != nil {
		return sdk.Coin{}, err
	}
	out, err := p.GetAsset(tokenOut.Denom)
	if err != nil {
		return sdk.Coin{}, err
	}

	// in = out * inFactor / outFactor, rounded up
	inAmount := ceilDivInt(tokenOut.Amount.Mul(in.NormalizationFactor), out.NormalizationFactor)

	tokenIn := sdk.NewCoin(tokenInDenom, inAmount)
	if err := p.swapBalances(tokenIn, tokenOut); err != nil {
		return sdk.Coin{}, err
	}
	return tokenIn, nil
}

// swapBalances applies a two-sided balance update atomically: neither side is
// mutated unless both succeed.
func (p *Pool) swapBalances(tokenIn, tokenOut sdk.Coin) error {
	inIdx, err := p.assetIndex(tokenIn.Denom)
	if err != nil {
		return err
	}
	outIdx, err := p.assetIndex(tokenOut.Denom)
	if err != nil {
		return err
	}
	if p.Assets[outIdx].Amount.LT(tokenOut.Amount) {
		return errorsmod.Wrapf(ErrInsufficientPoolAsset, "denom: %s, required: %s, available: %s", tokenOut.Denom, tokenOut.Amount, p.Assets[outIdx].Amount)
	}
	p.Assets[inIdx].Amount = p.Assets[inIdx].Amount.Add(tokenIn.Amount)
	p.Assets[outIdx].Amount = p.Assets[outIdx].Amount.Sub(tokenOut.Amount)
	return nil
}

// RescaleNormalizationFactor multiplies every normalization factor (assets and
// alloyed) by numerator/denominator. Price ratios between assets are unchanged.
func (p *Pool) RescaleNormalizationFactor(numerator, denominator math.Int) error {
	if numerator.IsNil() || !numerator.IsPositive() || denominator.IsNil() || !denominator.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveNormFactor, "rescale by %s/%s", numerator, denominator)
	}
	for i := range p.Assets {
		rescaled := p.Assets[i].NormalizationFactor.Mul(numerator).Quo(denominator)
		if !rescaled.IsPositive() {
			return errorsmod.Wrapf(ErrNonPositiveNormFactor, "rescaling %s by %s/%s yields %s", p.Assets[i].Denom, numerator, denominator, rescaled)
		}
		p.Assets[i].NormalizationFactor = rescaled
	}
	rescaled := p.AlloyedNormalizationFactor.Mul(numerator).Quo(denominator)
	if !rescaled.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveNormFactor, "rescaling %s by %s/%s yields %s", p.AlloyedDenom, numerator, denominator, rescaled)
	}
	p.AlloyedNormalizationFactor = rescaled
	return nil
}

// AssetWeights returns each asset's share of total normalized value. Returns
// nil when the pool holds no value, since weights are undefined.
func (p Pool) AssetWeights() map[string]math.LegacyDec {
	total := math.LegacyZeroDec()
	values := make(map[string]math.LegacyDec, len(p.Assets))
	for _, asset := range p.Assets {
		v := asset.Value()
		values[asset.Denom] = v
		total = total.Add(v)
	}
	if total.IsZero() {
		return nil
	}
	weights := make(map[string]math.LegacyDec, len(p.Assets))
	for denom, v := range values {
		weights[denom] = v.Quo(total)
	}
	return weights
}

// AssetGroupWeights returns each group's share of total normalized value, the
// sum of its member weights. Nil when the pool holds no value.
func (p Pool) AssetGroupWeights() map[string]math.LegacyDec {
	assetWeights := p.AssetWeights()
	if assetWeights == nil {
		return nil
	}
	weights := make(map[string]math.LegacyDec, len(p.AssetGroups))
	for label, group := range p.AssetGroups {
		w := math.LegacyZeroDec()
		for _, denom := range group.Denoms {
			w = w.Add(assetWeights[denom])
		}
		weights[label] = w
	}
	return weights
}

// ScopeWeights returns the weight of every limitable scope, keyed by canonical
// scope key. Nil when the pool holds no value.
func (p Pool) ScopeWeights() map[string]math.LegacyDec {
	assetWeights := p.AssetWeights()
	if assetWeights == nil {
		return nil
	}
	weights := make(map[string]math.LegacyDec, len(assetWeights)+len(p.AssetGroups))
	for denom, w := range assetWeights {
		weights[DenomScope(denom).Key()] = w
	}
	for label, w := range p.AssetGroupWeights() {
		weights[AssetGroupScope(label).Key()] = w
	}
	return weights
}

// CreateAssetGroup registers a named group of existing pool denoms.
func (p *Pool) CreateAssetGroup(label string, denoms []string) error {
	if label == "" {
		return errorsmod.Wrap(ErrAssetGroupNotFound, "label must not be empty")
	}
	if len(denoms) == 0 {
		return errorsmod.Wrapf(ErrEmptyAssetGroup, "label: %s", label)
	}
	if _, ok := p.AssetGroups[label]; ok {
		return errorsmod.Wrapf(ErrAssetGroupAlreadyExists, "%s", label)
	}
	if len(p.AssetGroups) >= MaxAssetGroups {
		return errorsmod.Wrapf(ErrMaxAssetGroupCountExceeded, "max: %d", MaxAssetGroups)
	}
	seen := make(map[string]struct{}, len(denoms))
	for _, denom := range denoms {
		if !p.HasDenom(denom) {
			return errorsmod.Wrapf(ErrInvalidPoolAssetDenom, "%s is not a pool asset", denom)
		}
		if _, ok := seen[denom]; ok {
			return errorsmod.Wrapf(ErrDuplicatedPoolAssetDenom, "%s", denom)
		}
		seen[denom] = struct{}{}
	}
	if p.AssetGroups == nil {
		p.AssetGroups = make(map[string]AssetGroup)
	}
	p.AssetGroups[label] = AssetGroup{Denoms: denoms}
	return nil
}

// RemoveAssetGroup deletes the group. Limiter cleanup for the group's scope is
// the caller's responsibility.
func (p *Pool) RemoveAssetGroup(label string) error {
	if _, ok := p.AssetGroups[label]; !ok {
		return errorsmod.Wrapf(ErrAssetGroupNotFound, "%s", label)
	}
	delete(p.AssetGroups, label)
	return nil
}

// AddNewAssets appends zero-amount assets with their normalization factors.
// Callers must reset change-limiter histories afterwards since the composition
// changed.
func (p *Pool) AddNewAssets(assets []Asset) error {
	if len(assets) == 0 {
		return errorsmod.Wrap(ErrZeroValueOperation, "no assets to add")
	}
	if len(p.Assets)+len(assets) > MaxPoolAssets {
		return errorsmod.Wrapf(ErrPoolAssetCountOutOfRange, "got %d, allowed [%d, %d]", len(p.Assets)+len(assets), MinPoolAssets, MaxPoolAssets)
	}
	for _, asset := range assets {
		if asset.Denom == p.AlloyedDenom {
			return errorsmod.Wrapf(ErrDuplicatedPoolAssetDenom, "pool asset must differ from alloyed denom %s", p.AlloyedDenom)
		}
		if p.HasDenom(asset.Denom) {
			return errorsmod.Wrapf(ErrDuplicatedPoolAssetDenom, "%s", asset.Denom)
		}
		if !asset.Amount.IsZero() {
			return errorsmod.Wrapf(ErrInsufficientPoolAsset, "new asset %s must start empty, got %s", asset.Denom, asset.Amount)
		}
		if asset.NormalizationFactor.IsNil() || !asset.NormalizationFactor.IsPositive() {
			return errorsmod.Wrapf(ErrNonPositiveNormFactor, "denom: %s, factor: %s", asset.Denom, asset.NormalizationFactor)
		}
		p.Assets = append(p.Assets, asset)
	}
	return nil
}

// MarkCorrupted flags the scope's asset or group as corrupted.
func (p *Pool) MarkCorrupted(scope Scope) error {
	return p.setCorrupted(scope, true)
}

// UnmarkCorrupted clears the corrupted flag on the scope's asset or group.
func (p *Pool) UnmarkCorrupted(scope Scope) error {
	return p.setCorrupted(scope, false)
}

func (p *Pool) setCorrupted(scope Scope, corrupted bool) error {
	switch scope.Kind {
	case ScopeKindDenom:
		i, err := p.assetIndex(scope.Name)
		if err != nil {
			return err
		}
		p.Assets[i].Corrupted = corrupted
		return nil
	case ScopeKindAssetGroup:
		group, ok := p.AssetGroups[scope.Name]
		if !ok {
			return errorsmod.Wrapf(ErrAssetGroupNotFound, "%s", scope.Name)
		}
		group.Corrupted = corrupted
		p.AssetGroups[scope.Name] = group
		return nil
	default:
		return errorsmod.Wrapf(ErrInvalidScope, "kind %d", scope.Kind)
	}
}

// CorruptedScopes returns every corrupted scope, denoms first in asset order,
// then groups in label order.
func (p Pool) CorruptedScopes() []Scope {
	var scopes []Scope
	for _, asset := range p.Assets {
		if asset.Corrupted {
			scopes = append(scopes, DenomScope(asset.Denom))
		}
	}
	labels := make([]string, 0, len(p.AssetGroups))
	for label, group := range p.AssetGroups {
		if group.Corrupted {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	for _, label := range labels {
		scopes = append(scopes, AssetGroupScope(label))
	}
	return scopes
}

// IsCorrupted reports whether the scope is marked corrupted. A denom counts as
// corrupted when its asset is flagged or it belongs to a corrupted group.
func (p Pool) IsCorrupted(scope Scope) bool {
	switch scope.Kind {
	case ScopeKindDenom:
		for _, asset := range p.Assets {
			if asset.Denom == scope.Name {
				if asset.Corrupted {
					return true
				}
				break
			}
		}
		for _, group := range p.AssetGroups {
			if !group.Corrupted {
				continue
			}
			for _, denom := range group.Denoms {
				if denom == scope.Name {
					return true
				}
			}
		}
		return false
	case ScopeKindAssetGroup:
		return p.AssetGroups[scope.Name].Corrupted
	default:
		return false
	}
}

// PruneDrainedCorruptedAssets removes corrupted assets whose amount reached
// zero and returns their denoms. Groups whose members were all pruned are
// removed too, with their labels returned.
func (p *Pool) PruneDrainedCorruptedAssets() (denoms []string, groupLabels []string) {
	kept := p.Assets[:0]
	removed := make(map[string]struct{})
	for _, asset := range p.Assets {
		if asset.Corrupted && asset.Amount.IsZero() {
			removed[asset.Denom] = struct{}{}
			denoms = append(denoms, asset.Denom)
			continue
		}
		kept = append(kept, asset)
	}
	p.Assets = kept

	for label, group := range p.AssetGroups {
		survivors := make([]string, 0, len(group.Denoms))
		for _, denom := range group.Denoms {
			if _, gone := removed[denom]; !gone {
				survivors = append(survivors, denom)
			}
		}
		if len(survivors) == 0 {
			delete(p.AssetGroups, label)
			groupLabels = append(groupLabels, label)
			continue
		}
		group.Denoms = survivors
		p.AssetGroups[label] = group
	}
	sort.Strings(groupLabels)
	return denoms, groupLabels
}

// SharesForDeposit returns the alloyed shares minted for the deposited coins:
// total normalized value scaled by the alloyed normalization factor, rounded
// down so depositors never extract value from rounding.
func (p Pool) SharesForDeposit(tokensIn sdk.Coins) (math.Int, error) {
	return p.shareValue(tokensIn, false)
}

// SharesForWithdrawal returns the alloyed shares burned for the withdrawn
// coins, rounded up.
func (p Pool) SharesForWithdrawal(tokensOut sdk.Coins) (math.Int, error) {
	return p.shareValue(tokensOut, true)
}

func (p Pool) shareValue(tokens sdk.Coins, roundUp bool) (math.Int, error) {
	shares := math.ZeroInt()
	for _, coin := range tokens {
		asset, err := p.GetAsset(coin.Denom)
		if err != nil {
			return math.Int{}, err
		}
		scaled := coin.Amount.Mul(p.AlloyedNormalizationFactor)
		if roundUp {
			shares = shares.Add(ceilDivInt(scaled, asset.NormalizationFactor))
		} else {
			shares = shares.Add(scaled.Quo(asset.NormalizationFactor))
		}
	}
	if shares.IsZero() {
		return math.Int{}, errorsmod.Wrap(ErrZeroValueOperation, "tokens carry no share value")
	}
	return shares, nil
}

// SpotPrice returns how many quoteDenom base units one baseDenom base unit is
// worth: quoteFactor / baseFactor. The alloyed denom is a valid leg.
func (p Pool) SpotPrice(baseDenom, quoteDenom string) (math.LegacyDec, error) {
	baseFactor, err := p.normalizationFactorOf(baseDenom)
	if err != nil {
		return math.LegacyDec{}, err
	}
	quoteFactor, err := p.normalizationFactorOf(quoteDenom)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return math.LegacyNewDecFromInt(quoteFactor).QuoInt(baseFactor), nil
}

// ConvertAmount converts an amount between two denoms (pool assets or the
// alloyed denom) at their normalization-factor ratio, exactly in integer
// arithmetic.
func (p Pool) ConvertAmount(amount math.Int, fromDenom, toDenom string, roundUp bool) (math.Int, error) {
	fromFactor, err := p.normalizationFactorOf(fromDenom)
	if err != nil {
		return math.Int{}, err
	}
	toFactor, err := p.normalizationFactorOf(toDenom)
	if err != nil {
		return math.Int{}, err
	}
	scaled := amount.Mul(toFactor)
	if roundUp {
		return ceilDivInt(scaled, fromFactor), nil
	}
	return scaled.Quo(fromFactor), nil
}

func (p Pool) normalizationFactorOf(denom string) (math.Int, error) {
	if denom == p.AlloyedDenom {
		return p.AlloyedNormalizationFactor, nil
	}
	asset, err := p.GetAsset(denom)
	if err != nil {
		return math.Int{}, err
	}
	return asset.NormalizationFactor, nil
}

// ceilDivInt divides a by b rounding away from zero. Both must be positive.
func ceilDivInt(a, b math.Int) math.Int {
	q, r := a.Quo(b), a.Mod(b)
	if r.IsZero() {
		return q
	}
	return q.AddRaw(1)
}
