package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// Scope key prefixes. These strings are part of the persisted key space and
// must remain stable across versions.
const (
	scopeDenomPrefix      = "denom::"
	scopeAssetGroupPrefix = "asset_group::"
)

// ScopeKind discriminates the two scope variants.
type ScopeKind int

const (
	ScopeKindDenom ScopeKind = iota
	ScopeKindAssetGroup
)

// Scope is the unit a limiter protects: either a single pool asset identified
// by denom, or a named group of assets.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	Name string    `json:"name"`
}

// DenomScope creates a scope for a single denom.
func DenomScope(denom string) Scope {
	return Scope{Kind: ScopeKindDenom, Name: denom}
}

// AssetGroupScope creates a scope for a named asset group.
func AssetGroupScope(label string) Scope {
	return Scope{Kind: ScopeKindAssetGroup, Name: label}
}

// Key returns the canonical string encoding of the scope.
func (s Scope) Key() string {
	if s.Kind == ScopeKindAssetGroup {
		return scopeAssetGroupPrefix + s.Name
	}
	return scopeDenomPrefix + s.Name
}

func (s Scope) String() string {
	return s.Key()
}

// ParseScope parses a canonical scope key back into a Scope.
// Round-trips with Key for every valid scope.
func ParseScope(key string) (Scope, error) {
	if name, ok := strings.CutPrefix(key, scopeDenomPrefix); ok {
		return DenomScope(name), nil
	}
	if label, ok := strings.CutPrefix(key, scopeAssetGroupPrefix); ok {
		return AssetGroupScope(label), nil
	}
	return Scope{}, errorsmod.Wrapf(ErrInvalidScope, "%q must start with %q or %q", key, scopeDenomPrefix, scopeAssetGroupPrefix)
}
