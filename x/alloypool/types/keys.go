package types

// Module name and store key
const (
	ModuleName = "alloypool"
	StoreKey   = ModuleName
	RouterKey  = ModuleName
)

// Event types and attribute keys
const (
	EventTypeJoinPool        = "join_pool"
	EventTypeExitPool        = "exit_pool"
	EventTypeSwap            = "swap"
	EventTypeLimiterChange   = "limiter_change"
	EventTypeCorruptedScopes = "corrupted_scopes"

	AttributeKeySender    = "sender"
	AttributeKeyTokensIn  = "tokens_in"
	AttributeKeyTokensOut = "tokens_out"
	AttributeKeyShares    = "shares"
	AttributeKeyScope     = "scope"
	AttributeKeyLabel     = "label"
)
