package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	// Limiter configuration errors
	ErrZeroWindowSize          = errors.Register("alloypool", 1, "window size must be positive")
	ErrUnevenWindowDivision    = errors.Register("alloypool", 2, "window size must be evenly divisible by division count")
	ErrDivisionCountOutOfRange = errors.Register("alloypool", 3, "division count out of range")
	ErrZeroBoundaryOffset      = errors.Register("alloypool", 4, "boundary offset must be positive")
	ErrZeroUpperLimit          = errors.Register("alloypool", 5, "upper limit must be positive")
	ErrExceedHundredPercent    = errors.Register("alloypool", 6, "upper limit must not exceed 100%")
	ErrInvalidDivision         = errors.Register("alloypool", 7, "division updated_at must not precede started_at")

	// Limiter registry errors
	ErrEmptyLimiterLabel       = errors.Register("alloypool", 10, "limiter label must not be empty")
	ErrLimiterAlreadyExists    = errors.Register("alloypool", 11, "limiter already exists")
	ErrLimiterDoesNotExist     = errors.Register("alloypool", 12, "limiter does not exist")
	ErrMaxLimiterCountExceeded = errors.Register("alloypool", 13, "limiter count for scope exceeds maximum")
	ErrEmptyLimiterNotAllowed  = errors.Register("alloypool", 14, "cannot deregister the only limiter for scope")
	ErrWrongLimiterType        = errors.Register("alloypool", 15, "wrong limiter type")
	ErrInvalidScope            = errors.Register("alloypool", 16, "invalid scope")

	// Runtime invariant violations
	ErrUpperLimitExceeded       = errors.Register("alloypool", 20, "upper limit exceeded")
	ErrCorruptedScopeIncreased  = errors.Register("alloypool", 21, "corrupted scope relatively increased")
	ErrInsufficientPoolAsset    = errors.Register("alloypool", 22, "insufficient pool asset")
	ErrInsufficientShares       = errors.Register("alloypool", 23, "insufficient shares")
	ErrZeroValueOperation       = errors.Register("alloypool", 24, "operation must move a non-zero amount")
	ErrPoolTotalValueZero       = errors.Register("alloypool", 25, "pool has no value to compute weights from")
	ErrCorruptedNotFullyDrained = errors.Register("alloypool", 26, "corrupted asset must be redeemed in full")

	// Pool structural errors
	ErrInvalidPoolAssetDenom      = errors.Register("alloypool", 30, "invalid pool asset denom")
	ErrDuplicatedPoolAssetDenom   = errors.Register("alloypool", 31, "duplicated pool asset denom")
	ErrPoolAssetCountOutOfRange   = errors.Register("alloypool", 32, "pool asset count out of range")
	ErrAssetGroupNotFound         = errors.Register("alloypool", 33, "asset group not found")
	ErrAssetGroupAlreadyExists    = errors.Register("alloypool", 34, "asset group already exists")
	ErrMaxAssetGroupCountExceeded = errors.Register("alloypool", 35, "asset group count exceeds maximum")
	ErrEmptyAssetGroup            = errors.Register("alloypool", 36, "asset group must contain at least one denom")
	ErrNonPositiveNormFactor      = errors.Register("alloypool", 37, "normalization factor must be positive")
	ErrScopeNotCorrupted          = errors.Register("alloypool", 38, "scope is not marked as corrupted")
	ErrPoolNotFound               = errors.Register("alloypool", 39, "pool not found")
	ErrPoolAlreadyExists          = errors.Register("alloypool", 40, "pool already exists")

	ErrUnauthorized = errors.Register("alloypool", 50, "unauthorized")
)
