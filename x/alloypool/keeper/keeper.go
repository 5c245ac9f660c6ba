package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

// Store key prefixes
var (
	PoolKey          = []byte{0x01}
	LimiterKeyPrefix = []byte{0x02}
)

// BankKeeper defines the expected interface for the bank module. Alloyed
// shares are minted and burned through the module account.
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the alloypool module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new alloypool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/alloypool"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool Persistence ============

// SetPool saves the pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(PoolKey, bz)
}

// GetPool retrieves the pool from the store
func (k *Keeper) GetPool(ctx sdk.Context) (types.Pool, error) {
	store := k.GetStore(ctx)
	bz := store.Get(PoolKey)
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotFound
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, err
	}
	return pool, nil
}

// HasPool reports whether a pool has been created
func (k *Keeper) HasPool(ctx sdk.Context) bool {
	return k.GetStore(ctx).Has(PoolKey)
}

// CreatePool initializes the pool. Only one pool exists per chain.
func (k *Keeper) CreatePool(ctx sdk.Context, pool types.Pool) error {
	if k.HasPool(ctx) {
		return types.ErrPoolAlreadyExists
	}
	k.SetPool(ctx, pool)
	k.logger.Info("created alloyed pool",
		"alloyed_denom", pool.AlloyedDenom,
		"assets", len(pool.Assets),
	)
	return nil
}
