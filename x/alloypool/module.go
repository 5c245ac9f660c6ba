package alloypool

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/alloyed/x/alloypool/keeper"
	"github.com/openalpha/alloyed/x/alloypool/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for alloypool
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "alloypool/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgJoinPool{}, "alloypool/MsgJoinPool", nil)
	cdc.RegisterConcrete(&types.MsgExitPool{}, "alloypool/MsgExitPool", nil)
	cdc.RegisterConcrete(&types.MsgSwapExactAmountIn{}, "alloypool/MsgSwapExactAmountIn", nil)
	cdc.RegisterConcrete(&types.MsgSwapExactAmountOut{}, "alloypool/MsgSwapExactAmountOut", nil)
	cdc.RegisterConcrete(&types.MsgRegisterLimiter{}, "alloypool/MsgRegisterLimiter", nil)
	cdc.RegisterConcrete(&types.MsgDeregisterLimiter{}, "alloypool/MsgDeregisterLimiter", nil)
	cdc.RegisterConcrete(&types.MsgSetChangeLimiterBoundaryOffset{}, "alloypool/MsgSetChangeLimiterBoundaryOffset", nil)
	cdc.RegisterConcrete(&types.MsgSetStaticLimiterUpperLimit{}, "alloypool/MsgSetStaticLimiterUpperLimit", nil)
	cdc.RegisterConcrete(&types.MsgMarkCorruptedScopes{}, "alloypool/MsgMarkCorruptedScopes", nil)
	cdc.RegisterConcrete(&types.MsgUnmarkCorruptedScopes{}, "alloypool/MsgUnmarkCorruptedScopes", nil)
	cdc.RegisterConcrete(&types.MsgForceExitCorruptedAssets{}, "alloypool/MsgForceExitCorruptedAssets", nil)
	cdc.RegisterConcrete(&types.MsgCreateAssetGroup{}, "alloypool/MsgCreateAssetGroup", nil)
	cdc.RegisterConcrete(&types.MsgRemoveAssetGroup{}, "alloypool/MsgRemoveAssetGroup", nil)
	cdc.RegisterConcrete(&types.MsgAddNewAssets{}, "alloypool/MsgAddNewAssets", nil)
	cdc.RegisterConcrete(&types.MsgRescaleNormalizationFactor{}, "alloypool/MsgRescaleNormalizationFactor", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgCreatePool{},
		&types.MsgJoinPool{},
		&types.MsgExitPool{},
		&types.MsgSwapExactAmountIn{},
		&types.MsgSwapExactAmountOut{},
		&types.MsgRegisterLimiter{},
		&types.MsgDeregisterLimiter{},
		&types.MsgSetChangeLimiterBoundaryOffset{},
		&types.MsgSetStaticLimiterUpperLimit{},
		&types.MsgMarkCorruptedScopes{},
		&types.MsgUnmarkCorruptedScopes{},
		&types.MsgForceExitCorruptedAssets{},
		&types.MsgCreateAssetGroup{},
		&types.MsgRemoveAssetGroup{},
		&types.MsgAddNewAssets{},
		&types.MsgRescaleNormalizationFactor{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	bz, _ := json.Marshal(types.DefaultGenesisState())
	return bz
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	if len(bz) == 0 {
		return nil
	}
	var state types.GenesisState
	if err := json.Unmarshal(bz, &state); err != nil {
		return err
	}
	return state.Validate()
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
}

// AppModule implements an application module for the alloypool module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
	_ = keeper.NewQueryServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// InitGenesis initializes module state from genesis
func (am AppModule) InitGenesis(ctx sdk.Context, cdc codec.JSONCodec, bz json.RawMessage) {
	if len(bz) == 0 {
		return
	}
	var state types.GenesisState
	if err := json.Unmarshal(bz, &state); err != nil {
		panic(err)
	}
	if err := am.keeper.InitGenesis(ctx, state); err != nil {
		panic(err)
	}
}

// ExportGenesis exports module state for genesis
func (am AppModule) ExportGenesis(ctx sdk.Context, cdc codec.JSONCodec) json.RawMessage {
	bz, _ := json.Marshal(am.keeper.ExportGenesis(ctx))
	return bz
}
