package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

// GetTxCmd returns the transaction commands for the alloypool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "alloypool",
		Short:                      "Alloypool module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdJoinPool(),
		CmdExitPool(),
		CmdSwapExactAmountIn(),
		CmdSwapExactAmountOut(),
		CmdRegisterLimiter(),
		CmdDeregisterLimiter(),
		CmdMarkCorruptedScopes(),
		CmdUnmarkCorruptedScopes(),
		CmdCreateAssetGroup(),
		CmdRemoveAssetGroup(),
	)

	return cmd
}

// CmdJoinPool returns the command to join the pool
func CmdJoinPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join-pool [tokens-in]",
		Short: "Deposit tokens and mint alloyed shares",
		Long: `Deposit pool assets and receive alloyed shares of equal value.

Example:
  alloyedd tx alloypool join-pool 1000000ibc/AAA,500000ibc/BBB --from alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgJoinPool{
				Sender:   clientCtx.GetFromAddress().String(),
				TokensIn: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdExitPool returns the command to exit the pool
func CmdExitPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit-pool [tokens-out]",
		Short: "Burn alloyed shares and withdraw tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgExitPool{
				Sender:    clientCtx.GetFromAddress().String(),
				TokensOut: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactAmountIn returns the command to swap with exact input
func CmdSwapExactAmountIn() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-in [token-in] [token-out-denom] [min-out-amount]",
		Short: "Swap an exact token amount for another pool asset",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			minOut := ""
			if len(args) == 3 {
				minOut = args[2]
			}
			msg := &types.MsgSwapExactAmountIn{
				Sender:            clientCtx.GetFromAddress().String(),
				TokenIn:           args[0],
				TokenOutDenom:     args[1],
				TokenOutMinAmount: minOut,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactAmountOut returns the command to swap with exact output
func CmdSwapExactAmountOut() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-out [token-in-denom] [token-out] [max-in-amount]",
		Short: "Swap for an exact token amount of another pool asset",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			maxIn := ""
			if len(args) == 3 {
				maxIn = args[2]
			}
			msg := &types.MsgSwapExactAmountOut{
				Sender:           clientCtx.GetFromAddress().String(),
				TokenInDenom:     args[0],
				TokenInMaxAmount: maxIn,
				TokenOut:         args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRegisterLimiter returns the command to register a limiter
func CmdRegisterLimiter() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-limiter [scope] [label] [static|change] [args...]",
		Short: "Register a weight limiter on a scope",
		Long: `Register a limiter on a denom or asset group scope.

Examples:
  alloyedd tx alloypool register-limiter denom::ibc/AAA cap static 0.6 --from gov
  alloyedd tx alloypool register-limiter asset_group::stables drift change 3600000000000 4 0.05 --from gov`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRegisterLimiter{
				Authority: clientCtx.GetFromAddress().String(),
				Scope:     args[0],
				Label:     args[1],
			}
			switch strings.ToLower(args[2]) {
			case "static":
				msg.UpperLimit = args[3]
			case "change":
				if len(args) != 6 {
					return cmd.Usage()
				}
				windowSize, err := strconv.ParseInt(args[3], 10, 64)
				if err != nil {
					return err
				}
				divisionCount, err := strconv.ParseInt(args[4], 10, 64)
				if err != nil {
					return err
				}
				msg.WindowSize = windowSize
				msg.DivisionCount = divisionCount
				msg.BoundaryOffset = args[5]
			default:
				return cmd.Usage()
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeregisterLimiter returns the command to deregister a limiter
func CmdDeregisterLimiter() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deregister-limiter [scope] [label]",
		Short: "Remove a limiter from a scope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDeregisterLimiter{
				Authority: clientCtx.GetFromAddress().String(),
				Scope:     args[0],
				Label:     args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdMarkCorruptedScopes returns the command to mark scopes as corrupted
func CmdMarkCorruptedScopes() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark-corrupted [scope...]",
		Short: "Mark scopes as corrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgMarkCorruptedScopes{
				Authority: clientCtx.GetFromAddress().String(),
				Scopes:    args,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUnmarkCorruptedScopes returns the command to unmark corrupted scopes
func CmdUnmarkCorruptedScopes() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmark-corrupted [scope...]",
		Short: "Clear the corrupted flag on scopes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgUnmarkCorruptedScopes{
				Authority: clientCtx.GetFromAddress().String(),
				Scopes:    args,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCreateAssetGroup returns the command to create an asset group
func CmdCreateAssetGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-asset-group [label] [denoms]",
		Short: "Create a named asset group from comma-separated denoms",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCreateAssetGroup{
				Authority: clientCtx.GetFromAddress().String(),
				Label:     args[0],
				Denoms:    strings.Split(args[1], ","),
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRemoveAssetGroup returns the command to remove an asset group
func CmdRemoveAssetGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-asset-group [label]",
		Short: "Remove an asset group and its limiters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveAssetGroup{
				Authority: clientCtx.GetFromAddress().String(),
				Label:     args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
