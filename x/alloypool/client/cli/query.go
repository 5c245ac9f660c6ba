package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/alloyed/x/alloypool/types"
)

// GetQueryCmd returns the cli query commands for the alloypool module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "alloypool",
		Short:                      "Querying commands for the alloypool module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryLimiters(),
		CmdQueryScope(),
	)

	return cmd
}

// CmdQueryPool returns the command to query the pool state
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Query the alloyed pool state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			res, _, err := clientCtx.QueryStore([]byte{0x01}, types.StoreKey)
			if err != nil {
				return err
			}
			if res == nil {
				return types.ErrPoolNotFound
			}

			var pool types.Pool
			if err := json.Unmarshal(res, &pool); err != nil {
				return err
			}
			output, _ := json.MarshalIndent(pool, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryLimiters returns the command to query limiters under a scope
func CmdQueryLimiters() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limiter [scope] [label]",
		Short: "Query a limiter by scope and label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			scope, err := types.ParseScope(args[0])
			if err != nil {
				return err
			}

			key := append([]byte{0x02}, []byte(scope.Key())...)
			key = append(key, 0x00)
			key = append(key, []byte(args[1])...)

			res, _, err := clientCtx.QueryStore(key, types.StoreKey)
			if err != nil {
				return err
			}
			if res == nil {
				return types.ErrLimiterDoesNotExist
			}

			var limiter types.Limiter
			if err := json.Unmarshal(res, &limiter); err != nil {
				return err
			}
			output, _ := json.MarshalIndent(limiter, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryScope returns the command to parse and echo a scope key
func CmdQueryScope() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope [key]",
		Short: "Validate and canonicalize a scope key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := types.ParseScope(args[0])
			if err != nil {
				return err
			}
			fmt.Println(scope.Key())
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
