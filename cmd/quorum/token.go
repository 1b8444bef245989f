// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"math/big"

	"github.com/blinklabs-io/quorum"
	"github.com/blinklabs-io/quorum/internal/config"
	"github.com/spf13/cobra"
)

type tokenInfoOutput struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Owner    string `json:"owner"`
	Decimals uint8  `json:"decimals"`
}

type accountOutput struct {
	Address  string `json:"address"`
	Balance  string `json:"balance"`
	Delegate string `json:"delegate"`
	Votes    string `json:"votes"`
}

type amountOutput struct {
	At     *uint64 `json:"at,omitempty"`
	Amount string  `json:"amount"`
}

type checkpointOutput struct {
	Value    string `json:"value"`
	Sequence uint64 `json:"sequence"`
}

func tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Voting token queries and operations",
	}
	cmd.AddCommand(
		tokenInfoCommand(),
		tokenBalanceCommand(),
		tokenSupplyCommand(),
		tokenVotesCommand(),
		tokenDelegatesCommand(),
		tokenCheckpointsCommand(),
		tokenAllowanceCommand(),
		tokenMintCommand(),
		tokenBurnCommand(),
		tokenTransferCommand(),
		tokenApproveCommand(),
		tokenTransferFromCommand(),
		tokenDelegateCommand(),
	)
	return cmd
}

func tokenInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show token metadata",
		Args:  cobra.NoArgs,
		RunE: runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
			info := quorum.NewAPIAdapter(n).TokenInfo()
			return tokenInfoOutput{
				Name:     info.Name,
				Symbol:   info.Symbol,
				Address:  info.Address.Hex(),
				Owner:    info.Owner.Hex(),
				Decimals: info.Decimals,
			}, nil
		}),
	}
}

func tokenBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balance, delegate and current votes of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddressArg("address", args[0])
			if err != nil {
				return err
			}
			return runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
				info, err := quorum.NewAPIAdapter(n).Account(account)
				if err != nil {
					return nil, err
				}
				return accountOutput{
					Address:  account.Hex(),
					Balance:  info.Balance.String(),
					Delegate: info.Delegate.Hex(),
					Votes:    info.Votes.String(),
				}, nil
			})(cmd, args)
		},
	}
}

func tokenSupplyCommand() *cobra.Command {
	var at uint64
	cmd := &cobra.Command{
		Use:   "supply",
		Short: "Show the total supply, optionally at a past sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			historical := cmd.Flags().Changed("at")
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if historical {
					supply, err := n.Token().GetPastTotalSupply(ctx, at)
					if err != nil {
						return nil, err
					}
					return amountOutput{At: &at, Amount: supply.String()}, nil
				}
				supply, err := n.Token().TotalSupply()
				if err != nil {
					return nil, err
				}
				return amountOutput{Amount: supply.String()}, nil
			})(cmd, args)
		},
	}
	cmd.Flags().Uint64Var(&at, "at", 0, "past sequence to query")
	return cmd
}

func tokenVotesCommand() *cobra.Command {
	var at uint64
	cmd := &cobra.Command{
		Use:   "votes <address>",
		Short: "Show the voting weight of an account, optionally at a past sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddressArg("address", args[0])
			if err != nil {
				return err
			}
			historical := cmd.Flags().Changed("at")
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if historical {
					votes, err := n.Token().GetPastVotes(ctx, account, at)
					if err != nil {
						return nil, err
					}
					return amountOutput{At: &at, Amount: votes.String()}, nil
				}
				votes, err := n.Token().GetVotes(account)
				if err != nil {
					return nil, err
				}
				return amountOutput{Amount: votes.String()}, nil
			})(cmd, args)
		},
	}
	cmd.Flags().Uint64Var(&at, "at", 0, "past sequence to query")
	return cmd
}

type delegateOutput struct {
	Account  string `json:"account"`
	Delegate string `json:"delegate"`
}

func tokenDelegatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delegates <address>",
		Short: "Show the current delegate of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddressArg("address", args[0])
			if err != nil {
				return err
			}
			return runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
				delegate, err := n.Token().Delegates(account)
				if err != nil {
					return nil, err
				}
				return delegateOutput{
					Account:  account.Hex(),
					Delegate: delegate.Hex(),
				}, nil
			})(cmd, args)
		},
	}
}

func tokenCheckpointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoints <address>",
		Short: "List the voting weight history of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddressArg("address", args[0])
			if err != nil {
				return err
			}
			return runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
				checkpoints, err := n.Token().Checkpoints(account)
				if err != nil {
					return nil, err
				}
				ret := make([]checkpointOutput, 0, len(checkpoints))
				for _, c := range checkpoints {
					ret = append(ret, checkpointOutput{
						Value:    c.Value.String(),
						Sequence: c.Sequence,
					})
				}
				return ret, nil
			})(cmd, args)
		},
	}
}

func tokenAllowanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance <owner> <spender>",
		Short: "Show the amount a spender may move on behalf of an owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddressArg("owner", args[0])
			if err != nil {
				return err
			}
			spender, err := parseAddressArg("spender", args[1])
			if err != nil {
				return err
			}
			return runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
				allowance, err := n.Token().Allowance(owner, spender)
				if err != nil {
					return nil, err
				}
				return amountOutput{Amount: allowance.String()}, nil
			})(cmd, args)
		},
	}
}

// amountCommand builds a state-changing command of the form
// "<use> <address> <amount>" executed by the --from account
func amountCommand(
	use string,
	short string,
	op string,
	apply func(ctx context.Context, n *quorum.Node, caller, target string, amount *big.Int) error,
) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := config.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if err := apply(ctx, n, from, args[0], amount); err != nil {
					return nil, err
				}
				return committed(n, op)
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}

func tokenMintCommand() *cobra.Command {
	return amountCommand(
		"mint <to> <amount>",
		"Create tokens for an account (owner only)",
		"mint",
		func(ctx context.Context, n *quorum.Node, caller, target string, amount *big.Int) error {
			from, to, err := callerAndTarget(caller, "to", target)
			if err != nil {
				return err
			}
			return n.Token().Mint(ctx, from, to, amount)
		},
	)
}

func tokenBurnCommand() *cobra.Command {
	return amountCommand(
		"burn <account> <amount>",
		"Destroy tokens held by an account (owner only)",
		"burn",
		func(ctx context.Context, n *quorum.Node, caller, target string, amount *big.Int) error {
			from, account, err := callerAndTarget(caller, "account", target)
			if err != nil {
				return err
			}
			return n.Token().Burn(ctx, from, account, amount)
		},
	)
}

func tokenTransferCommand() *cobra.Command {
	return amountCommand(
		"transfer <to> <amount>",
		"Move tokens from the caller to another account",
		"transfer",
		func(ctx context.Context, n *quorum.Node, caller, target string, amount *big.Int) error {
			from, to, err := callerAndTarget(caller, "to", target)
			if err != nil {
				return err
			}
			return n.Token().Transfer(ctx, from, to, amount)
		},
	)
}

func tokenApproveCommand() *cobra.Command {
	return amountCommand(
		"approve <spender> <amount>",
		"Set the allowance of a spender over the caller's tokens",
		"approve",
		func(ctx context.Context, n *quorum.Node, caller, target string, amount *big.Int) error {
			owner, spender, err := callerAndTarget(caller, "spender", target)
			if err != nil {
				return err
			}
			return n.Token().Approve(ctx, owner, spender, amount)
		},
	)
}

func tokenTransferFromCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "transfer-from <owner> <to> <amount>",
		Short: "Move tokens from an owner using the caller's allowance",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			spender, err := parseAddressArg("from", from)
			if err != nil {
				return err
			}
			owner, err := parseAddressArg("owner", args[0])
			if err != nil {
				return err
			}
			to, err := parseAddressArg("to", args[1])
			if err != nil {
				return err
			}
			amount, err := config.ParseAmount(args[2])
			if err != nil {
				return err
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if err := n.Token().TransferFrom(ctx, spender, owner, to, amount); err != nil {
					return nil, err
				}
				return committed(n, "transfer_from")
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}

func tokenDelegateCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "delegate <delegatee>",
		Short: "Assign the caller's voting weight to a delegatee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, delegatee, err := callerAndTarget(from, "delegatee", args[0])
			if err != nil {
				return err
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if err := n.Token().Delegate(ctx, voter, delegatee); err != nil {
					return nil, err
				}
				return committed(n, "delegate")
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}
