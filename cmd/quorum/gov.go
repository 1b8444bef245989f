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
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/quorum"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type proposalOutput struct {
	governance.Proposal
	State governance.ProposalState `json:"state"`
}

type stateOutput struct {
	State governance.ProposalState `json:"state"`
	ID    uint64                   `json:"id"`
}

type quorumOutput struct {
	Required string `json:"required"`
	At       uint64 `json:"at"`
}

func govCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gov",
		Short: "Governance registry queries and operations",
	}
	cmd.AddCommand(
		govParamsCommand(),
		govQuorumCommand(),
		govProposeCommand(),
		govVoteCommand(),
		govStateCommand(),
		govShowCommand(),
		govListCommand(),
		govReceiptCommand(),
		govExecuteCommand(),
		govCancelCommand(),
		govSetQuorumCommand(),
		govSetVotingPeriodCommand(),
	)
	return cmd
}

func govParamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Show the registry parameters",
		Args:  cobra.NoArgs,
		RunE: runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
			return n.Registry().Params()
		}),
	}
}

func govQuorumCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quorum <sequence>",
		Short: "Show the votes required for quorum at a past sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sequence %q", args[0])
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				required, err := n.Registry().Quorum(ctx, seq)
				if err != nil {
					return nil, err
				}
				return quorumOutput{Required: required.String(), At: seq}, nil
			})(cmd, args)
		},
	}
}

func govProposeCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "propose <description>...",
		Short: "Create a proposal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposer, err := parseAddressArg("from", from)
			if err != nil {
				return err
			}
			description := strings.Join(args, " ")
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				id, err := n.Registry().CreateProposal(ctx, proposer, description)
				if err != nil {
					return nil, err
				}
				seq, err := n.Sequencer().Current()
				if err != nil {
					return nil, err
				}
				return result{Operation: "propose", Sequence: seq, ID: id}, nil
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}

func govVoteCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "vote <id> <for|against>",
		Short: "Vote on an active proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := parseAddressArg("from", from)
			if err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			support, err := parseSupport(args[1])
			if err != nil {
				return err
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if err := n.Registry().Vote(ctx, voter, id, support); err != nil {
					return nil, err
				}
				return committed(n, "vote")
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}

// proposalIDCommand builds a command taking a single proposal ID
func proposalIDCommand(
	use string,
	short string,
	fn func(ctx context.Context, n *quorum.Node, id uint64) (any, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				return fn(ctx, n, id)
			})(cmd, args)
		},
	}
}

func govStateCommand() *cobra.Command {
	return proposalIDCommand(
		"state <id>",
		"Show the state of a proposal",
		func(ctx context.Context, n *quorum.Node, id uint64) (any, error) {
			state, err := n.Registry().State(ctx, id)
			if err != nil {
				return nil, err
			}
			return stateOutput{State: state, ID: id}, nil
		},
	)
}

func govShowCommand() *cobra.Command {
	return proposalIDCommand(
		"show <id>",
		"Show a proposal with its tallies and state",
		func(ctx context.Context, n *quorum.Node, id uint64) (any, error) {
			proposal, err := n.Registry().Proposal(id)
			if err != nil {
				return nil, err
			}
			state, err := n.Registry().State(ctx, id)
			if err != nil {
				return nil, err
			}
			return proposalOutput{Proposal: proposal, State: state}, nil
		},
	)
}

func govListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all proposals",
		Args:  cobra.NoArgs,
		RunE: runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
			proposals, err := n.Registry().Proposals()
			if err != nil {
				return nil, err
			}
			ret := make([]proposalOutput, 0, len(proposals))
			for _, p := range proposals {
				state, err := n.Registry().State(ctx, p.ID)
				if err != nil {
					return nil, err
				}
				ret = append(ret, proposalOutput{Proposal: p, State: state})
			}
			return ret, nil
		}),
	}
}

func govReceiptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <id> <voter>",
		Short: "Show the vote receipt of a voter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			voter, err := parseAddressArg("voter", args[1])
			if err != nil {
				return err
			}
			return runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
				receipt, ok, err := n.Registry().Receipt(id, voter)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf(
						"%s has not voted on proposal %d",
						voter.Hex(),
						id,
					)
				}
				return receipt, nil
			})(cmd, args)
		},
	}
}

// callerValueCommand builds a state-changing command taking a single
// unsigned argument, executed by the --from account
func callerValueCommand(
	use string,
	short string,
	op string,
	apply func(r *governance.Registry, ctx context.Context, caller common.Address, value uint64) error,
) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseAddressArg("from", from)
			if err != nil {
				return err
			}
			value, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[0])
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				if err := apply(n.Registry(), ctx, caller, value); err != nil {
					return nil, err
				}
				return committed(n, op)
			})(cmd, args)
		},
	}
	addCallerFlag(cmd, &from)
	return cmd
}

func govExecuteCommand() *cobra.Command {
	return callerValueCommand(
		"execute <id>",
		"Mark a succeeded proposal as executed",
		"execute",
		(*governance.Registry).ExecuteProposal,
	)
}

func govCancelCommand() *cobra.Command {
	return callerValueCommand(
		"cancel <id>",
		"Cancel a proposal (authority only)",
		"cancel",
		(*governance.Registry).CancelProposal,
	)
}

func govSetQuorumCommand() *cobra.Command {
	return callerValueCommand(
		"set-quorum <numerator>",
		"Set the quorum numerator out of 100 (authority only)",
		"set_quorum_numerator",
		(*governance.Registry).SetQuorumNumerator,
	)
}

func govSetVotingPeriodCommand() *cobra.Command {
	return callerValueCommand(
		"set-voting-period <length>",
		"Set the voting period length for new proposals (authority only)",
		"set_voting_period",
		(*governance.Registry).SetVotingPeriodLength,
	)
}
