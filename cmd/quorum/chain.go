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

	"github.com/blinklabs-io/quorum"
	"github.com/spf13/cobra"
)

type tipOutput struct {
	Sequence uint64 `json:"sequence"`
}

func chainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Sequence source queries and operations",
	}
	cmd.AddCommand(chainTipCommand(), chainAdvanceCommand())
	return cmd
}

func chainTipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Show the current sequence number",
		Args:  cobra.NoArgs,
		RunE: runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
			seq, err := n.Sequencer().Current()
			if err != nil {
				return nil, err
			}
			return tipOutput{Sequence: seq}, nil
		}),
	}
}

func chainAdvanceCommand() *cobra.Command {
	var to uint64
	cmd := &cobra.Command{
		Use:   "advance [steps]",
		Short: "Advance the sequence by a number of steps or to a target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := uint64(1)
			if len(args) == 1 {
				var err error
				steps, err = strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid steps %q", args[0])
				}
			}
			target := cmd.Flags().Changed("to")
			if target && len(args) == 1 {
				return fmt.Errorf("steps and --to are mutually exclusive")
			}
			return runWithNode(func(ctx context.Context, n *quorum.Node) (any, error) {
				var seq uint64
				var err error
				if target {
					seq, err = n.Sequencer().AdvanceTo(ctx, to)
				} else {
					seq, err = n.Sequencer().Advance(ctx, steps)
				}
				if err != nil {
					return nil, err
				}
				return tipOutput{Sequence: seq}, nil
			})(cmd, args)
		},
	}
	cmd.Flags().Uint64Var(&to, "to", 0, "target sequence number")
	return cmd
}
