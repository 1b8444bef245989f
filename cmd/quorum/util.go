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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/blinklabs-io/quorum"
	"github.com/blinklabs-io/quorum/internal/config"
	"github.com/blinklabs-io/quorum/internal/node"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var errNoConfig = errors.New("no config found in context")

// nodeFunc runs against an opened node and returns a value to print
type nodeFunc func(ctx context.Context, n *quorum.Node) (any, error)

// runWithNode opens the node described by the loaded config, runs fn and
// prints its result as JSON. The node is always stopped afterward.
func runWithNode(fn nodeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		cfg := config.FromContext(cmd.Context())
		if cfg == nil {
			return errNoConfig
		}
		// One-shot commands keep stdout for results
		logger := newLogger(os.Stderr, slog.LevelWarn)
		n, err := node.Open(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if stopErr := n.Stop(); stopErr != nil && err == nil {
				err = stopErr
			}
		}()
		ret, err := fn(cmd.Context(), n)
		if err != nil {
			return err
		}
		if ret == nil {
			return nil
		}
		return printJSON(cmd.OutOrStdout(), ret)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// addCallerFlag registers the --from flag naming the acting account
func addCallerFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVar(dest, "from", "", "address of the caller")
	_ = cmd.MarkFlagRequired("from")
}

func parseAddressArg(name, value string) (common.Address, error) {
	addr, err := config.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", name, err)
	}
	return addr, nil
}

func parseIDArg(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal ID %q", value)
	}
	return id, nil
}

// parseSupport accepts for/against and the usual boolean spellings
func parseSupport(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "for", "yes", "y":
		return true, nil
	case "against", "no", "n":
		return false, nil
	}
	support, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf(
			"invalid vote %q: expected for or against",
			value,
		)
	}
	return support, nil
}

// result is printed by commands that change state
type result struct {
	Operation string `json:"operation"`
	Sequence  uint64 `json:"sequence"`
	ID        uint64 `json:"id,omitempty"`
}

func committed(n *quorum.Node, op string) (any, error) {
	seq, err := n.Sequencer().Current()
	if err != nil {
		return nil, err
	}
	return result{Operation: op, Sequence: seq}, nil
}

// callerAndTarget parses the --from value along with a positional address
func callerAndTarget(
	caller string,
	name string,
	target string,
) (common.Address, common.Address, error) {
	from, err := parseAddressArg("from", caller)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	addr, err := parseAddressArg(name, target)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return from, addr, nil
}
