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
	"time"

	"github.com/blinklabs-io/quorum"
	"github.com/blinklabs-io/quorum/api"
	"github.com/blinklabs-io/quorum/event"
	"github.com/spf13/cobra"
)

type eventOutput struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      any             `json:"data"`
	Type      event.EventType `json:"type"`
	Index     uint64          `json:"index"`
	Sequence  uint64          `json:"sequence"`
}

func eventsCommand() *cobra.Command {
	var from uint64
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journaled token and governance events",
		Args:  cobra.NoArgs,
		RunE: runWithNode(func(_ context.Context, n *quorum.Node) (any, error) {
			from = max(from, 1)
			if limit <= 0 || limit > api.MaxEventLimit {
				limit = api.MaxEventLimit
			}
			entries, err := n.Database().ListEvents(from, limit)
			if err != nil {
				return nil, err
			}
			ret := make([]eventOutput, 0, len(entries))
			for _, entry := range entries {
				evt, err := entry.Event()
				if err != nil {
					return nil, err
				}
				ret = append(ret, eventOutput{
					Timestamp: entry.Timestamp,
					Data:      evt.Data,
					Type:      entry.Type,
					Index:     entry.Index,
					Sequence:  entry.Sequence,
				})
			}
			return ret, nil
		}),
	}
	cmd.Flags().Uint64Var(&from, "from", 1, "first journal index to list")
	cmd.Flags().IntVar(&limit, "limit", api.DefaultEventLimit, "maximum number of events")
	return cmd
}
