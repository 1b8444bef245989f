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

package quorum

import (
	"context"
	"math/big"

	"github.com/blinklabs-io/quorum/api"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/ethereum/go-ethereum/common"
)

// APIAdapter exposes a node through the api.Node interface
type APIAdapter struct {
	node *Node
}

// NewAPIAdapter creates an APIAdapter for an opened node. Panics if n is nil.
func NewAPIAdapter(n *Node) *APIAdapter {
	if n == nil {
		panic("NewAPIAdapter: Node must not be nil")
	}
	return &APIAdapter{node: n}
}

func (a *APIAdapter) Tip() (uint64, error) {
	return a.node.sequencer.Current()
}

func (a *APIAdapter) TokenInfo() api.TokenInfo {
	tok := a.node.token
	return api.TokenInfo{
		Name:     tok.Name(),
		Symbol:   tok.Symbol(),
		Decimals: tok.Decimals(),
		Address:  tok.Address(),
		Owner:    tok.Owner(),
	}
}

func (a *APIAdapter) TotalSupply() (*big.Int, error) {
	return a.node.token.TotalSupply()
}

func (a *APIAdapter) PastTotalSupply(ctx context.Context, seq uint64) (*big.Int, error) {
	return a.node.token.GetPastTotalSupply(ctx, seq)
}

func (a *APIAdapter) Account(account common.Address) (api.AccountInfo, error) {
	tok := a.node.token
	balance, err := tok.BalanceOf(account)
	if err != nil {
		return api.AccountInfo{}, err
	}
	delegate, err := tok.Delegates(account)
	if err != nil {
		return api.AccountInfo{}, err
	}
	votes, err := tok.GetVotes(account)
	if err != nil {
		return api.AccountInfo{}, err
	}
	checkpoints, err := tok.NumCheckpoints(account)
	if err != nil {
		return api.AccountInfo{}, err
	}
	return api.AccountInfo{
		Balance:     balance,
		Delegate:    delegate,
		Votes:       votes,
		Checkpoints: checkpoints,
	}, nil
}

func (a *APIAdapter) PastVotes(
	ctx context.Context,
	account common.Address,
	seq uint64,
) (*big.Int, error) {
	return a.node.token.GetPastVotes(ctx, account, seq)
}

func (a *APIAdapter) GovernanceParams() (governance.Params, error) {
	return a.node.registry.Params()
}

func (a *APIAdapter) Proposals() ([]governance.Proposal, error) {
	return a.node.registry.Proposals()
}

func (a *APIAdapter) Proposal(id uint64) (governance.Proposal, error) {
	return a.node.registry.Proposal(id)
}

func (a *APIAdapter) ProposalState(
	ctx context.Context,
	id uint64,
) (governance.ProposalState, error) {
	return a.node.registry.State(ctx, id)
}

func (a *APIAdapter) Receipt(
	id uint64,
	voter common.Address,
) (governance.Receipt, bool, error) {
	return a.node.registry.Receipt(id, voter)
}

func (a *APIAdapter) Events(from uint64, limit int) ([]database.JournalEntry, error) {
	return a.node.db.ListEvents(from, limit)
}
