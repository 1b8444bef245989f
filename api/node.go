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

package api

import (
	"context"
	"math/big"

	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/ethereum/go-ethereum/common"
)

// Node is what the API server queries. It decouples the HTTP handlers from
// the concrete node and allows testing with mock implementations.
type Node interface {
	// Tip returns the current sequence number
	Tip() (uint64, error)

	TokenInfo() TokenInfo
	TotalSupply() (*big.Int, error)
	PastTotalSupply(ctx context.Context, seq uint64) (*big.Int, error)
	Account(account common.Address) (AccountInfo, error)
	PastVotes(ctx context.Context, account common.Address, seq uint64) (*big.Int, error)

	GovernanceParams() (governance.Params, error)
	Proposals() ([]governance.Proposal, error)
	Proposal(id uint64) (governance.Proposal, error)
	ProposalState(ctx context.Context, id uint64) (governance.ProposalState, error)
	Receipt(id uint64, voter common.Address) (governance.Receipt, bool, error)

	// Events returns up to limit journal entries starting at index from
	Events(from uint64, limit int) ([]database.JournalEntry, error)
}

// TokenInfo holds the token metadata needed by the API
type TokenInfo struct {
	Name     string
	Symbol   string
	Address  common.Address
	Owner    common.Address
	Decimals uint8
}

// AccountInfo holds the current state of an account
type AccountInfo struct {
	Balance     *big.Int
	Votes       *big.Int
	Delegate    common.Address
	Checkpoints int64
}
