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

package models

import (
	"errors"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrProposalNotFound         = errors.New("proposal not found")
	ErrGovernanceParamsNotFound = errors.New("governance params not found")
)

// GovernanceParams is the single parameter row of the governance registry
type GovernanceParams struct {
	TokenAddress       []byte `gorm:"size:20;not null"`
	Authority          []byte `gorm:"size:20;not null"`
	ID                 uint   `gorm:"primarykey"`
	QuorumNumerator    uint64 `gorm:"not null"`
	VotingPeriodLength uint64 `gorm:"not null"`
}

func (GovernanceParams) TableName() string {
	return "governance_params"
}

// Proposal is a governance proposal. IDs are assigned from 1 and proposals
// are never deleted.
type Proposal struct {
	Proposer     []byte       `gorm:"index;size:20;not null"`
	Description  string       `gorm:"not null"`
	ForVotes     types.BigInt `gorm:"not null"`
	AgainstVotes types.BigInt `gorm:"not null"`
	ID           uint64       `gorm:"primaryKey;autoIncrement:false"`
	Snapshot     uint64       `gorm:"index;not null"`
	Start        uint64       `gorm:"not null"`
	End          uint64       `gorm:"index;not null"`
	Canceled     bool
	Executed     bool
}

func (Proposal) TableName() string {
	return "proposal"
}

// ProposerAddress returns the identity that created the proposal
func (p *Proposal) ProposerAddress() common.Address {
	return common.BytesToAddress(p.Proposer)
}

// VoteReceipt records that a voter has voted on a proposal. Receipts are
// written once per (proposal, voter) pair.
type VoteReceipt struct {
	Voter      []byte       `gorm:"uniqueIndex:idx_vote_receipt_proposal_voter,priority:2;size:20;not null"`
	Weight     types.BigInt `gorm:"not null"`
	ID         uint         `gorm:"primarykey"`
	ProposalID uint64       `gorm:"uniqueIndex:idx_vote_receipt_proposal_voter,priority:1;not null"`
	Sequence   uint64
	Support    bool
}

func (VoteReceipt) TableName() string {
	return "vote_receipt"
}

// VoterAddress returns the identity that cast the vote
func (v *VoteReceipt) VoterAddress() common.Address {
	return common.BytesToAddress(v.Voter)
}
