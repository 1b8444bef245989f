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

package governance

import (
	"math/big"

	"github.com/blinklabs-io/quorum/database/models"
	"github.com/ethereum/go-ethereum/common"
)

// Proposal is a read-only view of a stored proposal
type Proposal struct {
	ForVotes     *big.Int       `json:"forVotes"`
	AgainstVotes *big.Int       `json:"againstVotes"`
	Description  string         `json:"description"`
	ID           uint64         `json:"id"`
	Snapshot     uint64         `json:"snapshot"`
	Start        uint64         `json:"start"`
	End          uint64         `json:"end"`
	Proposer     common.Address `json:"proposer"`
	Canceled     bool           `json:"canceled"`
	Executed     bool           `json:"executed"`
}

func proposalFromModel(row *models.Proposal) Proposal {
	return Proposal{
		ID:           row.ID,
		Proposer:     row.ProposerAddress(),
		Description:  row.Description,
		Snapshot:     row.Snapshot,
		Start:        row.Start,
		End:          row.End,
		ForVotes:     row.ForVotes.Big(),
		AgainstVotes: row.AgainstVotes.Big(),
		Canceled:     row.Canceled,
		Executed:     row.Executed,
	}
}

// Receipt records a cast vote
type Receipt struct {
	Weight     *big.Int       `json:"weight"`
	ProposalID uint64         `json:"proposalId"`
	Sequence   uint64         `json:"sequence"`
	Voter      common.Address `json:"voter"`
	Support    bool           `json:"support"`
}

func receiptFromModel(row *models.VoteReceipt) Receipt {
	return Receipt{
		ProposalID: row.ProposalID,
		Voter:      row.VoterAddress(),
		Support:    row.Support,
		Weight:     row.Weight.Big(),
		Sequence:   row.Sequence,
	}
}

// Proposal returns a proposal by ID
func (r *Registry) Proposal(id uint64) (Proposal, error) {
	row, err := r.db.GetProposal(id, nil)
	if err != nil {
		return Proposal{}, err
	}
	if row == nil {
		return Proposal{}, ErrProposalNotFound
	}
	return proposalFromModel(row), nil
}

// Proposals returns all proposals in ID order
func (r *Registry) Proposals() ([]Proposal, error) {
	rows, err := r.db.GetProposals(nil)
	if err != nil {
		return nil, err
	}
	ret := make([]Proposal, 0, len(rows))
	for i := range rows {
		ret = append(ret, proposalFromModel(&rows[i]))
	}
	return ret, nil
}

// ProposalCount returns the number of proposals ever created
func (r *Registry) ProposalCount() (uint64, error) {
	return r.db.GetLatestProposalID(nil)
}

func (r *Registry) HasVoted(id uint64, voter common.Address) (bool, error) {
	row, err := r.db.GetVoteReceipt(id, voter.Bytes(), nil)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// Receipt returns the vote of voter on a proposal. The second return value
// is false when no vote was cast.
func (r *Registry) Receipt(id uint64, voter common.Address) (Receipt, bool, error) {
	row, err := r.db.GetVoteReceipt(id, voter.Bytes(), nil)
	if err != nil || row == nil {
		return Receipt{}, false, err
	}
	return receiptFromModel(row), true, nil
}

// Receipts returns every vote cast on a proposal in casting order
func (r *Registry) Receipts(id uint64) ([]Receipt, error) {
	rows, err := r.db.GetVoteReceipts(id, nil)
	if err != nil {
		return nil, err
	}
	ret := make([]Receipt, 0, len(rows))
	for i := range rows {
		ret = append(ret, receiptFromModel(&rows[i]))
	}
	return ret, nil
}
