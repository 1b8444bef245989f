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

package database

import (
	"github.com/blinklabs-io/quorum/database/models"
)

func (d *Database) GetGovernanceParams(
	txn *Txn,
) (*models.GovernanceParams, error) {
	return d.metadata.GetGovernanceParams(txn.Metadata())
}

func (d *Database) SetGovernanceParams(
	params *models.GovernanceParams,
	txn *Txn,
) error {
	return d.metadata.SetGovernanceParams(params, txn.Metadata())
}

// GetProposal returns a proposal by ID, or nil if it does not exist
func (d *Database) GetProposal(id uint64, txn *Txn) (*models.Proposal, error) {
	return d.metadata.GetProposal(id, txn.Metadata())
}

func (d *Database) GetProposals(txn *Txn) ([]models.Proposal, error) {
	return d.metadata.GetProposals(txn.Metadata())
}

// GetLatestProposalID returns the highest assigned proposal ID, or 0
func (d *Database) GetLatestProposalID(txn *Txn) (uint64, error) {
	return d.metadata.GetLatestProposalID(txn.Metadata())
}

func (d *Database) SetProposal(proposal *models.Proposal, txn *Txn) error {
	return d.metadata.SetProposal(proposal, txn.Metadata())
}

func (d *Database) GetVoteReceipt(
	proposalID uint64,
	voter []byte,
	txn *Txn,
) (*models.VoteReceipt, error) {
	return d.metadata.GetVoteReceipt(proposalID, voter, txn.Metadata())
}

func (d *Database) GetVoteReceipts(
	proposalID uint64,
	txn *Txn,
) ([]models.VoteReceipt, error) {
	return d.metadata.GetVoteReceipts(proposalID, txn.Metadata())
}

func (d *Database) AddVoteReceipt(receipt *models.VoteReceipt, txn *Txn) error {
	return d.metadata.AddVoteReceipt(receipt, txn.Metadata())
}
