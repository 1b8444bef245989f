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

package gormstore

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const governanceParamsRowId = 1

// GetGovernanceParams returns the registry parameters, or nil if the
// registry has not been initialized
func (s *Store) GetGovernanceParams(
	txn types.Txn,
) (*models.GovernanceParams, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.GovernanceParams{}
	result := db.First(ret, governanceParamsRowId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

func (s *Store) SetGovernanceParams(
	params *models.GovernanceParams,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	params.ID = governanceParamsRowId
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{
				"token_address",
				"authority",
				"quorum_numerator",
				"voting_period_length",
			},
		),
	}).Create(params)
	if result.Error != nil {
		return fmt.Errorf("set governance params: %w", result.Error)
	}
	return nil
}

// GetProposal returns a proposal by ID, or nil if it does not exist
func (s *Store) GetProposal(
	id uint64,
	txn types.Txn,
) (*models.Proposal, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Proposal{}
	result := db.First(ret, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetProposals returns all proposals in ID order
func (s *Store) GetProposals(txn types.Txn) ([]models.Proposal, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Proposal
	if result := db.Order("id ASC").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetLatestProposalID returns the highest assigned proposal ID, or 0
func (s *Store) GetLatestProposalID(txn types.Txn) (uint64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var ret models.Proposal
	result := db.Order("id DESC").Limit(1).Find(&ret)
	if result.Error != nil {
		return 0, result.Error
	}
	return ret.ID, nil
}

// SetProposal creates or fully updates a proposal
func (s *Store) SetProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(proposal); result.Error != nil {
		return fmt.Errorf("set proposal: %w", result.Error)
	}
	return nil
}

// GetVoteReceipt returns the receipt for (proposal, voter), or nil
func (s *Store) GetVoteReceipt(
	proposalID uint64,
	voter []byte,
	txn types.Txn,
) (*models.VoteReceipt, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.VoteReceipt{}
	result := db.First(ret, "proposal_id = ? AND voter = ?", proposalID, voter)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetVoteReceipts returns all receipts of a proposal
func (s *Store) GetVoteReceipts(
	proposalID uint64,
	txn types.Txn,
) ([]models.VoteReceipt, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.VoteReceipt
	result := db.Where("proposal_id = ?", proposalID).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// AddVoteReceipt inserts a receipt. A second receipt for the same
// (proposal, voter) violates the unique index and fails.
func (s *Store) AddVoteReceipt(
	receipt *models.VoteReceipt,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(receipt); result.Error != nil {
		return fmt.Errorf("add vote receipt: %w", result.Error)
	}
	return nil
}
