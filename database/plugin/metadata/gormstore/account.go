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

// GetAccount returns the account for an address, or nil if it has never held
// a balance or delegated
func (s *Store) GetAccount(
	address []byte,
	txn types.Txn,
) (*models.Account, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Account{}
	result := db.First(ret, "address = ?", address)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetAccounts returns all known accounts ordered by insertion
func (s *Store) GetAccounts(txn types.Txn) ([]models.Account, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Account
	if result := db.Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetAccount creates or updates an account keyed by address
func (s *Store) SetAccount(
	account *models.Account,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if account.ID != 0 {
		if result := db.Save(account); result.Error != nil {
			return fmt.Errorf("set account: %w", result.Error)
		}
		return nil
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"balance", "delegate", "updated_sequence"},
		),
	}).Create(account)
	if result.Error != nil {
		return fmt.Errorf("set account: %w", result.Error)
	}
	return nil
}

// GetAllowance returns the allowance granted by owner to spender, or nil
func (s *Store) GetAllowance(
	owner []byte,
	spender []byte,
	txn types.Txn,
) (*models.Allowance, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Allowance{}
	result := db.First(ret, "owner = ? AND spender = ?", owner, spender)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetAllowance creates or replaces the allowance for (owner, spender)
func (s *Store) SetAllowance(
	allowance *models.Allowance,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if allowance.ID != 0 {
		if result := db.Save(allowance); result.Error != nil {
			return fmt.Errorf("set allowance: %w", result.Error)
		}
		return nil
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner"},
			{Name: "spender"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"amount"}),
	}).Create(allowance)
	if result.Error != nil {
		return fmt.Errorf("set allowance: %w", result.Error)
	}
	return nil
}
