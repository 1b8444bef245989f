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

const (
	tokenInfoRowId = 1
	tipRowId       = 1
)

// GetTokenInfo returns the token description, or nil if no token exists yet
func (s *Store) GetTokenInfo(txn types.Txn) (*models.TokenInfo, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.TokenInfo{}
	result := db.First(ret, tokenInfoRowId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

func (s *Store) SetTokenInfo(
	info *models.TokenInfo,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	info.ID = tokenInfoRowId
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"name", "symbol", "address", "owner", "decimals"},
		),
	}).Create(info)
	if result.Error != nil {
		return fmt.Errorf("set token info: %w", result.Error)
	}
	return nil
}

// GetTip returns the current tip. An uninitialized tip is sequence 0.
func (s *Store) GetTip(txn types.Txn) (*models.Tip, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Tip{}
	result := db.First(ret, tipRowId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return &models.Tip{ID: tipRowId}, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

func (s *Store) SetTip(tip *models.Tip, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tip.ID = tipRowId
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sequence"}),
	}).Create(tip)
	if result.Error != nil {
		return fmt.Errorf("set tip: %w", result.Error)
	}
	return nil
}
