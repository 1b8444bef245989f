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

// GetLatestCheckpoint returns the checkpoint with the highest sequence in a
// series, or nil if the series is empty
func (s *Store) GetLatestCheckpoint(
	series string,
	txn types.Txn,
) (*models.Checkpoint, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Checkpoint{}
	result := db.Where("series = ?", series).
		Order("sequence DESC").
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetCheckpoints returns a full series in ascending sequence order
func (s *Store) GetCheckpoints(
	series string,
	txn types.Txn,
) ([]models.Checkpoint, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Checkpoint
	result := db.Where("series = ?", series).
		Order("sequence ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetCheckpointCount returns the number of entries in a series
func (s *Store) GetCheckpointCount(
	series string,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	result := db.Model(&models.Checkpoint{}).
		Where("series = ?", series).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// SetCheckpoint writes a checkpoint, replacing the value of an existing
// entry at the same (series, sequence)
func (s *Store) SetCheckpoint(
	checkpoint *models.Checkpoint,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if checkpoint.ID != 0 {
		if result := db.Save(checkpoint); result.Error != nil {
			return fmt.Errorf("set checkpoint: %w", result.Error)
		}
		return nil
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "series"},
			{Name: "sequence"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(checkpoint)
	if result.Error != nil {
		return fmt.Errorf("set checkpoint: %w", result.Error)
	}
	return nil
}
