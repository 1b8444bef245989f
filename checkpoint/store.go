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

package checkpoint

import (
	"fmt"
	"math/big"

	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
)

// Load reads a stored series
func Load(db *database.Database, series string, txn *database.Txn) (*Series, error) {
	rows, err := db.GetCheckpoints(series, txn)
	if err != nil {
		return nil, fmt.Errorf("load checkpoints for %s: %w", series, err)
	}
	return FromModels(rows)
}

// Latest returns the newest stored value in a series, or zero
func Latest(db *database.Database, series string, txn *database.Txn) (*big.Int, error) {
	row, err := db.GetLatestCheckpoint(series, txn)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return new(big.Int), nil
	}
	return row.Value.Big(), nil
}

// Write stores a checkpoint, overwriting the tail row when it has the same
// sequence. A sequence below the stored tail returns ErrOutOfOrder.
func Write(
	db *database.Database,
	series string,
	sequence uint64,
	value *big.Int,
	txn *database.Txn,
) error {
	tail, err := db.GetLatestCheckpoint(series, txn)
	if err != nil {
		return err
	}
	row := &models.Checkpoint{
		Series:   series,
		Sequence: sequence,
		Value:    types.NewBigInt(value),
	}
	if tail != nil {
		if sequence < tail.Sequence {
			return fmt.Errorf(
				"%w: series %s at %d after %d",
				ErrOutOfOrder,
				series,
				sequence,
				tail.Sequence,
			)
		}
		if sequence == tail.Sequence {
			row.ID = tail.ID
		}
	}
	return db.SetCheckpoint(row, txn)
}
