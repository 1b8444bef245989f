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

// GetLatestCheckpoint returns the newest checkpoint in a series, or nil
func (d *Database) GetLatestCheckpoint(
	series string,
	txn *Txn,
) (*models.Checkpoint, error) {
	return d.metadata.GetLatestCheckpoint(series, txn.Metadata())
}

// GetCheckpoints returns a series in ascending sequence order
func (d *Database) GetCheckpoints(
	series string,
	txn *Txn,
) ([]models.Checkpoint, error) {
	return d.metadata.GetCheckpoints(series, txn.Metadata())
}

func (d *Database) GetCheckpointCount(series string, txn *Txn) (int64, error) {
	return d.metadata.GetCheckpointCount(series, txn.Metadata())
}

func (d *Database) SetCheckpoint(checkpoint *models.Checkpoint, txn *Txn) error {
	return d.metadata.SetCheckpoint(checkpoint, txn.Metadata())
}
