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

import "github.com/blinklabs-io/quorum/database/models"

// GetTip returns the current sequence number
func (d *Database) GetTip(txn *Txn) (uint64, error) {
	tip, err := d.metadata.GetTip(txn.Metadata())
	if err != nil {
		return 0, err
	}
	return tip.Sequence, nil
}

// SetTip saves the current sequence number
func (d *Database) SetTip(sequence uint64, txn *Txn) error {
	return d.metadata.SetTip(
		&models.Tip{ID: 1, Sequence: sequence},
		txn.Metadata(),
	)
}
