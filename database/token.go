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

func (d *Database) GetTokenInfo(txn *Txn) (*models.TokenInfo, error) {
	return d.metadata.GetTokenInfo(txn.Metadata())
}

func (d *Database) SetTokenInfo(info *models.TokenInfo, txn *Txn) error {
	return d.metadata.SetTokenInfo(info, txn.Metadata())
}

// GetAccount returns the account for an address, or nil if the address has
// never held a balance or delegated
func (d *Database) GetAccount(
	address []byte,
	txn *Txn,
) (*models.Account, error) {
	return d.metadata.GetAccount(address, txn.Metadata())
}

func (d *Database) GetAccounts(txn *Txn) ([]models.Account, error) {
	return d.metadata.GetAccounts(txn.Metadata())
}

func (d *Database) SetAccount(account *models.Account, txn *Txn) error {
	return d.metadata.SetAccount(account, txn.Metadata())
}

func (d *Database) GetAllowance(
	owner []byte,
	spender []byte,
	txn *Txn,
) (*models.Allowance, error) {
	return d.metadata.GetAllowance(owner, spender, txn.Metadata())
}

func (d *Database) SetAllowance(allowance *models.Allowance, txn *Txn) error {
	return d.metadata.SetAllowance(allowance, txn.Metadata())
}
