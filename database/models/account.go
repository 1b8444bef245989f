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

package models

import (
	"errors"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/ethereum/go-ethereum/common"
)

var ErrAccountNotFound = errors.New("account not found")

// Account holds the balance and current delegate of a single holder.
// An empty Delegate means the account has not delegated.
type Account struct {
	Address         []byte       `gorm:"uniqueIndex;size:20;not null"`
	Delegate        []byte       `gorm:"index;size:20"`
	Balance         types.BigInt `gorm:"not null"`
	ID              uint         `gorm:"primarykey"`
	UpdatedSequence uint64       `gorm:"index"`
}

func (Account) TableName() string {
	return "account"
}

// AccountAddress returns the account identity
func (a *Account) AccountAddress() common.Address {
	return common.BytesToAddress(a.Address)
}

// DelegateAddress returns the current delegate, or the zero address when
// the account has not delegated
func (a *Account) DelegateAddress() common.Address {
	if len(a.Delegate) == 0 {
		return common.Address{}
	}
	return common.BytesToAddress(a.Delegate)
}

// Allowance is the amount a spender may move on behalf of an owner
type Allowance struct {
	Owner   []byte       `gorm:"uniqueIndex:idx_allowance_owner_spender,priority:1;size:20;not null"`
	Spender []byte       `gorm:"uniqueIndex:idx_allowance_owner_spender,priority:2;size:20;not null"`
	Amount  types.BigInt `gorm:"not null"`
	ID      uint         `gorm:"primarykey"`
}

func (Allowance) TableName() string {
	return "allowance"
}
