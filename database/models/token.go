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

	"github.com/ethereum/go-ethereum/common"
)

var ErrTokenInfoNotFound = errors.New("token info not found")

// TokenInfo is the single descriptive row of the voting token
type TokenInfo struct {
	Name     string `gorm:"not null"`
	Symbol   string `gorm:"not null"`
	Address  []byte `gorm:"size:20;not null"`
	Owner    []byte `gorm:"size:20;not null"`
	ID       uint   `gorm:"primarykey"`
	Decimals uint8  `gorm:"not null"`
}

func (TokenInfo) TableName() string {
	return "token_info"
}

func (t *TokenInfo) TokenAddress() common.Address {
	return common.BytesToAddress(t.Address)
}

func (t *TokenInfo) OwnerAddress() common.Address {
	return common.BytesToAddress(t.Owner)
}
