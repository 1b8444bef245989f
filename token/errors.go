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

package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidRecipient      = errors.New("invalid recipient")
	ErrInvalidSender         = errors.New("invalid sender")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrFutureSequenceQuery   = errors.New("sequence number not yet finalized")
	ErrSupplyOverflow        = errors.New("total supply exceeds maximum")
	ErrTokenMismatch         = errors.New("stored token does not match configuration")
)

// InsufficientBalanceError reports a debit larger than the account balance
type InsufficientBalanceError struct {
	Balance *big.Int
	Needed  *big.Int
	Account common.Address
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: account %s has %s, needs %s",
		e.Account.Hex(),
		e.Balance.String(),
		e.Needed.String(),
	)
}

func (e InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// InsufficientAllowanceError reports a TransferFrom above the approved amount
type InsufficientAllowanceError struct {
	Allowance *big.Int
	Needed    *big.Int
	Owner     common.Address
	Spender   common.Address
}

func (e InsufficientAllowanceError) Error() string {
	return fmt.Sprintf(
		"insufficient allowance: spender %s may spend %s of %s, needs %s",
		e.Spender.Hex(),
		e.Allowance.String(),
		e.Owner.Hex(),
		e.Needed.String(),
	)
}

func (e InsufficientAllowanceError) Is(target error) bool {
	return target == ErrInsufficientAllowance
}

// FutureSequenceError reports a historical query at or beyond the current
// sequence number
type FutureSequenceError struct {
	Sequence uint64
	Current  uint64
}

func (e FutureSequenceError) Error() string {
	return fmt.Sprintf(
		"sequence number not yet finalized: %d >= current %d",
		e.Sequence,
		e.Current,
	)
}

func (e FutureSequenceError) Is(target error) bool {
	return target == ErrFutureSequenceQuery
}
