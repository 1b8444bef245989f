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
	"context"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/quorum/database"
	"github.com/ethereum/go-ethereum/common"
)

// Transfer moves amount from the caller to another account
func (t *Token) Transfer(
	ctx context.Context,
	caller common.Address,
	to common.Address,
	amount *big.Int,
) error {
	return t.update(ctx, "transfer", caller, func(txn *database.Txn, seq uint64) error {
		if caller == (common.Address{}) {
			return ErrInvalidSender
		}
		if to == (common.Address{}) {
			return ErrInvalidRecipient
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		return t.moveBalance(txn, seq, caller, to, amount)
	})
}

// Approve sets the amount spender may move out of the owner's balance
func (t *Token) Approve(
	ctx context.Context,
	owner common.Address,
	spender common.Address,
	amount *big.Int,
) error {
	return t.update(ctx, "approve", owner, func(txn *database.Txn, seq uint64) error {
		if owner == (common.Address{}) || spender == (common.Address{}) {
			return ErrInvalidSender
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		return t.setAllowance(txn, seq, owner, spender, amount, true)
	})
}

// TransferFrom moves amount from one account to another on behalf of the
// owner, spending the caller's allowance. UnlimitedAllowance is not spent.
func (t *Token) TransferFrom(
	ctx context.Context,
	spender common.Address,
	from common.Address,
	to common.Address,
	amount *big.Int,
) error {
	return t.update(ctx, "transfer_from", spender, func(txn *database.Txn, seq uint64) error {
		if from == (common.Address{}) || spender == (common.Address{}) {
			return ErrInvalidSender
		}
		if to == (common.Address{}) {
			return ErrInvalidRecipient
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		allowance, err := t.loadAllowance(txn, from, spender)
		if err != nil {
			return err
		}
		current := allowance.Amount.Big()
		if current.Cmp(UnlimitedAllowance) != 0 {
			if current.Cmp(amount) < 0 {
				return InsufficientAllowanceError{
					Owner:     from,
					Spender:   spender,
					Allowance: current,
					Needed:    new(big.Int).Set(amount),
				}
			}
			remaining := new(big.Int).Sub(current, amount)
			if err := t.setAllowance(txn, seq, from, spender, remaining, false); err != nil {
				return err
			}
		}
		return t.moveBalance(txn, seq, from, to, amount)
	})
}

// Mint creates amount new tokens for an account. Only the owner may mint.
func (t *Token) Mint(
	ctx context.Context,
	caller common.Address,
	to common.Address,
	amount *big.Int,
) error {
	return t.update(ctx, "mint", caller, func(txn *database.Txn, seq uint64) error {
		if caller != t.Owner() {
			return fmt.Errorf("%w: %s is not the token owner", ErrUnauthorized, caller.Hex())
		}
		if to == (common.Address{}) {
			return ErrInvalidRecipient
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		return t.moveBalance(txn, seq, common.Address{}, to, amount)
	})
}

// Burn destroys amount tokens held by from. The owner may burn from any
// account; other callers only from their own.
func (t *Token) Burn(
	ctx context.Context,
	caller common.Address,
	from common.Address,
	amount *big.Int,
) error {
	return t.update(ctx, "burn", caller, func(txn *database.Txn, seq uint64) error {
		if from == (common.Address{}) {
			return ErrInvalidSender
		}
		if caller != t.Owner() && caller != from {
			return fmt.Errorf(
				"%w: %s may not burn from %s",
				ErrUnauthorized,
				caller.Hex(),
				from.Hex(),
			)
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		return t.moveBalance(txn, seq, from, common.Address{}, amount)
	})
}

// Delegate assigns the voter's voting weight to a delegate. The zero
// address removes the delegation.
func (t *Token) Delegate(
	ctx context.Context,
	voter common.Address,
	delegate common.Address,
) error {
	return t.update(ctx, "delegate", voter, func(txn *database.Txn, seq uint64) error {
		if voter == (common.Address{}) {
			return ErrInvalidSender
		}
		return t.changeDelegate(txn, seq, voter, delegate)
	})
}
