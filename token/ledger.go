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
	"fmt"
	"math/big"

	"github.com/blinklabs-io/quorum/checkpoint"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
	"github.com/ethereum/go-ethereum/common"
)

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// loadAccount returns the stored account, or a new empty one
func (t *Token) loadAccount(
	txn *database.Txn,
	address common.Address,
) (*models.Account, error) {
	account, err := t.db.GetAccount(address.Bytes(), txn)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", address.Hex(), err)
	}
	if account == nil {
		account = &models.Account{
			Address: address.Bytes(),
			Balance: types.NewBigInt(nil),
		}
	}
	return account, nil
}

func (t *Token) saveAccount(
	txn *database.Txn,
	seq uint64,
	account *models.Account,
) error {
	account.UpdatedSequence = seq
	if err := t.db.SetAccount(account, txn); err != nil {
		return fmt.Errorf(
			"store account %s: %w",
			account.AccountAddress().Hex(),
			err,
		)
	}
	return nil
}

// moveBalance moves amount from one account to another. A zero from mints
// and a zero to burns; both adjust the total supply checkpoint. Voting
// weight follows the balance between the two accounts' delegates.
func (t *Token) moveBalance(
	txn *database.Txn,
	seq uint64,
	from common.Address,
	to common.Address,
	amount *big.Int,
) error {
	var fromDelegate, toDelegate common.Address
	if from == (common.Address{}) {
		supply, err := checkpoint.Latest(t.db, checkpoint.TotalSupplyKey, txn)
		if err != nil {
			return err
		}
		supply.Add(supply, amount)
		if supply.Cmp(MaxSupply) > 0 {
			return fmt.Errorf("%w: %s", ErrSupplyOverflow, supply.String())
		}
		if err := checkpoint.Write(
			t.db,
			checkpoint.TotalSupplyKey,
			seq,
			supply,
			txn,
		); err != nil {
			return err
		}
	} else {
		fromAccount, err := t.loadAccount(txn, from)
		if err != nil {
			return err
		}
		balance := fromAccount.Balance.Big()
		if balance.Cmp(amount) < 0 {
			return InsufficientBalanceError{
				Account: from,
				Balance: balance,
				Needed:  new(big.Int).Set(amount),
			}
		}
		fromAccount.Balance = types.NewBigInt(balance.Sub(balance, amount))
		if err := t.saveAccount(txn, seq, fromAccount); err != nil {
			return err
		}
		fromDelegate = fromAccount.DelegateAddress()
	}
	if to == (common.Address{}) {
		supply, err := checkpoint.Latest(t.db, checkpoint.TotalSupplyKey, txn)
		if err != nil {
			return err
		}
		if err := checkpoint.Write(
			t.db,
			checkpoint.TotalSupplyKey,
			seq,
			supply.Sub(supply, amount),
			txn,
		); err != nil {
			return err
		}
	} else {
		toAccount, err := t.loadAccount(txn, to)
		if err != nil {
			return err
		}
		balance := toAccount.Balance.Big()
		toAccount.Balance = types.NewBigInt(balance.Add(balance, amount))
		if err := t.saveAccount(txn, seq, toAccount); err != nil {
			return err
		}
		toDelegate = toAccount.DelegateAddress()
	}
	if err := txn.Emit(
		event.TransferEventType,
		seq,
		event.TransferEvent{
			From:   from,
			To:     to,
			Amount: new(big.Int).Set(amount),
		},
	); err != nil {
		return err
	}
	return t.moveVotingWeight(txn, seq, fromDelegate, toDelegate, amount)
}

// moveVotingWeight shifts amount of voting weight between two delegates.
// A zero delegate stands for weight that counts toward nobody.
func (t *Token) moveVotingWeight(
	txn *database.Txn,
	seq uint64,
	src common.Address,
	dst common.Address,
	amount *big.Int,
) error {
	if src == dst || amount.Sign() == 0 {
		return nil
	}
	if src != (common.Address{}) {
		if err := t.adjustVotes(txn, seq, src, new(big.Int).Neg(amount)); err != nil {
			return err
		}
	}
	if dst != (common.Address{}) {
		if err := t.adjustVotes(txn, seq, dst, amount); err != nil {
			return err
		}
	}
	return nil
}

func (t *Token) adjustVotes(
	txn *database.Txn,
	seq uint64,
	delegate common.Address,
	delta *big.Int,
) error {
	series := checkpoint.AccountKey(delegate)
	previous, err := checkpoint.Latest(t.db, series, txn)
	if err != nil {
		return err
	}
	votes := new(big.Int).Add(previous, delta)
	if votes.Sign() < 0 {
		// Delegate weight is backed by delegator balances
		return fmt.Errorf(
			"voting weight of %s would become negative",
			delegate.Hex(),
		)
	}
	if err := checkpoint.Write(t.db, series, seq, votes, txn); err != nil {
		return err
	}
	return txn.Emit(
		event.DelegateVotesChangedEventType,
		seq,
		event.DelegateVotesChangedEvent{
			Delegate:      delegate,
			PreviousVotes: previous,
			NewVotes:      new(big.Int).Set(votes),
		},
	)
}

func (t *Token) changeDelegate(
	txn *database.Txn,
	seq uint64,
	delegator common.Address,
	newDelegate common.Address,
) error {
	account, err := t.loadAccount(txn, delegator)
	if err != nil {
		return err
	}
	oldDelegate := account.DelegateAddress()
	if newDelegate == (common.Address{}) {
		account.Delegate = nil
	} else {
		account.Delegate = newDelegate.Bytes()
	}
	if err := t.saveAccount(txn, seq, account); err != nil {
		return err
	}
	if err := txn.Emit(
		event.DelegateChangedEventType,
		seq,
		event.DelegateChangedEvent{
			Delegator:    delegator,
			FromDelegate: oldDelegate,
			ToDelegate:   newDelegate,
		},
	); err != nil {
		return err
	}
	return t.moveVotingWeight(
		txn,
		seq,
		oldDelegate,
		newDelegate,
		account.Balance.Big(),
	)
}

func (t *Token) loadAllowance(
	txn *database.Txn,
	owner common.Address,
	spender common.Address,
) (*models.Allowance, error) {
	allowance, err := t.db.GetAllowance(owner.Bytes(), spender.Bytes(), txn)
	if err != nil {
		return nil, fmt.Errorf("load allowance: %w", err)
	}
	if allowance == nil {
		allowance = &models.Allowance{
			Owner:   owner.Bytes(),
			Spender: spender.Bytes(),
			Amount:  types.NewBigInt(nil),
		}
	}
	return allowance, nil
}

func (t *Token) setAllowance(
	txn *database.Txn,
	seq uint64,
	owner common.Address,
	spender common.Address,
	amount *big.Int,
	emit bool,
) error {
	allowance, err := t.loadAllowance(txn, owner, spender)
	if err != nil {
		return err
	}
	allowance.Amount = types.NewBigInt(amount)
	if err := t.db.SetAllowance(allowance, txn); err != nil {
		return fmt.Errorf("store allowance: %w", err)
	}
	if !emit {
		return nil
	}
	return txn.Emit(
		event.ApprovalEventType,
		seq,
		event.ApprovalEvent{
			Owner:   owner,
			Spender: spender,
			Amount:  new(big.Int).Set(amount),
		},
	)
}
