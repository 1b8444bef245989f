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
	"math/big"

	"github.com/blinklabs-io/quorum/chain"
	"github.com/blinklabs-io/quorum/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (t *Token) BalanceOf(account common.Address) (*big.Int, error) {
	row, err := t.db.GetAccount(account.Bytes(), nil)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return new(big.Int), nil
	}
	return row.Balance.Big(), nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return checkpoint.Latest(t.db, checkpoint.TotalSupplyKey, nil)
}

// Allowance returns the amount spender may still move for owner
func (t *Token) Allowance(owner, spender common.Address) (*big.Int, error) {
	row, err := t.db.GetAllowance(owner.Bytes(), spender.Bytes(), nil)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return new(big.Int), nil
	}
	return row.Amount.Big(), nil
}

// Delegates returns the current delegate of an account, or the zero address
func (t *Token) Delegates(account common.Address) (common.Address, error) {
	row, err := t.db.GetAccount(account.Bytes(), nil)
	if err != nil {
		return common.Address{}, err
	}
	if row == nil {
		return common.Address{}, nil
	}
	return row.DelegateAddress(), nil
}

// GetVotes returns the current voting weight of an account
func (t *Token) GetVotes(account common.Address) (*big.Int, error) {
	return checkpoint.Latest(t.db, checkpoint.AccountKey(account), nil)
}

// GetPastVotes returns the voting weight of an account at the end of
// sequence number seq, which must be in the past
func (t *Token) GetPastVotes(
	ctx context.Context,
	account common.Address,
	seq uint64,
) (*big.Int, error) {
	_, span := t.tracer.Start(
		ctx,
		"token.get_past_votes",
		trace.WithAttributes(
			attribute.String("account", account.Hex()),
			attribute.Int64("sequence", int64(seq)), // #nosec G115
		),
	)
	defer span.End()
	return t.pastLookup(checkpoint.AccountKey(account), seq)
}

// GetPastTotalSupply returns the total supply at the end of sequence number
// seq, which must be in the past
func (t *Token) GetPastTotalSupply(
	ctx context.Context,
	seq uint64,
) (*big.Int, error) {
	_, span := t.tracer.Start(
		ctx,
		"token.get_past_total_supply",
		trace.WithAttributes(
			attribute.Int64("sequence", int64(seq)), // #nosec G115
		),
	)
	defer span.End()
	return t.pastLookup(checkpoint.TotalSupplyKey, seq)
}

func (t *Token) pastLookup(series string, seq uint64) (*big.Int, error) {
	txn := t.db.Transaction(false)
	defer txn.Release()
	current, err := chain.Current(t.db, txn)
	if err != nil {
		return nil, err
	}
	if seq >= current {
		return nil, FutureSequenceError{Sequence: seq, Current: current}
	}
	s, err := checkpoint.Load(t.db, series, txn)
	if err != nil {
		return nil, err
	}
	return s.UpperLookup(seq), nil
}

// NumCheckpoints returns the number of voting weight checkpoints of an
// account
func (t *Token) NumCheckpoints(account common.Address) (int64, error) {
	return t.db.GetCheckpointCount(checkpoint.AccountKey(account), nil)
}

// Checkpoints returns the voting weight history of an account
func (t *Token) Checkpoints(
	account common.Address,
) ([]checkpoint.Checkpoint, error) {
	s, err := checkpoint.Load(t.db, checkpoint.AccountKey(account), nil)
	if err != nil {
		return nil, err
	}
	return s.Checkpoints(), nil
}

// SupplyCheckpoints returns the total supply history
func (t *Token) SupplyCheckpoints() ([]checkpoint.Checkpoint, error) {
	s, err := checkpoint.Load(t.db, checkpoint.TotalSupplyKey, nil)
	if err != nil {
		return nil, err
	}
	return s.Checkpoints(), nil
}

// Holders returns the balance of every account that has held tokens
func (t *Token) Holders() (map[common.Address]*big.Int, error) {
	rows, err := t.db.GetAccounts(nil)
	if err != nil {
		return nil, err
	}
	ret := make(map[common.Address]*big.Int, len(rows))
	for _, row := range rows {
		ret[row.AccountAddress()] = row.Balance.Big()
	}
	return ret, nil
}
