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

// Package checkpoint maintains sequence-keyed value histories. Each series
// holds strictly increasing sequence numbers; a lookup at S returns the
// value of the newest checkpoint at or before S.
package checkpoint

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/blinklabs-io/quorum/database/models"
	"github.com/ethereum/go-ethereum/common"
)

// TotalSupplyKey is the series holding the token total supply
const TotalSupplyKey = "supply"

const accountKeyPrefix = "votes:"

var ErrOutOfOrder = errors.New("checkpoint sequence out of order")

// AccountKey returns the series holding the voting weight of an account
func AccountKey(account common.Address) string {
	return accountKeyPrefix + account.Hex()
}

type Checkpoint struct {
	Value    *big.Int
	Sequence uint64
}

// Series is an ordered checkpoint history
type Series struct {
	points []Checkpoint
}

// NewSeries builds a series from checkpoints in ascending sequence order
func NewSeries(points ...Checkpoint) (*Series, error) {
	s := &Series{}
	for _, point := range points {
		if _, err := s.Push(point.Sequence, point.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FromModels builds a series from stored checkpoint rows
func FromModels(rows []models.Checkpoint) (*Series, error) {
	s := &Series{points: make([]Checkpoint, 0, len(rows))}
	for _, row := range rows {
		if _, err := s.Push(row.Sequence, row.Value.Big()); err != nil {
			return nil, fmt.Errorf("series %s: %w", row.Series, err)
		}
	}
	return s, nil
}

// Push appends a checkpoint. A checkpoint at the tail sequence replaces the
// tail value and reports true. A sequence below the tail is rejected.
func (s *Series) Push(sequence uint64, value *big.Int) (bool, error) {
	if value == nil {
		value = new(big.Int)
	}
	value = new(big.Int).Set(value)
	if n := len(s.points); n > 0 {
		tail := &s.points[n-1]
		switch {
		case sequence < tail.Sequence:
			return false, fmt.Errorf(
				"%w: %d after %d",
				ErrOutOfOrder,
				sequence,
				tail.Sequence,
			)
		case sequence == tail.Sequence:
			tail.Value = value
			return true, nil
		}
	}
	s.points = append(s.points, Checkpoint{Sequence: sequence, Value: value})
	return false, nil
}

// UpperLookup returns the value of the newest checkpoint with a sequence at
// or before the given one, or zero when there is none
func (s *Series) UpperLookup(sequence uint64) *big.Int {
	// First checkpoint strictly after sequence
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Sequence > sequence
	})
	if idx == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(s.points[idx-1].Value)
}

// Latest returns the newest value, or zero for an empty series
func (s *Series) Latest() *big.Int {
	if len(s.points) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(s.points[len(s.points)-1].Value)
}

func (s *Series) Len() int {
	return len(s.points)
}

// At returns the checkpoint at position i
func (s *Series) At(i int) Checkpoint {
	point := s.points[i]
	return Checkpoint{
		Sequence: point.Sequence,
		Value:    new(big.Int).Set(point.Value),
	}
}

// Checkpoints returns a copy of the series
func (s *Series) Checkpoints() []Checkpoint {
	ret := make([]Checkpoint, len(s.points))
	for i := range s.points {
		ret[i] = s.At(i)
	}
	return ret
}
