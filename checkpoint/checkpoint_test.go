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

package checkpoint_test

import (
	"math/big"
	"testing"

	"github.com/blinklabs-io/quorum/checkpoint"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpperLookup(t *testing.T) {
	s, err := checkpoint.NewSeries(
		checkpoint.Checkpoint{Sequence: 2, Value: big.NewInt(10)},
		checkpoint.Checkpoint{Sequence: 5, Value: big.NewInt(20)},
		checkpoint.Checkpoint{Sequence: 9, Value: big.NewInt(5)},
	)
	require.NoError(t, err)
	testDefs := []struct {
		sequence uint64
		expected int64
	}{
		{0, 0},
		{1, 0},
		{2, 10},
		{4, 10},
		{5, 20},
		{8, 20},
		{9, 5},
		{1000, 5},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			0,
			s.UpperLookup(testDef.sequence).Cmp(big.NewInt(testDef.expected)),
			"lookup at %d",
			testDef.sequence,
		)
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Latest().Cmp(big.NewInt(5)))
}

func TestEmptySeries(t *testing.T) {
	s, err := checkpoint.NewSeries()
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Latest().Sign())
	assert.Zero(t, s.UpperLookup(100).Sign())
	assert.Empty(t, s.Checkpoints())
}

func TestPushCoalescesSameSequence(t *testing.T) {
	s, err := checkpoint.NewSeries()
	require.NoError(t, err)
	coalesced, err := s.Push(3, big.NewInt(1))
	require.NoError(t, err)
	assert.False(t, coalesced)
	coalesced, err = s.Push(3, big.NewInt(7))
	require.NoError(t, err)
	assert.True(t, coalesced)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.UpperLookup(3).Cmp(big.NewInt(7)))
}

func TestPushOutOfOrder(t *testing.T) {
	s, err := checkpoint.NewSeries(
		checkpoint.Checkpoint{Sequence: 4, Value: big.NewInt(1)},
	)
	require.NoError(t, err)
	_, err = s.Push(3, big.NewInt(2))
	assert.ErrorIs(t, err, checkpoint.ErrOutOfOrder)
	_, err = checkpoint.NewSeries(
		checkpoint.Checkpoint{Sequence: 4, Value: big.NewInt(1)},
		checkpoint.Checkpoint{Sequence: 1, Value: big.NewInt(1)},
	)
	assert.ErrorIs(t, err, checkpoint.ErrOutOfOrder)
}

func TestSeriesValuesAreCopied(t *testing.T) {
	value := big.NewInt(10)
	s, err := checkpoint.NewSeries(
		checkpoint.Checkpoint{Sequence: 1, Value: value},
	)
	require.NoError(t, err)
	value.SetInt64(99)
	assert.Equal(t, 0, s.Latest().Cmp(big.NewInt(10)))
	s.Latest().SetInt64(50)
	s.At(0).Value.SetInt64(50)
	assert.Equal(t, 0, s.UpperLookup(1).Cmp(big.NewInt(10)))
}

func TestFromModels(t *testing.T) {
	s, err := checkpoint.FromModels([]models.Checkpoint{
		{Series: "x", Sequence: 1, Value: types.NewBigInt(big.NewInt(3))},
		{Series: "x", Sequence: 2, Value: types.NewBigInt(big.NewInt(4))},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(2), s.At(1).Sequence)
	_, err = checkpoint.FromModels([]models.Checkpoint{
		{Series: "x", Sequence: 2},
		{Series: "x", Sequence: 1},
	})
	assert.ErrorIs(t, err, checkpoint.ErrOutOfOrder)
}

func TestAccountKey(t *testing.T) {
	addr := common.HexToAddress("0xabcdef0000000000000000000000000000000001")
	key := checkpoint.AccountKey(addr)
	assert.Equal(t, "votes:"+addr.Hex(), key)
	assert.NotEqual(t, checkpoint.TotalSupplyKey, key)
	assert.LessOrEqual(t, len(key), 64)
}

func TestStoreWrite(t *testing.T) {
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	defer db.Close()
	series := checkpoint.AccountKey(common.HexToAddress("0x01"))
	write := func(sequence uint64, value int64) error {
		txn := db.Transaction(true)
		return txn.Do(func(txn *database.Txn) error {
			return checkpoint.Write(db, series, sequence, big.NewInt(value), txn)
		})
	}
	require.NoError(t, write(1, 10))
	require.NoError(t, write(3, 30))
	// Same sequence overwrites the tail in place
	require.NoError(t, write(3, 35))
	err = write(2, 20)
	require.ErrorIs(t, err, checkpoint.ErrOutOfOrder)

	s, err := checkpoint.Load(db, series, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 0, s.UpperLookup(2).Cmp(big.NewInt(10)))
	assert.Equal(t, 0, s.UpperLookup(3).Cmp(big.NewInt(35)))
	latest, err := checkpoint.Latest(db, series, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, latest.Cmp(big.NewInt(35)))
	latest, err = checkpoint.Latest(db, checkpoint.TotalSupplyKey, nil)
	require.NoError(t, err)
	assert.Zero(t, latest.Sign())
}
