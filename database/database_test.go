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

package database_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T, dataDir string) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewInMemory(t *testing.T) {
	db := newTestDatabase(t, "")
	assert.Empty(t, db.DataDir())
	assert.NotNil(t, db.Blob())
	assert.NotNil(t, db.Metadata())
	assert.Zero(t, db.JournalLength())
	tip, err := db.GetTip(nil)
	require.NoError(t, err)
	assert.Zero(t, tip)
}

func TestTxnCommitJournalsEvents(t *testing.T) {
	db := newTestDatabase(t, "")
	holder := common.HexToAddress("0x1000000000000000000000000000000000000001")
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := db.SetAccount(
			&models.Account{
				Address: holder.Bytes(),
				Balance: types.NewBigInt(big.NewInt(100)),
			},
			txn,
		); err != nil {
			return err
		}
		if err := txn.Emit(
			event.TransferEventType,
			3,
			event.TransferEvent{To: holder, Amount: big.NewInt(100)},
		); err != nil {
			return err
		}
		return txn.Emit(
			event.SequenceAdvancedEventType,
			3,
			event.SequenceAdvancedEvent{Previous: 2, Current: 3},
		)
	})
	require.NoError(t, err)
	evts := txn.Events()
	require.Len(t, evts, 2)
	assert.Equal(t, event.TransferEventType, evts[0].Type)
	assert.Equal(t, uint64(3), evts[0].Sequence)

	assert.Equal(t, uint64(2), db.JournalLength())
	entries, err := db.ListEvents(0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(1), entries[0].Index)
	assert.Equal(t, uint64(2), entries[1].Index)
	evt, err := entries[0].Event()
	require.NoError(t, err)
	transfer, ok := evt.Data.(event.TransferEvent)
	require.True(t, ok, "unexpected payload type %T", evt.Data)
	assert.Equal(t, holder, transfer.To)
	assert.Equal(t, common.Address{}, transfer.From)
	assert.Equal(t, 0, transfer.Amount.Cmp(big.NewInt(100)))
	assert.Equal(t, uint64(3), evt.Sequence)
	assert.True(t, evt.Timestamp.Equal(evts[0].Timestamp))

	entries, err = db.ListEvents(2, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, event.SequenceAdvancedEventType, entries[0].Type)

	entry, err := db.GetEvent(1)
	require.NoError(t, err)
	assert.Equal(t, event.TransferEventType, entry.Type)
	_, err = db.GetEvent(99)
	assert.ErrorIs(t, err, database.ErrEventNotFound)
}

func TestTxnRollbackDiscardsEvents(t *testing.T) {
	db := newTestDatabase(t, "")
	holder := common.HexToAddress("0x2000000000000000000000000000000000000002")
	errTest := errors.New("test failure")
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := db.SetAccount(
			&models.Account{
				Address: holder.Bytes(),
				Balance: types.NewBigInt(big.NewInt(5)),
			},
			txn,
		); err != nil {
			return err
		}
		if err := txn.Emit(
			event.TransferEventType,
			0,
			event.TransferEvent{To: holder, Amount: big.NewInt(5)},
		); err != nil {
			return err
		}
		return errTest
	})
	require.ErrorIs(t, err, errTest)
	assert.Empty(t, txn.Events())
	assert.Zero(t, db.JournalLength())
	account, err := db.GetAccount(holder.Bytes(), nil)
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestEmitReadOnly(t *testing.T) {
	db := newTestDatabase(t, "")
	txn := db.Transaction(false)
	defer txn.Release()
	assert.False(t, txn.ReadWrite())
	err := txn.Emit(event.TransferEventType, 0, event.TransferEvent{})
	assert.ErrorIs(t, err, types.ErrTxnReadOnly)
}

func TestJournalSurvivesReopen(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	for i := range 3 {
		txn := db.Transaction(true)
		require.NoError(t, txn.Do(func(txn *database.Txn) error {
			if err := db.SetTip(uint64(i+1), txn); err != nil {
				return err
			}
			return txn.Emit(
				event.SequenceAdvancedEventType,
				uint64(i+1),
				event.SequenceAdvancedEvent{
					Previous: uint64(i),
					Current:  uint64(i + 1),
				},
			)
		}))
	}
	require.NoError(t, db.Close())

	db = newTestDatabase(t, dataDir)
	assert.Equal(t, uint64(3), db.JournalLength())
	tip, err := db.GetTip(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), tip)
	txn := db.Transaction(true)
	require.NoError(t, txn.Do(func(txn *database.Txn) error {
		return txn.Emit(
			event.SequenceAdvancedEventType,
			4,
			event.SequenceAdvancedEvent{Previous: 3, Current: 4},
		)
	}))
	entries, err := db.ListEvents(0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, uint64(i+1), entry.Index)
	}
}

func TestCommitTimestampError(t *testing.T) {
	err := database.CommitTimestampError{
		MetadataTimestamp: 2,
		BlobTimestamp:     1,
	}
	assert.Equal(
		t,
		"commit timestamp mismatch: 2 (metadata) != 1 (blob)",
		err.Error(),
	)
}

func TestCommitTimestampMatchesAfterWrite(t *testing.T) {
	db := newTestDatabase(t, "")
	txn := db.Transaction(true)
	require.NoError(t, txn.Do(func(txn *database.Txn) error {
		return db.SetTip(1, txn)
	}))
	metadataTs, err := db.Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	blobTs, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Positive(t, metadataTs)
	assert.Equal(t, metadataTs, blobTs)
}
