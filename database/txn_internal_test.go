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
	"errors"
	"math/big"
	"testing"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommitFailed = errors.New("commit failed")

// failingCommitTxn discards the wrapped transaction and fails on commit
type failingCommitTxn struct {
	inner types.Txn
}

func (f *failingCommitTxn) Commit() error {
	_ = f.inner.Rollback()
	return errCommitFailed
}

func (f *failingCommitTxn) Rollback() error {
	return nil
}

func stageTransfer(t *testing.T, db *Database) *Txn {
	t.Helper()
	txn := db.Transaction(true)
	require.NoError(t, txn.Emit(
		event.TransferEventType,
		1,
		event.TransferEvent{
			To:     common.HexToAddress("0x3000000000000000000000000000000000000003"),
			Amount: big.NewInt(7),
		},
	))
	require.NoError(t, db.writeJournal(txn, db.journalNext))
	return txn
}

func TestCommitStoresMetadataFailureDropsJournal(t *testing.T) {
	db, err := New(&Config{})
	require.NoError(t, err)
	defer db.Close()
	txn := stageTransfer(t, db)
	txn.metadataTxn = &failingCommitTxn{inner: txn.metadataTxn}
	err = txn.commitStores()
	require.ErrorIs(t, err, errCommitFailed)
	assert.Zero(t, db.JournalLength())
	entries, err := db.ListEvents(0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The next commit reuses the first journal index
	txn = db.Transaction(true)
	require.NoError(t, txn.Emit(
		event.TransferEventType,
		2,
		event.TransferEvent{Amount: big.NewInt(1)},
	))
	require.NoError(t, txn.Commit())
	entries, err = db.ListEvents(0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(1), entries[0].Index)
	assert.Equal(t, uint64(2), entries[0].Sequence)
}

func TestCommitStoresBlobFailureKeepsJournalIndex(t *testing.T) {
	db, err := New(&Config{})
	require.NoError(t, err)
	defer db.Close()
	txn := stageTransfer(t, db)
	txn.blobTxn = &failingCommitTxn{inner: txn.blobTxn}
	err = txn.commitStores()
	require.ErrorIs(t, err, errCommitFailed)
	assert.Contains(t, err.Error(), "partial commit")
	assert.Zero(t, db.JournalLength())
}
