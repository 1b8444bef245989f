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

package badger

import (
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...BlobStoreBadgerOptionFunc) *BlobStoreBadger {
	t.Helper()
	store, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestGetSetDelete(t *testing.T) {
	store := newTestStore(t)

	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("key"), []byte("value")))
	// Writes are visible within the same transaction
	val, err := store.Get(txn, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	val, err = store.Get(txn, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
	_, err = store.Get(txn, []byte("missing"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
	assert.ErrorIs(t, store.Set(txn, []byte("key"), []byte("x")), types.ErrTxnReadOnly)
	require.NoError(t, txn.Rollback())

	txn = store.NewTransaction(true)
	require.NoError(t, store.Delete(txn, []byte("key")))
	require.NoError(t, txn.Commit())
	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err = store.Get(txn, []byte("key"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := newTestStore(t)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("key"), []byte("value")))
	require.NoError(t, txn.Rollback())
	// A finished transaction can no longer be used
	_, err := store.Get(txn, []byte("key"))
	assert.Error(t, err)

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err = store.Get(txn, []byte("key"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestValidateTxn(t *testing.T) {
	store := newTestStore(t)
	other := newTestStore(t)
	_, err := store.Get(nil, []byte("key"))
	assert.ErrorIs(t, err, types.ErrNilTxn)
	txn := other.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err = store.Get(txn, []byte("key"))
	assert.Error(t, err)
}

func TestIterator(t *testing.T) {
	store := newTestStore(t)
	txn := store.NewTransaction(true)
	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, store.Set(txn, []byte(k), []byte(k)))
	}
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	prefix := []byte("a")
	it := store.NewIterator(txn, types.BlobIteratorOptions{Prefix: prefix})
	var keys []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, string(it.Item().Key()))
	}
	it.Close()
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"a1", "a2", "a3"}, keys)

	errIt := store.NewIterator(nil, types.BlobIteratorOptions{})
	assert.False(t, errIt.Valid())
	assert.ErrorIs(t, errIt.Err(), types.ErrNilTxn)
}

func TestCommitTimestamp(t *testing.T) {
	store := newTestStore(t)
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Zero(t, ts)

	txn := store.NewTransaction(true)
	require.NoError(t, store.SetCommitTimestamp(1700000000123, txn))
	require.NoError(t, txn.Commit())
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), ts)

	assert.ErrorIs(t, store.SetCommitTimestamp(1, nil), types.ErrNilTxn)
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	store := newTestStore(t, WithPromRegistry(registry))
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("k"), []byte("v")))
	_, err := store.Get(txn, []byte("k"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit())
	assert.InDelta(t, 1, testutil.ToFloat64(store.metrics.writes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(store.metrics.reads), 0)
}

func TestInMemoryDisablesGc(t *testing.T) {
	store := newTestStore(t, WithGc(time.Minute))
	assert.Zero(t, store.gcInterval)
	assert.Nil(t, store.gcTicker)
}
