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
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
)

// Txn is a wrapper that coordinates both metadata and blob transactions.
// Events emitted on a Txn are journaled in the blob store as part of the
// same commit and are available from Events once the commit succeeds.
type Txn struct {
	db          *Database
	blobTxn     types.Txn
	metadataTxn types.Txn
	pending     []event.Event
	committed   []event.Event
	lock        sync.Mutex
	finished    bool
	readWrite   bool
}

func NewTxn(db *Database, readWrite bool) *Txn {
	t := &Txn{db: db, readWrite: readWrite}
	if bs := db.Blob(); bs != nil {
		t.blobTxn = bs.NewTransaction(readWrite)
	}
	if ms := db.Metadata(); ms != nil {
		t.metadataTxn = ms.Transaction()
	}
	return t
}

func (t *Txn) DB() *Database {
	return t.db
}

// Metadata returns the underlying metadata transaction handle. A nil Txn
// yields a nil handle, which the stores treat as "no transaction".
func (t *Txn) Metadata() types.Txn {
	if t == nil {
		return nil
	}
	return t.metadataTxn
}

// Blob returns the blob transaction handle
func (t *Txn) Blob() types.Txn {
	if t == nil {
		return nil
	}
	return t.blobTxn
}

// ReadWrite reports whether the transaction can write
func (t *Txn) ReadWrite() bool {
	return t.readWrite
}

// Emit records an event to be journaled when the transaction commits
func (t *Txn) Emit(
	eventType event.EventType,
	sequence uint64,
	data any,
) error {
	if !t.readWrite {
		return types.ErrTxnReadOnly
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return errors.New("transaction already finished")
	}
	evt := event.NewEvent(eventType, data)
	evt.Sequence = sequence
	t.pending = append(t.pending, evt)
	return nil
}

// Events returns the events journaled by a successful commit, in emission
// order
func (t *Txn) Events() []event.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.committed
}

// Do executes the specified function in the context of the transaction. Any errors returned will result
// in the transaction being rolled back
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if err2 := t.Rollback(); err2 != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				err2,
				err,
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	// Fail fast if neither store is available for a read-write transaction
	if t.readWrite && t.blobTxn == nil && t.metadataTxn == nil {
		t.finished = true
		return types.ErrNoStoreAvailable
	}
	// No need to commit for read-only, but we do want to free up resources
	if !t.readWrite {
		return t.rollback()
	}
	t.db.journalMu.Lock()
	defer t.db.journalMu.Unlock()
	if len(t.pending) > 0 {
		if t.blobTxn == nil {
			_ = t.rollback()
			return types.ErrBlobStoreUnavailable
		}
		if err := t.db.writeJournal(t, t.db.journalNext); err != nil {
			_ = t.rollback()
			return fmt.Errorf("failed to write event journal: %w", err)
		}
	}
	// Update the commit timestamp in both DBs if using both
	if t.blobTxn != nil && t.metadataTxn != nil {
		commitTimestamp := time.Now().UnixMilli()
		if err := t.db.updateCommitTimestamp(t, commitTimestamp); err != nil {
			_ = t.rollback()
			return fmt.Errorf("failed to update commit timestamp: %w", err)
		}
	}
	err := t.commitStores()
	t.finished = true
	if err != nil {
		return err
	}
	t.committed = t.pending
	t.pending = nil
	return nil
}

// commitStores commits the metadata transaction and then the blob
// transaction. A metadata failure discards the staged journal entries with
// the blob transaction. Journal indexes are only taken once both succeed.
func (t *Txn) commitStores() error {
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Commit(); err != nil {
			_ = t.metadataTxn.Rollback()
			if t.blobTxn != nil {
				_ = t.blobTxn.Rollback()
			}
			return fmt.Errorf("metadata commit failed: %w", err)
		}
	}
	if t.blobTxn != nil {
		if err := t.blobTxn.Commit(); err != nil {
			t.db.logger.Error(
				"partial commit: metadata committed, blob failed",
				"error", err,
			)
			return fmt.Errorf(
				"partial commit: blob commit failed after metadata commit: %w",
				err,
			)
		}
	}
	t.db.journalNext += uint64(len(t.pending))
	return nil
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.rollback()
}

func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	var errs []error
	if t.blobTxn != nil {
		if err := t.blobTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("blob rollback: %w", err))
		}
	}
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("metadata rollback: %w", err))
		}
	}
	t.pending = nil
	t.finished = true
	return errors.Join(errs...)
}

// Release releases transaction resources. For read-only transactions, this
// releases locks and resources. For read-write transactions, this is equivalent
// to Rollback. Use this in defer statements for clean resource cleanup.
// Errors are logged but not returned, making this safe for deferred calls.
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"transaction release failed",
			"error", err,
			"read_write", t.readWrite,
		)
	}
}
