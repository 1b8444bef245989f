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
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
	"github.com/fxamacker/cbor/v2"
)

const (
	journalKeyPrefix = "j"
	// DefaultJournalLimit bounds ListEvents when no limit is given
	DefaultJournalLimit = 100
)

var journalEncMode cbor.EncMode

func init() {
	var err error
	journalEncMode, err = cbor.EncOptions{
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal cbor encoder: %s", err))
	}
}

// JournalEntry is a persisted event. Index starts at 1 and increases by
// one per committed event.
type JournalEntry struct {
	Timestamp time.Time       `cbor:"timestamp"`
	Type      event.EventType `cbor:"type"`
	Payload   cbor.RawMessage `cbor:"payload"`
	Index     uint64          `cbor:"index"`
	Sequence  uint64          `cbor:"sequence"`
}

// Event decodes the entry back into a bus event. Data holds the payload
// struct by value, matching what was published on the bus.
func (j JournalEntry) Event() (event.Event, error) {
	payload, err := event.PayloadFor(j.Type)
	if err != nil {
		return event.Event{}, err
	}
	if err := cbor.Unmarshal(j.Payload, payload); err != nil {
		return event.Event{}, fmt.Errorf("decode %s payload: %w", j.Type, err)
	}
	return event.Event{
		Timestamp: j.Timestamp,
		Type:      j.Type,
		Sequence:  j.Sequence,
		Data:      reflect.ValueOf(payload).Elem().Interface(),
	}, nil
}

func journalKey(index uint64) []byte {
	key := make([]byte, len(journalKeyPrefix)+8)
	copy(key, journalKeyPrefix)
	binary.BigEndian.PutUint64(key[len(journalKeyPrefix):], index)
	return key
}

func journalIndex(key []byte) (uint64, error) {
	if len(key) != len(journalKeyPrefix)+8 {
		return 0, fmt.Errorf("invalid journal key length: %d", len(key))
	}
	return binary.BigEndian.Uint64(key[len(journalKeyPrefix):]), nil
}

// loadJournalHead finds the next free journal index
func (d *Database) loadJournalHead() error {
	txn := d.blob.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	iter := d.blob.NewIterator(
		txn,
		types.BlobIteratorOptions{
			Prefix:  []byte(journalKeyPrefix),
			Reverse: true,
		},
	)
	defer iter.Close()
	iter.Seek(journalKey(^uint64(0)))
	if err := iter.Err(); err != nil {
		return err
	}
	d.journalNext = 1
	if iter.ValidForPrefix([]byte(journalKeyPrefix)) {
		last, err := journalIndex(iter.Item().Key())
		if err != nil {
			return err
		}
		d.journalNext = last + 1
	}
	return nil
}

func (d *Database) writeJournal(txn *Txn, firstIndex uint64) error {
	for i, evt := range txn.pending {
		payload, err := journalEncMode.Marshal(evt.Data)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", evt.Type, err)
		}
		entry := JournalEntry{
			Index:     firstIndex + uint64(i),
			Sequence:  evt.Sequence,
			Type:      evt.Type,
			Timestamp: evt.Timestamp,
			Payload:   payload,
		}
		entryCbor, err := journalEncMode.Marshal(entry)
		if err != nil {
			return err
		}
		if err := d.blob.Set(txn.Blob(), journalKey(entry.Index), entryCbor); err != nil {
			return err
		}
	}
	return nil
}

// JournalLength returns the number of journaled events
func (d *Database) JournalLength() uint64 {
	d.journalMu.Lock()
	defer d.journalMu.Unlock()
	return d.journalNext - 1
}

// ListEvents returns up to limit journal entries starting at index from.
// A zero from starts at the first entry and a zero limit applies
// DefaultJournalLimit.
func (d *Database) ListEvents(from uint64, limit int) ([]JournalEntry, error) {
	if from == 0 {
		from = 1
	}
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	txn := d.blob.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	iter := d.blob.NewIterator(
		txn,
		types.BlobIteratorOptions{Prefix: []byte(journalKeyPrefix)},
	)
	defer iter.Close()
	ret := make([]JournalEntry, 0)
	for iter.Seek(journalKey(from)); iter.ValidForPrefix([]byte(journalKeyPrefix)); iter.Next() {
		if len(ret) >= limit {
			break
		}
		val, err := iter.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var entry JournalEntry
		if err := cbor.Unmarshal(val, &entry); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		ret = append(ret, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// GetEvent returns a single journal entry
func (d *Database) GetEvent(index uint64) (*JournalEntry, error) {
	txn := d.blob.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	val, err := d.blob.Get(txn, journalKey(index))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	var entry JournalEntry
	if err := cbor.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("decode journal entry: %w", err)
	}
	return &entry, nil
}

var ErrEventNotFound = errors.New("event not found")
