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

package event

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSubscriber struct {
	mu     sync.Mutex
	closed bool
	panics bool
}

func (m *mockSubscriber) Deliver(Event) error {
	if m.panics {
		panic("deliver panic")
	}
	return errors.New("deliver failed")
}

func (m *mockSubscriber) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockSubscriber) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestDeliverFailureUnregisters(t *testing.T) {
	for _, panics := range []bool{false, true} {
		eb := NewEventBus(nil, nil)
		sub := &mockSubscriber{panics: panics}
		subId := eb.RegisterSubscriber("test.fail", sub)
		require.NotZero(t, subId)
		eb.Publish(NewEvent("test.fail", "x"))
		eb.mu.RLock()
		_, exists := eb.subscribers["test.fail"][subId]
		eb.mu.RUnlock()
		assert.False(t, exists, "subscriber should be removed after deliver failure")
		assert.True(t, sub.isClosed())
		eb.Stop()
	}
}

func TestChannelSubscriberDeliverNonBlocking(t *testing.T) {
	const bufferSize = 5
	sub := newChannelSubscriber(bufferSize, nil)
	for i := range bufferSize {
		require.NoError(t, sub.Deliver(NewEvent("test", i)))
	}
	done := make(chan error, 1)
	go func() {
		done <- sub.Deliver(NewEvent("test", "overflow"))
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Deliver blocked on full channel buffer")
	}
	for i := range bufferSize {
		evt := <-sub.ch
		assert.Equal(t, i, evt.Data)
	}
	assert.Equal(t, uint64(1), sub.dropped)
	sub.Close()
}

func TestChannelSubscriberDeliverAfterClose(t *testing.T) {
	sub := newChannelSubscriber(1, nil)
	sub.Close()
	sub.Close()
	assert.NoError(t, sub.Deliver(NewEvent("test", "closed")))
	_, ok := <-sub.ch
	assert.False(t, ok)
}
