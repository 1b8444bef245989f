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

package chain_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/chain"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSequencer(
	t *testing.T,
	cfg chain.SequencerConfig,
) (*chain.Sequencer, *database.Database) {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	cfg.Database = db
	s, err := chain.NewSequencer(cfg)
	require.NoError(t, err)
	return s, db
}

func TestAdvance(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, evtCh := eb.Subscribe(event.SequenceAdvancedEventType)
	s, db := newTestSequencer(t, chain.SequencerConfig{EventBus: eb})
	ctx := context.Background()

	current, err := s.Current()
	require.NoError(t, err)
	assert.Zero(t, current)

	next, err := s.Advance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
	next, err = s.Advance(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), next)

	current, err = chain.Current(db, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), current)

	evt := <-evtCh
	assert.Equal(t, event.SequenceAdvancedEvent{Previous: 0, Current: 1}, evt.Data)
	evt = <-evtCh
	assert.Equal(t, event.SequenceAdvancedEvent{Previous: 1, Current: 5}, evt.Data)
	assert.Equal(t, uint64(5), evt.Sequence)
	assert.Equal(t, uint64(2), db.JournalLength())

	_, err = s.Advance(ctx, 0)
	assert.ErrorIs(t, err, chain.ErrZeroAdvance)
}

func TestAdvanceTo(t *testing.T) {
	s, db := newTestSequencer(t, chain.SequencerConfig{})
	ctx := context.Background()
	next, err := s.AdvanceTo(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), next)
	// Same value is a no-op and journals nothing
	next, err = s.AdvanceTo(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), next)
	assert.Equal(t, uint64(1), db.JournalLength())
	_, err = s.AdvanceTo(ctx, 9)
	assert.ErrorIs(t, err, chain.ErrSequenceRegression)
	var regression chain.SequenceRegressionError
	require.ErrorAs(t, err, &regression)
	assert.Equal(t, uint64(10), regression.Current())
	assert.Equal(t, uint64(9), regression.Target())
	_, err = s.Advance(ctx, math.MaxUint64)
	assert.ErrorIs(t, err, chain.ErrSequenceOverflow)
	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), current)
}

func TestAdvanceCanceledContext(t *testing.T) {
	s, _ := newTestSequencer(t, chain.SequencerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Advance(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTicker(t *testing.T) {
	s, _ := newTestSequencer(
		t,
		chain.SequencerConfig{Interval: 5 * time.Millisecond},
	)
	s.Start(context.Background())
	// Second Start is ignored
	s.Start(context.Background())
	require.Eventually(t, func() bool {
		current, err := s.Current()
		return err == nil && current >= 3
	}, 2*time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
	stopped, err := s.Current()
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, stopped, current)
}

func TestManualModeDoesNotTick(t *testing.T) {
	s, _ := newTestSequencer(t, chain.SequencerConfig{})
	s.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	current, err := s.Current()
	require.NoError(t, err)
	assert.Zero(t, current)
	s.Stop()
}

func TestSequencerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, _ := newTestSequencer(t, chain.SequencerConfig{PromRegistry: reg})
	_, err := s.Advance(context.Background(), 7)
	require.NoError(t, err)
	count, err := testutil.GatherAndCount(
		reg,
		"quorum_chain_sequence",
		"quorum_chain_advances_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
