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

// Package chain owns the sequence number that orders all ledger activity.
// The sequence number is persisted as the database tip and only moves
// forward.
package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/event"
	"github.com/prometheus/client_golang/prometheus"
)

// Current returns the current sequence number as seen by txn
func Current(db *database.Database, txn *database.Txn) (uint64, error) {
	seq, err := db.GetTip(txn)
	if err != nil {
		return 0, fmt.Errorf("get tip: %w", err)
	}
	return seq, nil
}

type SequencerConfig struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// Interval between automatic advances while running. Zero disables
	// the ticker and leaves the sequence under manual control.
	Interval time.Duration
}

// Sequencer advances the sequence number, either on demand or on a ticker
type Sequencer struct {
	config  SequencerConfig
	logger  *slog.Logger
	metrics *sequencerMetrics
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	runMu   sync.Mutex
	running bool
}

func NewSequencer(cfg SequencerConfig) (*Sequencer, error) {
	if cfg.Database == nil {
		return nil, errors.New("sequencer requires a database")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Sequencer{
		config: cfg,
		logger: cfg.Logger.With("component", "chain"),
	}
	if cfg.PromRegistry != nil {
		s.initMetrics(cfg.PromRegistry)
	}
	seq, err := s.Current()
	if err != nil {
		return nil, err
	}
	s.metrics.setSequence(seq)
	return s, nil
}

// Current returns the current sequence number
func (s *Sequencer) Current() (uint64, error) {
	return Current(s.config.Database, nil)
}

// Advance moves the sequence number forward by steps and returns the new
// value
func (s *Sequencer) Advance(ctx context.Context, steps uint64) (uint64, error) {
	if steps == 0 {
		return 0, ErrZeroAdvance
	}
	return s.advance(ctx, func(current uint64) (uint64, error) {
		if current > math.MaxUint64-steps {
			return 0, ErrSequenceOverflow
		}
		return current + steps, nil
	})
}

// AdvanceTo moves the sequence number to target. Moving to the current
// value is a no-op.
func (s *Sequencer) AdvanceTo(ctx context.Context, target uint64) (uint64, error) {
	return s.advance(ctx, func(current uint64) (uint64, error) {
		if target < current {
			return 0, NewSequenceRegressionError(current, target)
		}
		return target, nil
	})
}

func (s *Sequencer) advance(
	ctx context.Context,
	nextFunc func(uint64) (uint64, error),
) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	db := s.config.Database
	var previous, next uint64
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		var err error
		previous, err = Current(db, txn)
		if err != nil {
			return err
		}
		next, err = nextFunc(previous)
		if err != nil {
			return err
		}
		if next == previous {
			return nil
		}
		if err := db.SetTip(next, txn); err != nil {
			return fmt.Errorf("set tip: %w", err)
		}
		return txn.Emit(
			event.SequenceAdvancedEventType,
			next,
			event.SequenceAdvancedEvent{Previous: previous, Current: next},
		)
	})
	if err != nil {
		return 0, err
	}
	if next != previous {
		s.metrics.advanced(next)
		s.logger.Debug(
			"sequence advanced",
			"previous", previous,
			"current", next,
		)
	}
	if s.config.EventBus != nil {
		for _, evt := range txn.Events() {
			s.config.EventBus.Publish(evt)
		}
	}
	return next, nil
}

// Start runs the ticker until ctx is done or Stop is called. It returns
// immediately and does nothing when no interval is configured.
func (s *Sequencer) Start(ctx context.Context) {
	if s.config.Interval <= 0 {
		return
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return
	}
	s.running = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(runCtx)
	s.logger.Info(
		"sequencer started",
		"interval", s.config.Interval.String(),
	)
}

// Stop halts the ticker and waits for it to exit
func (s *Sequencer) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.runMu.Unlock()
	s.wg.Wait()
}

func (s *Sequencer) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Advance(ctx, 1); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("failed to advance sequence", "error", err)
			}
		}
	}
}
