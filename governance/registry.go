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

// Package governance implements the proposal registry: proposals are voted
// on with token weight taken at a fixed snapshot and pass when the tally
// reaches a quorum of the total supply at that snapshot.
package governance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/blinklabs-io/quorum/chain"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	QuorumDenominator = 100

	tracerName = "github.com/blinklabs-io/quorum/governance"
)

// VotesSource provides historical voting weight. Implementations must only
// answer for sequence numbers before the current one.
type VotesSource interface {
	GetPastVotes(ctx context.Context, account common.Address, seq uint64) (*big.Int, error)
	GetPastTotalSupply(ctx context.Context, seq uint64) (*big.Int, error)
}

type Config struct {
	Database           *database.Database
	EventBus           *event.EventBus
	Logger             *slog.Logger
	PromRegistry       prometheus.Registerer
	Token              VotesSource
	TokenAddress       common.Address
	Authority          common.Address
	QuorumNumerator    uint64
	VotingPeriodLength uint64
}

// Params are the live registry parameters
type Params struct {
	TokenAddress       common.Address `json:"tokenAddress"`
	Authority          common.Address `json:"authority"`
	QuorumNumerator    uint64         `json:"quorumNumerator"`
	VotingPeriodLength uint64         `json:"votingPeriodLength"`
}

type Registry struct {
	config  Config
	db      *database.Database
	token   VotesSource
	logger  *slog.Logger
	metrics *registryMetrics
	tracer  trace.Tracer
	mu      sync.Mutex
}

func validateQuorum(numerator uint64) error {
	if numerator < 1 || numerator > QuorumDenominator {
		return fmt.Errorf("%w: %d", ErrInvalidQuorum, numerator)
	}
	return nil
}

func validateVotingPeriod(length uint64) error {
	if length == 0 {
		return ErrZeroVotingPeriod
	}
	return nil
}

// New opens the registry. The configured parameters are always validated
// but only persisted on first use; later calls keep the stored parameters,
// which the authority may have changed since.
func New(cfg Config) (*Registry, error) {
	if cfg.Database == nil {
		return nil, errors.New("registry requires a database")
	}
	if cfg.Token == nil || cfg.TokenAddress == (common.Address{}) {
		return nil, ErrZeroTokenAddress
	}
	if err := validateQuorum(cfg.QuorumNumerator); err != nil {
		return nil, err
	}
	if err := validateVotingPeriod(cfg.VotingPeriodLength); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	r := &Registry{
		config: cfg,
		db:     cfg.Database,
		token:  cfg.Token,
		logger: cfg.Logger.With("component", "governance"),
		tracer: otel.Tracer(tracerName),
	}
	if cfg.PromRegistry != nil {
		r.initMetrics(cfg.PromRegistry)
	}
	stored, err := r.db.GetGovernanceParams(nil)
	if err != nil {
		return nil, fmt.Errorf("load governance params: %w", err)
	}
	if stored != nil {
		if common.BytesToAddress(stored.TokenAddress) != cfg.TokenAddress {
			return nil, fmt.Errorf(
				"%w: %s",
				ErrTokenMismatch,
				common.BytesToAddress(stored.TokenAddress).Hex(),
			)
		}
		return r, nil
	}
	txn := r.db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		return r.db.SetGovernanceParams(
			&models.GovernanceParams{
				TokenAddress:       cfg.TokenAddress.Bytes(),
				Authority:          cfg.Authority.Bytes(),
				QuorumNumerator:    cfg.QuorumNumerator,
				VotingPeriodLength: cfg.VotingPeriodLength,
			},
			txn,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("store governance params: %w", err)
	}
	r.logger.Info(
		"governance registry initialized",
		"token", cfg.TokenAddress.Hex(),
		"authority", cfg.Authority.Hex(),
		"quorum_numerator", cfg.QuorumNumerator,
		"voting_period", cfg.VotingPeriodLength,
	)
	return r, nil
}

func paramsFromModel(row *models.GovernanceParams) Params {
	return Params{
		TokenAddress:       common.BytesToAddress(row.TokenAddress),
		Authority:          common.BytesToAddress(row.Authority),
		QuorumNumerator:    row.QuorumNumerator,
		VotingPeriodLength: row.VotingPeriodLength,
	}
}

func (r *Registry) loadParams(txn *database.Txn) (*models.GovernanceParams, error) {
	row, err := r.db.GetGovernanceParams(txn)
	if err != nil {
		return nil, fmt.Errorf("load governance params: %w", err)
	}
	if row == nil {
		return nil, models.ErrGovernanceParamsNotFound
	}
	return row, nil
}

// Params returns the current parameters
func (r *Registry) Params() (Params, error) {
	row, err := r.loadParams(nil)
	if err != nil {
		return Params{}, err
	}
	return paramsFromModel(row), nil
}

func (r *Registry) startSpan(
	ctx context.Context,
	op string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return r.tracer.Start(
		ctx,
		"governance."+op,
		trace.WithAttributes(attrs...),
	)
}

func (r *Registry) finish(span trace.Span, op string, err error) {
	r.metrics.record(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug(
			"governance operation failed",
			"op", op,
			"error", err,
		)
	}
	span.End()
}

// write runs fn in a read-write transaction at the current sequence number
// under the registry mutex and publishes the emitted events after commit
func (r *Registry) write(
	ctx context.Context,
	fn func(txn *database.Txn, seq uint64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	txn := r.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		seq, err := chain.Current(r.db, txn)
		if err != nil {
			return err
		}
		return fn(txn, seq)
	})
	if err != nil {
		return err
	}
	if r.config.EventBus != nil {
		for _, evt := range txn.Events() {
			r.config.EventBus.Publish(evt)
		}
	}
	return nil
}

func (r *Registry) requireAuthority(
	txn *database.Txn,
	caller common.Address,
) (*models.GovernanceParams, error) {
	params, err := r.loadParams(txn)
	if err != nil {
		return nil, err
	}
	if caller != common.BytesToAddress(params.Authority) {
		return nil, fmt.Errorf(
			"%w: %s is not the governance authority",
			ErrUnauthorized,
			caller.Hex(),
		)
	}
	return params, nil
}

// SetQuorumNumerator changes the quorum numerator. It applies to every
// later state computation, including for existing proposals.
func (r *Registry) SetQuorumNumerator(
	ctx context.Context,
	caller common.Address,
	numerator uint64,
) (err error) {
	ctx, span := r.startSpan(ctx, "set_quorum_numerator")
	defer func() { r.finish(span, "set_quorum_numerator", err) }()
	return r.write(ctx, func(txn *database.Txn, seq uint64) error {
		params, err := r.requireAuthority(txn, caller)
		if err != nil {
			return err
		}
		if err := validateQuorum(numerator); err != nil {
			return err
		}
		old := params.QuorumNumerator
		params.QuorumNumerator = numerator
		if err := r.db.SetGovernanceParams(params, txn); err != nil {
			return err
		}
		return txn.Emit(
			event.QuorumNumeratorUpdatedEventType,
			seq,
			event.QuorumNumeratorUpdatedEvent{
				OldQuorumNumerator: old,
				NewQuorumNumerator: numerator,
			},
		)
	})
}

// SetVotingPeriodLength changes the voting period of proposals created
// from now on
func (r *Registry) SetVotingPeriodLength(
	ctx context.Context,
	caller common.Address,
	length uint64,
) (err error) {
	ctx, span := r.startSpan(ctx, "set_voting_period")
	defer func() { r.finish(span, "set_voting_period", err) }()
	return r.write(ctx, func(txn *database.Txn, seq uint64) error {
		params, err := r.requireAuthority(txn, caller)
		if err != nil {
			return err
		}
		if err := validateVotingPeriod(length); err != nil {
			return err
		}
		old := params.VotingPeriodLength
		params.VotingPeriodLength = length
		if err := r.db.SetGovernanceParams(params, txn); err != nil {
			return err
		}
		return txn.Emit(
			event.VotingPeriodUpdatedEventType,
			seq,
			event.VotingPeriodUpdatedEvent{
				OldVotingPeriod: old,
				NewVotingPeriod: length,
			},
		)
	})
}
