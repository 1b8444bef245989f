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

// Package token implements the voting token: a fungible balance ledger
// with delegation and per-delegate voting weight checkpoints.
package token

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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	Decimals = 18

	tracerName = "github.com/blinklabs-io/quorum/token"
)

var (
	unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

	// MaxSupply is the largest total supply a checkpoint can hold (2^208-1)
	MaxSupply = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 208), big.NewInt(1))

	// UnlimitedAllowance is never decremented by TransferFrom
	UnlimitedAllowance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Units converts a whole-token amount into base units
func Units(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), unit)
}

type Config struct {
	Database      *database.Database
	EventBus      *event.EventBus
	Logger        *slog.Logger
	PromRegistry  prometheus.Registerer
	InitialSupply *big.Int
	Name          string
	Symbol        string
	Deployer      common.Address
	// Address defaults to the contract address derived from Deployer
	Address common.Address
}

type Token struct {
	config  Config
	db      *database.Database
	logger  *slog.Logger
	metrics *tokenMetrics
	tracer  trace.Tracer
	info    models.TokenInfo
	mu      sync.Mutex
}

// New loads the token from the database, creating it and minting the
// initial supply to the deployer when the database holds no token yet
func New(cfg Config) (*Token, error) {
	if cfg.Database == nil {
		return nil, errors.New("token requires a database")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	t := &Token{
		config: cfg,
		db:     cfg.Database,
		logger: cfg.Logger.With("component", "token"),
		tracer: otel.Tracer(tracerName),
	}
	if cfg.PromRegistry != nil {
		t.initMetrics(cfg.PromRegistry)
	}
	info, err := t.db.GetTokenInfo(nil)
	if err != nil {
		return nil, fmt.Errorf("load token info: %w", err)
	}
	if info != nil {
		if (cfg.Name != "" && cfg.Name != info.Name) ||
			(cfg.Symbol != "" && cfg.Symbol != info.Symbol) {
			return nil, fmt.Errorf(
				"%w: have %s (%s), configured %s (%s)",
				ErrTokenMismatch,
				info.Name,
				info.Symbol,
				cfg.Name,
				cfg.Symbol,
			)
		}
		t.info = *info
	} else if err := t.create(); err != nil {
		return nil, err
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return nil, err
	}
	t.metrics.setSupply(supply)
	t.logger.Debug(
		"token loaded",
		"name", t.info.Name,
		"symbol", t.info.Symbol,
		"address", t.Address().Hex(),
		"owner", t.Owner().Hex(),
	)
	return t, nil
}

func (t *Token) create() error {
	cfg := t.config
	if cfg.Name == "" || cfg.Symbol == "" {
		return errors.New("token name and symbol are required")
	}
	if cfg.Deployer == (common.Address{}) {
		return fmt.Errorf("%w: zero deployer", ErrInvalidSender)
	}
	initialSupply := cfg.InitialSupply
	if initialSupply == nil {
		initialSupply = new(big.Int)
	}
	if initialSupply.Sign() < 0 {
		return ErrInvalidAmount
	}
	address := cfg.Address
	if address == (common.Address{}) {
		address = crypto.CreateAddress(cfg.Deployer, 0)
	}
	t.info = models.TokenInfo{
		ID:       1,
		Name:     cfg.Name,
		Symbol:   cfg.Symbol,
		Decimals: Decimals,
		Address:  address.Bytes(),
		Owner:    cfg.Deployer.Bytes(),
	}
	err := t.update(
		context.Background(),
		"create",
		cfg.Deployer,
		func(txn *database.Txn, seq uint64) error {
			if err := t.db.SetTokenInfo(&t.info, txn); err != nil {
				return fmt.Errorf("store token info: %w", err)
			}
			if initialSupply.Sign() == 0 {
				return nil
			}
			return t.moveBalance(
				txn,
				seq,
				common.Address{},
				cfg.Deployer,
				initialSupply,
			)
		},
	)
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	t.logger.Info(
		"token created",
		"name", cfg.Name,
		"symbol", cfg.Symbol,
		"address", address.Hex(),
		"initial_supply", initialSupply.String(),
	)
	return nil
}

func (t *Token) Name() string {
	return t.info.Name
}

func (t *Token) Symbol() string {
	return t.info.Symbol
}

func (t *Token) Decimals() uint8 {
	return t.info.Decimals
}

// Owner returns the identity allowed to mint and to burn from any account
func (t *Token) Owner() common.Address {
	return t.info.OwnerAddress()
}

func (t *Token) Address() common.Address {
	return t.info.TokenAddress()
}

// update runs fn in a read-write transaction at the current sequence
// number and publishes the emitted events once it commits
func (t *Token) update(
	ctx context.Context,
	op string,
	caller common.Address,
	fn func(txn *database.Txn, seq uint64) error,
) error {
	_, span := t.tracer.Start(
		ctx,
		"token."+op,
		trace.WithAttributes(attribute.String("caller", caller.Hex())),
	)
	defer span.End()
	err := t.doUpdate(ctx, fn)
	t.metrics.record(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Debug(
			"token operation failed",
			"op", op,
			"caller", caller.Hex(),
			"error", err,
		)
		return err
	}
	return nil
}

func (t *Token) doUpdate(
	ctx context.Context,
	fn func(txn *database.Txn, seq uint64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var supplyChanged bool
	txn := t.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		seq, err := chain.Current(t.db, txn)
		if err != nil {
			return err
		}
		return fn(txn, seq)
	})
	if err != nil {
		return err
	}
	for _, evt := range txn.Events() {
		if transfer, ok := evt.Data.(event.TransferEvent); ok {
			if transfer.From == (common.Address{}) ||
				transfer.To == (common.Address{}) {
				supplyChanged = true
			}
		}
		if t.config.EventBus != nil {
			t.config.EventBus.Publish(evt)
		}
	}
	if supplyChanged && t.metrics != nil {
		if supply, err := t.TotalSupply(); err == nil {
			t.metrics.setSupply(supply)
		}
	}
	return nil
}
