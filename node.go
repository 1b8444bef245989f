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

// Package quorum wires the token, the governance registry, the sequencer
// and the HTTP API into a node.
package quorum

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/quorum/api"
	"github.com/blinklabs-io/quorum/chain"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/event"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/blinklabs-io/quorum/token"
	"github.com/ethereum/go-ethereum/common"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	sequencer     *chain.Sequencer
	token         *token.Token
	registry      *governance.Registry
	api           *api.API
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	runOnce       sync.Once
	shutdownOnce  sync.Once
}

// New opens the database and loads the token and the governance registry,
// creating both on first start
func New(cfg Config) (*Node, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	n := &Node{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
		done:     make(chan struct{}),
	}
	if err := n.init(); err != nil {
		n.eventBus.Stop()
		if n.db != nil {
			_ = n.db.Close()
		}
		return nil, err
	}
	return n, nil
}

func (n *Node) init() error {
	// Configure tracing before any component creates its tracer spans
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:        n.config.dataDir,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
	})
	if db != nil {
		n.db = db
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.sequencer, err = chain.NewSequencer(chain.SequencerConfig{
		Database:     n.db,
		EventBus:     n.eventBus,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
		Interval:     n.config.sequenceInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to load sequencer: %w", err)
	}
	n.token, err = token.New(token.Config{
		Database:      n.db,
		EventBus:      n.eventBus,
		Logger:        n.config.logger,
		PromRegistry:  n.config.promRegistry,
		InitialSupply: n.config.initialSupply,
		Name:          n.config.tokenName,
		Symbol:        n.config.tokenSymbol,
		Deployer:      n.config.deployer,
		Address:       n.config.tokenAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	authority := n.config.authority
	if authority == (common.Address{}) {
		authority = n.config.deployer
	}
	n.registry, err = governance.New(governance.Config{
		Database:           n.db,
		EventBus:           n.eventBus,
		Logger:             n.config.logger,
		PromRegistry:       n.config.promRegistry,
		Token:              n.token,
		TokenAddress:       n.token.Address(),
		Authority:          authority,
		QuorumNumerator:    n.config.quorumNumerator,
		VotingPeriodLength: n.config.votingPeriodLength,
	})
	if err != nil {
		return fmt.Errorf("failed to load governance registry: %w", err)
	}
	return nil
}

func (n *Node) Database() *database.Database {
	return n.db
}

func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

func (n *Node) Sequencer() *chain.Sequencer {
	return n.sequencer
}

func (n *Node) Token() *token.Token {
	return n.token
}

func (n *Node) Registry() *governance.Registry {
	return n.registry
}

// Run starts the sequencer ticker and the HTTP API and blocks until ctx is
// done or Stop is called
func (n *Node) Run(ctx context.Context) error {
	started := false
	n.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("node already running")
	}
	n.sequencer.Start(ctx)
	if n.config.apiListenAddress != "" {
		n.api = api.New(
			api.Config{ListenAddress: n.config.apiListenAddress},
			NewAPIAdapter(n),
			n.config.logger,
		)
		if err := n.api.Start(ctx); err != nil {
			return fmt.Errorf("failed to start API: %w", err)
		}
	}
	current, err := n.sequencer.Current()
	if err != nil {
		return err
	}
	n.config.logger.Info(
		"node started",
		"component", "node",
		"token", n.token.Address().Hex(),
		"sequence", current,
	)
	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		return n.Stop()
	case <-n.done:
	}
	return nil
}

// Stop shuts the node down. It is safe to call more than once.
func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		n.config.shutdownTimeout,
	)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown", "component", "node")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work", "component", "node")

	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}
	if n.sequencer != nil {
		n.sequencer.Stop()
	}

	// Phase 2: Close database
	n.config.logger.Debug("shutdown phase 2: closing database", "component", "node")

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Phase 3: Cleanup resources
	n.config.logger.Debug("shutdown phase 3: cleanup resources", "component", "node")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	n.eventBus.Stop()

	n.config.logger.Debug("graceful shutdown complete", "component", "node")
	close(n.done)
	return err
}
