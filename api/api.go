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

// Package api serves a read-only JSON view of the token, the governance
// registry and the event journal.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const DefaultListenAddress = ":8080"

type Config struct {
	ListenAddress string
}

// API is the HTTP API server
type API struct {
	config     Config
	logger     *slog.Logger
	node       Node
	httpServer *http.Server
	listener   net.Listener
	doneCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
}

func New(cfg Config, node Node, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	return &API{
		config: cfg,
		logger: logger.With("component", "api"),
		node:   node,
	}
}

// Handler returns the routes of the API
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/v1/tip", a.handleTip)
	mux.HandleFunc("GET /api/v1/token", a.handleToken)
	mux.HandleFunc("GET /api/v1/supply", a.handleSupply)
	mux.HandleFunc("GET /api/v1/accounts/{address}", a.handleAccount)
	mux.HandleFunc("GET /api/v1/governance/params", a.handleGovernanceParams)
	mux.HandleFunc("GET /api/v1/proposals", a.handleProposals)
	mux.HandleFunc("GET /api/v1/proposals/{id}", a.handleProposal)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/receipts/{voter}",
		a.handleReceipt,
	)
	mux.HandleFunc("GET /api/v1/events", a.handleEvents)
	return mux
}

// Addr returns the bound listen address while the server is running
func (a *API) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Start binds the listen address and serves in the background until ctx
// is done or Stop is called
func (a *API) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.httpServer != nil {
		return errors.New("server already started")
	}
	// Bind first so port conflicts are reported to the caller
	ln, err := net.Listen("tcp", a.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.listener = ln
	a.doneCh = make(chan struct{})
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("API server error", "error", err)
		}
	}()
	go func(doneCh chan struct{}) {
		defer a.wg.Done()
		select {
		case <-doneCh:
			return
		case <-ctx.Done():
		}
		a.logger.Debug("context cancelled, shutting down API server")
		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()
		//nolint:contextcheck
		if err := a.shutdown(shutdownCtx); err != nil {
			a.logger.Error(
				"failed to shutdown API server on context cancellation",
				"error", err,
			)
		}
	}(a.doneCh)
	a.logger.Info("API listener started on " + ln.Addr().String())
	return nil
}

func (a *API) shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.listener = nil
	if a.doneCh != nil {
		close(a.doneCh)
		a.doneCh = nil
	}
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server and waits for its goroutines
func (a *API) Stop(ctx context.Context) error {
	a.logger.Debug("shutting down API server")
	err := a.shutdown(ctx)
	a.wg.Wait()
	return err
}
