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

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/quorum"
	"github.com/blinklabs-io/quorum/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NodeOptions translates the loaded configuration into node options. Extra
// options are applied last.
func NodeOptions(
	cfg *config.Config,
	logger *slog.Logger,
	extra ...quorum.ConfigOptionFunc,
) ([]quorum.ConfigOptionFunc, error) {
	initialSupply, err := cfg.Token.InitialSupplyUnits()
	if err != nil {
		return nil, err
	}
	deployer, err := config.ParseAddress(cfg.Token.Deployer)
	if err != nil {
		return nil, fmt.Errorf("token deployer: %w", err)
	}
	tokenAddress, err := config.ParseAddress(cfg.Token.Address)
	if err != nil {
		return nil, fmt.Errorf("token address: %w", err)
	}
	authority, err := config.ParseAddress(cfg.Governance.Authority)
	if err != nil {
		return nil, fmt.Errorf("governance authority: %w", err)
	}
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return nil, err
	}
	opts := []quorum.ConfigOptionFunc{
		quorum.WithLogger(logger),
		quorum.WithDatabasePath(cfg.DatabasePath),
		quorum.WithBlobPlugin(cfg.BlobPlugin),
		quorum.WithMetadataPlugin(cfg.MetadataPlugin),
		quorum.WithToken(
			cfg.Token.Name,
			cfg.Token.Symbol,
			initialSupply,
			deployer,
		),
		quorum.WithTokenAddress(tokenAddress),
		quorum.WithAuthority(authority),
		quorum.WithQuorumNumerator(cfg.Governance.QuorumNumerator),
		quorum.WithVotingPeriodLength(cfg.Governance.VotingPeriodLength),
		quorum.WithShutdownTimeout(shutdownTimeout),
		quorum.WithTracing(cfg.Tracing),
		quorum.WithTracingStdout(cfg.TracingStdout),
	}
	return append(opts, extra...), nil
}

// Open opens a node for one-shot commands. The caller must Stop it.
func Open(cfg *config.Config, logger *slog.Logger) (*quorum.Node, error) {
	opts, err := NodeOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	return quorum.New(quorum.NewConfig(opts...))
}

// Run serves the node with the metrics listener and the API until SIGINT
// or SIGTERM
func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	sequenceInterval, err := cfg.SequenceIntervalDuration()
	if err != nil {
		return err
	}
	extra := []quorum.ConfigOptionFunc{
		quorum.WithSequenceInterval(sequenceInterval),
		// Enable metrics with default prometheus registry
		quorum.WithPrometheusRegistry(prometheus.DefaultRegisterer),
	}
	if cfg.ApiPort > 0 {
		extra = append(
			extra,
			quorum.WithAPIListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			),
		)
	}
	opts, err := NodeOptions(cfg, logger, extra...)
	if err != nil {
		return err
	}
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}
	n, err := quorum.New(quorum.NewConfig(opts...))
	if err != nil {
		return err
	}
	// Metrics and debug listener
	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		http.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort)
		logger.Info(
			"serving prometheus metrics on "+metricsAddr,
			"component", "node",
		)
		metricsServer = &http.Server{
			Addr:              metricsAddr,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				logger.Error(
					fmt.Sprintf("failed to start metrics listener: %s", err),
					"component", "node",
				)
			}
		}()
	}
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	runErr := n.Run(signalCtx)
	if signalCtx.Err() != nil {
		logger.Info("signal received, initiating graceful shutdown")
	}
	if stopErr := n.Stop(); stopErr != nil {
		logger.Error("shutdown errors occurred", "error", stopErr)
		runErr = errors.Join(runErr, stopErr)
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("node error", "error", runErr)
		return runErr
	}
	logger.Info("shutdown complete")
	return nil
}
