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

package quorum

import (
	"errors"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/blinklabs-io/quorum/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultQuorumNumerator    = 4
	DefaultVotingPeriodLength = 50400
	defaultShutdownTimeout    = 30 * time.Second
)

type Config struct {
	promRegistry       prometheus.Registerer
	logger             *slog.Logger
	initialSupply      *big.Int
	dataDir            string
	blobPlugin         string
	metadataPlugin     string
	tokenName          string
	tokenSymbol        string
	apiListenAddress   string
	quorumNumerator    uint64
	votingPeriodLength uint64
	sequenceInterval   time.Duration
	shutdownTimeout    time.Duration
	deployer           common.Address
	tokenAddress       common.Address
	authority          common.Address
	tracing            bool
	tracingStdout      bool
}

func (c *Config) validate() error {
	if c.tokenName == "" || c.tokenSymbol == "" {
		return errors.New("token name and symbol are required")
	}
	if c.deployer == (common.Address{}) {
		return errors.New("token deployer is required")
	}
	if c.initialSupply != nil && c.initialSupply.Sign() < 0 {
		return errors.New("initial supply must not be negative")
	}
	if c.quorumNumerator < 1 ||
		c.quorumNumerator > governance.QuorumDenominator {
		return governance.ErrInvalidQuorum
	}
	if c.votingPeriodLength == 0 {
		return governance.ErrZeroVotingPeriod
	}
	if c.sequenceInterval < 0 {
		return errors.New("sequence interval must not be negative")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new quorum config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:             slog.New(slog.NewJSONHandler(io.Discard, nil)),
		quorumNumerator:    DefaultQuorumNumerator,
		votingPeriodLength: DefaultVotingPeriodLength,
		shutdownTimeout:    defaultShutdownTimeout,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata storage plugin to use
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithToken specifies the token created on first start. A database that
// already holds a token must match name and symbol.
func WithToken(
	name string,
	symbol string,
	initialSupply *big.Int,
	deployer common.Address,
) ConfigOptionFunc {
	return func(c *Config) {
		c.tokenName = name
		c.tokenSymbol = symbol
		c.initialSupply = initialSupply
		c.deployer = deployer
	}
}

// WithTokenAddress overrides the token identity derived from the deployer
func WithTokenAddress(address common.Address) ConfigOptionFunc {
	return func(c *Config) {
		c.tokenAddress = address
	}
}

// WithAuthority specifies the governance authority. It defaults to the
// token deployer.
func WithAuthority(authority common.Address) ConfigOptionFunc {
	return func(c *Config) {
		c.authority = authority
	}
}

// WithQuorumNumerator specifies the initial quorum as a percentage of the
// snapshot total supply
func WithQuorumNumerator(numerator uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.quorumNumerator = numerator
	}
}

// WithVotingPeriodLength specifies the initial voting window in sequence
// steps
func WithVotingPeriodLength(length uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.votingPeriodLength = length
	}
}

// WithSequenceInterval advances the sequence number on a ticker while the
// node runs. Zero leaves it under manual control.
func WithSequenceInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.sequenceInterval = interval
	}
}

// WithAPIListenAddress enables the HTTP API on the given address. An empty
// address disables it.
func WithAPIListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
