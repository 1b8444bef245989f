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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "quorum.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o600))
	return tmpFile
}

func TestLoad_CompareFullStruct(t *testing.T) {
	tmpFile := writeConfig(t, `
databasePath: "/var/lib/quorum"
bindAddr: "127.0.0.1"
metricsPort: 8088
apiPort: 9000
sequenceInterval: "2s"
shutdownTimeout: "10s"
tracing: true
token:
  name: "Council Token"
  symbol: "CNCL"
  initialSupply: "5000"
  deployer: "0xd000000000000000000000000000000000000001"
governance:
  authority: "0xe000000000000000000000000000000000000001"
  quorumNumerator: 20
  votingPeriodLength: 100
`)
	expected := &Config{
		Token: TokenConfig{
			Name:          "Council Token",
			Symbol:        "CNCL",
			InitialSupply: "5000",
			Deployer:      "0xd000000000000000000000000000000000000001",
		},
		Governance: GovernanceConfig{
			Authority:          "0xe000000000000000000000000000000000000001",
			QuorumNumerator:    20,
			VotingPeriodLength: 100,
		},
		DatabasePath:     "/var/lib/quorum",
		BlobPlugin:       DefaultBlobPlugin,
		MetadataPlugin:   DefaultMetadataPlugin,
		BindAddr:         "127.0.0.1",
		SequenceInterval: "2s",
		ShutdownTimeout:  "10s",
		MetricsPort:      8088,
		ApiPort:          9000,
		Tracing:          true,
	}
	actual, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Same(t, actual, GetConfig())
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ConfigSection(t *testing.T) {
	tmpFile := writeConfig(t, `
config:
  apiPort: 9100
database:
  blob:
    plugin: badger
  metadata:
    plugin: postgres
`)
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, uint(9100), cfg.ApiPort)
	assert.Equal(t, "badger", cfg.BlobPlugin)
	assert.Equal(t, "postgres", cfg.MetadataPlugin)
	// Keys missing from the section keep their defaults
	defaults := DefaultConfig()
	assert.Equal(t, defaults.ShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, defaults.SequenceInterval, cfg.SequenceInterval)
	assert.Equal(t, defaults.MetricsPort, cfg.MetricsPort)
	assert.Equal(t, defaults.BindAddr, cfg.BindAddr)
	assert.Equal(t, defaults.Token, cfg.Token)
	assert.Equal(t, defaults.Governance, cfg.Governance)
}

func TestLoad_ConfigSectionNested(t *testing.T) {
	tmpFile := writeConfig(t, `
config:
  governance:
    quorumNumerator: 10
`)
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.Governance.QuorumNumerator)
	assert.Equal(
		t,
		DefaultConfig().Governance.VotingPeriodLength,
		cfg.Governance.VotingPeriodLength,
	)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpFile := writeConfig(t, `
token:
  symbol: "FILE"
`)
	t.Setenv("QUORUM_TOKEN_SYMBOL", "ENV")
	t.Setenv("QUORUM_GOVERNANCE_QUORUM_NUMERATOR", "33")
	t.Setenv("QUORUM_DATABASE_METADATA_PLUGIN", "mysql")
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "ENV", cfg.Token.Symbol)
	assert.Equal(t, uint64(33), cfg.Governance.QuorumNumerator)
	assert.Equal(t, "mysql", cfg.MetadataPlugin)
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, content := range []string{
		`sequenceInterval: "soon"`,
		`shutdownTimeout: "0s"`,
	} {
		_, err := LoadConfig(writeConfig(t, content))
		assert.Error(t, err, content)
	}
}

func TestSequenceIntervalDuration(t *testing.T) {
	cfg := &Config{}
	interval, err := cfg.SequenceIntervalDuration()
	require.NoError(t, err)
	assert.Zero(t, interval)
	cfg.SequenceInterval = "250ms"
	interval, err = cfg.SequenceIntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, interval)
}

func TestParseHelpers(t *testing.T) {
	addr, err := ParseAddress("0xa000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xa000000000000000000000000000000000000001"), addr)
	addr, err = ParseAddress("")
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, addr)
	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	amount, err := ParseAmount("0x10")
	require.NoError(t, err)
	assert.Equal(t, int64(16), amount.Int64())
	_, err = ParseAmount("-1")
	assert.Error(t, err)

	tokenCfg := TokenConfig{InitialSupply: "25"}
	supply, err := tokenCfg.InitialSupplyUnits()
	require.NoError(t, err)
	assert.Equal(t, token.Units(25).String(), supply.String())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
