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
	"errors"
	"fmt"
	"maps"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/blinklabs-io/quorum/database/plugin"
	"github.com/blinklabs-io/quorum/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "quorum.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

var ErrInvalidAddress = errors.New("invalid address")

type tempConfig struct {
	Config   yaml.Node                 `yaml:"config,omitempty"`
	Database *databaseConfig           `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type TokenConfig struct {
	Name          string `yaml:"name"`
	Symbol        string `yaml:"symbol"`
	InitialSupply string `yaml:"initialSupply" split_words:"true"`
	Deployer      string `yaml:"deployer"`
	Address       string `yaml:"address"`
}

type GovernanceConfig struct {
	Authority          string `yaml:"authority"`
	QuorumNumerator    uint64 `yaml:"quorumNumerator"    split_words:"true"`
	VotingPeriodLength uint64 `yaml:"votingPeriodLength" split_words:"true"`
}

type Config struct {
	Token            TokenConfig      `yaml:"token"`
	Governance       GovernanceConfig `yaml:"governance"`
	DatabasePath     string           `yaml:"databasePath"     split_words:"true"`
	BlobPlugin       string           `yaml:"blobPlugin"       envconfig:"QUORUM_DATABASE_BLOB_PLUGIN"`
	MetadataPlugin   string           `yaml:"metadataPlugin"   envconfig:"QUORUM_DATABASE_METADATA_PLUGIN"`
	BindAddr         string           `yaml:"bindAddr"         split_words:"true"`
	SequenceInterval string           `yaml:"sequenceInterval" split_words:"true"`
	ShutdownTimeout  string           `yaml:"shutdownTimeout"  split_words:"true"`
	MetricsPort      uint             `yaml:"metricsPort"      split_words:"true"`
	ApiPort          uint             `yaml:"apiPort"          split_words:"true"`
	Tracing          bool             `yaml:"tracing"`
	TracingStdout    bool             `yaml:"tracingStdout"    split_words:"true"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Token: TokenConfig{
			Name:          "Governance Token",
			Symbol:        "GOV",
			InitialSupply: "1000000",
		},
		Governance: GovernanceConfig{
			QuorumNumerator:    4,
			VotingPeriodLength: 50400,
		},
		DatabasePath:     ".quorum",
		BlobPlugin:       DefaultBlobPlugin,
		MetadataPlugin:   DefaultMetadataPlugin,
		BindAddr:         "0.0.0.0",
		SequenceInterval: "12s",
		ShutdownTimeout:  DefaultShutdownTimeout,
		MetricsPort:      12798,
		ApiPort:          8080,
	}
}

var globalConfig = DefaultConfig()

func convertPluginSection(
	kind string,
	section map[string]any,
) map[string]map[string]any {
	ret := make(map[string]map[string]any)
	for k, v := range section {
		if val, ok := v.(map[string]any); ok {
			ret[k] = val
		} else if val, ok := v.(map[any]any); ok {
			// Convert map[any]any to map[string]any
			stringAnyMap := make(map[string]any)
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					stringAnyMap[keyStr] = vv
				}
			}
			ret[k] = stringAnyMap
		} else {
			fmt.Fprintf(os.Stderr, "warning: skipping %s config entry %q: expected map, got %T\n", kind, k, v)
		}
	}
	return ret
}

// pluginName removes and returns the plugin key of a database section
func pluginName(section map[string]any) (string, bool) {
	pluginVal, exists := section["plugin"]
	if !exists {
		return "", false
	}
	name, ok := pluginVal.(string)
	if !ok {
		return "", false
	}
	delete(section, "plugin")
	return name, true
}

func findConfigFile() string {
	// Check for config file in this path: ~/.quorum/quorum.yaml
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".quorum", "quorum.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	// Try /etc/quorum/quorum.yaml if still not found
	systemPath := "/etc/quorum/quorum.yaml"
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath
	}
	return ""
}

// LoadConfig loads the defaults, overlays the config file (if any) and then
// the QUORUM_* environment
func LoadConfig(configFile string) (*Config, error) {
	globalConfig = DefaultConfig()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadConfigFile(configFile); err != nil {
			return nil, err
		}
	}
	// Process environment variables
	if err := envconfig.Process("quorum", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Process plugin environment variables
	if err := plugin.ProcessEnvVars(); err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	if _, err := globalConfig.SequenceIntervalDuration(); err != nil {
		return nil, err
	}
	if _, err := globalConfig.ShutdownTimeoutDuration(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func loadConfigFile(configFile string) error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	// First unmarshal into temp config to handle plugin sections
	var tempCfg tempConfig
	if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if tempCfg.Config.Kind != 0 {
		// Only keys present in the section overwrite the defaults
		if err := tempCfg.Config.Decode(globalConfig); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	} else {
		// Otherwise unmarshal the whole file as main config
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process plugin configurations
	pluginConfig := make(map[string]map[string]map[string]any)
	if tempCfg.Blob != nil {
		pluginConfig["blob"] = tempCfg.Blob
	}
	if tempCfg.Metadata != nil {
		pluginConfig["metadata"] = tempCfg.Metadata
	}
	if tempCfg.Database != nil {
		if tempCfg.Database.Blob != nil {
			if name, ok := pluginName(tempCfg.Database.Blob); ok {
				globalConfig.BlobPlugin = name
			}
			blobConfig := convertPluginSection("blob", tempCfg.Database.Blob)
			// Merge with existing blob config instead of overwriting
			if pluginConfig["blob"] == nil {
				pluginConfig["blob"] = blobConfig
			} else {
				maps.Copy(pluginConfig["blob"], blobConfig)
			}
		}
		if tempCfg.Database.Metadata != nil {
			if name, ok := pluginName(tempCfg.Database.Metadata); ok {
				globalConfig.MetadataPlugin = name
			}
			metadataConfig := convertPluginSection("metadata", tempCfg.Database.Metadata)
			if pluginConfig["metadata"] == nil {
				pluginConfig["metadata"] = metadataConfig
			} else {
				maps.Copy(pluginConfig["metadata"], metadataConfig)
			}
		}
	}
	if len(pluginConfig) > 0 {
		if err := plugin.ProcessConfig(pluginConfig); err != nil {
			return fmt.Errorf("error processing plugin config: %w", err)
		}
	}
	return nil
}

func GetConfig() *Config {
	return globalConfig
}

// SequenceIntervalDuration parses the sequence interval. An empty value
// disables automatic advancing.
func (c *Config) SequenceIntervalDuration() (time.Duration, error) {
	if c.SequenceInterval == "" {
		return 0, nil
	}
	ret, err := time.ParseDuration(c.SequenceInterval)
	if err != nil || ret < 0 {
		return 0, fmt.Errorf("invalid sequenceInterval: %q", c.SequenceInterval)
	}
	return ret, nil
}

func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	ret, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || ret <= 0 {
		return 0, fmt.Errorf("invalid shutdownTimeout: %q", c.ShutdownTimeout)
	}
	return ret, nil
}

// ParseAddress parses a hex account identity. An empty string is the zero
// address.
func ParseAddress(value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}

// ParseAmount parses a decimal or 0x-prefixed hex amount in the smallest
// unit
func ParseAmount(value string) (*big.Int, error) {
	ret, ok := math.ParseBig256(value)
	if !ok || ret.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %q", value)
	}
	return ret, nil
}

// InitialSupplyUnits returns the configured initial supply, given in whole
// tokens, in the smallest unit
func (t *TokenConfig) InitialSupplyUnits() (*big.Int, error) {
	if t.InitialSupply == "" {
		return new(big.Int), nil
	}
	whole, err := ParseAmount(t.InitialSupply)
	if err != nil {
		return nil, fmt.Errorf("token initialSupply: %w", err)
	}
	return whole.Mul(whole, token.Units(1)), nil
}
