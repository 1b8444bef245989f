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

package metadata

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/plugin"
	"github.com/blinklabs-io/quorum/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/quorum/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	// Register the remaining metadata plugins
	_ "github.com/blinklabs-io/quorum/database/plugin/metadata/mysql"
	_ "github.com/blinklabs-io/quorum/database/plugin/metadata/postgres"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Token
	GetTokenInfo(types.Txn) (*models.TokenInfo, error)
	SetTokenInfo(*models.TokenInfo, types.Txn) error
	GetAccount([]byte, types.Txn) (*models.Account, error)
	GetAccounts(types.Txn) ([]models.Account, error)
	SetAccount(*models.Account, types.Txn) error
	GetAllowance(
		[]byte, // owner
		[]byte, // spender
		types.Txn,
	) (*models.Allowance, error)
	SetAllowance(*models.Allowance, types.Txn) error

	// Checkpoints
	GetLatestCheckpoint(string, types.Txn) (*models.Checkpoint, error)
	GetCheckpoints(string, types.Txn) ([]models.Checkpoint, error)
	GetCheckpointCount(string, types.Txn) (int64, error)
	SetCheckpoint(*models.Checkpoint, types.Txn) error

	// Governance
	GetGovernanceParams(types.Txn) (*models.GovernanceParams, error)
	SetGovernanceParams(*models.GovernanceParams, types.Txn) error
	GetProposal(uint64, types.Txn) (*models.Proposal, error)
	GetProposals(types.Txn) ([]models.Proposal, error)
	GetLatestProposalID(types.Txn) (uint64, error)
	SetProposal(*models.Proposal, types.Txn) error
	GetVoteReceipt(
		uint64, // proposal ID
		[]byte, // voter
		types.Txn,
	) (*models.VoteReceipt, error)
	GetVoteReceipts(uint64, types.Txn) ([]models.VoteReceipt, error)
	AddVoteReceipt(*models.VoteReceipt, types.Txn) error

	// Tip
	GetTip(types.Txn) (*models.Tip, error)
	SetTip(*models.Tip, types.Txn) error
}

// New returns the started metadata plugin selected by name. The sqlite
// plugin is constructed directly so that an empty dataDir yields an
// in-memory store; other plugins are started from the registry.
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	if pluginName == "" || pluginName == "sqlite" {
		return sqlite.New(dataDir, logger, promRegistry)
	}
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
