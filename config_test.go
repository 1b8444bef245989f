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
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDeployer = common.HexToAddress("0xd000000000000000000000000000000000000001")

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.Equal(t, uint64(DefaultQuorumNumerator), cfg.quorumNumerator)
	assert.Equal(t, uint64(DefaultVotingPeriodLength), cfg.votingPeriodLength)
	assert.Equal(t, 30*time.Second, cfg.shutdownTimeout)
	assert.Empty(t, cfg.apiListenAddress)
}

func TestConfigValidate(t *testing.T) {
	token := WithToken("Governance Token", "GOV", nil, testDeployer)
	testDefs := []struct {
		name        string
		opts        []ConfigOptionFunc
		expectedErr error
		errContains string
	}{
		{
			name: "valid",
			opts: []ConfigOptionFunc{token},
		},
		{
			name:        "missing token",
			errContains: "name and symbol",
		},
		{
			name: "missing deployer",
			opts: []ConfigOptionFunc{
				WithToken("Governance Token", "GOV", nil, common.Address{}),
			},
			errContains: "deployer",
		},
		{
			name:        "invalid quorum",
			opts:        []ConfigOptionFunc{token, WithQuorumNumerator(101)},
			expectedErr: governance.ErrInvalidQuorum,
		},
		{
			name:        "zero voting period",
			opts:        []ConfigOptionFunc{token, WithVotingPeriodLength(0)},
			expectedErr: governance.ErrZeroVotingPeriod,
		},
		{
			name:        "negative interval",
			opts:        []ConfigOptionFunc{token, WithSequenceInterval(-time.Second)},
			errContains: "interval",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			cfg := NewConfig(testDef.opts...)
			err := cfg.validate()
			switch {
			case testDef.expectedErr != nil:
				assert.ErrorIs(t, err, testDef.expectedErr)
			case testDef.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), testDef.errContains)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
