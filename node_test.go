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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/api"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/blinklabs-io/quorum/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVoter = common.HexToAddress("0xa000000000000000000000000000000000000001")

func newTestNode(t *testing.T, opts ...ConfigOptionFunc) *Node {
	t.Helper()
	opts = append(
		[]ConfigOptionFunc{
			WithToken("Governance Token", "GOV", token.Units(1_000_000), testDeployer),
			WithQuorumNumerator(20),
			WithVotingPeriodLength(5),
		},
		opts...,
	)
	n, err := New(NewConfig(opts...))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = n.Stop()
	})
	return n
}

func TestNodeGovernanceFlow(t *testing.T) {
	n := newTestNode(t)
	ctx := context.Background()
	tok := n.Token()
	require.NoError(t, tok.Transfer(ctx, testDeployer, testVoter, token.Units(300_000)))
	require.NoError(t, tok.Delegate(ctx, testVoter, testVoter))
	_, err := n.Sequencer().Advance(ctx, 1)
	require.NoError(t, err)

	params, err := n.Registry().Params()
	require.NoError(t, err)
	// Authority defaults to the deployer
	assert.Equal(t, testDeployer, params.Authority)
	assert.Equal(t, tok.Address(), params.TokenAddress)

	id, err := n.Registry().CreateProposal(ctx, testVoter, "raise the quorum")
	require.NoError(t, err)
	_, err = n.Sequencer().Advance(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, n.Registry().Vote(ctx, testVoter, id, true))
	_, err = n.Sequencer().Advance(ctx, 5)
	require.NoError(t, err)
	state, err := n.Registry().State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, governance.ProposalStateSucceeded, state)
	require.NoError(t, n.Registry().ExecuteProposal(ctx, testVoter, id))

	// Token creation, transfer, delegation and governance activity are
	// all journaled
	assert.Greater(t, n.Database().JournalLength(), uint64(5))
}

func TestNodeAPIAdapter(t *testing.T) {
	n := newTestNode(t)
	ctx := context.Background()
	require.NoError(t, n.Token().Transfer(ctx, testDeployer, testVoter, token.Units(10)))
	require.NoError(t, n.Token().Delegate(ctx, testVoter, testVoter))
	_, err := n.Sequencer().Advance(ctx, 2)
	require.NoError(t, err)
	id, err := n.Registry().CreateProposal(ctx, testVoter, "adapter")
	require.NoError(t, err)

	handler := api.New(api.Config{}, NewAPIAdapter(n), nil).Handler()
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/api/v1/accounts/" + testVoter.Hex() + "?at=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var account api.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, token.Units(10).String(), account.Balance)
	assert.Equal(t, testVoter.Hex(), account.Delegate)
	require.NotNil(t, account.PastVotes)
	assert.Equal(t, token.Units(10).String(), *account.PastVotes)

	rec = get("/api/v1/proposals/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var proposal api.ProposalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proposal))
	assert.Equal(t, id, proposal.ID)
	assert.Equal(t, "Active", proposal.State)

	rec = get("/api/v1/tip")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sequence":2}`, rec.Body.String())

	rec = get("/api/v1/events?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []api.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Index)
}

func TestNodeRunStop(t *testing.T) {
	n := newTestNode(
		t,
		WithSequenceInterval(10*time.Millisecond),
		WithAPIListenAddress("127.0.0.1:0"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		current, err := n.Sequencer().Current()
		return err == nil && current >= 2
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("node did not stop")
	}
	// Later calls are no-ops
	require.NoError(t, n.Stop())
	assert.Error(t, n.Run(context.Background()))
}

func TestNodeReopen(t *testing.T) {
	dataDir := t.TempDir()
	n := newTestNode(t, WithDatabasePath(dataDir))
	ctx := context.Background()
	require.NoError(t, n.Registry().SetQuorumNumerator(ctx, testDeployer, 50))
	require.NoError(t, n.Stop())

	reopened := newTestNode(t, WithDatabasePath(dataDir))
	params, err := reopened.Registry().Params()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), params.QuorumNumerator)
	supply, err := reopened.Token().TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, token.Units(1_000_000).String(), supply.String())
	require.NoError(t, reopened.Stop())

	_, err = New(NewConfig(
		WithDatabasePath(dataDir),
		WithToken("Other", "OTH", nil, testDeployer),
	))
	assert.ErrorIs(t, err, token.ErrTokenMismatch)
}
