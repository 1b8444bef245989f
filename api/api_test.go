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

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/event"
	"github.com/blinklabs-io/quorum/governance"
	"github.com/blinklabs-io/quorum/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAlice = common.HexToAddress("0xa000000000000000000000000000000000000001")
	testBob   = common.HexToAddress("0xb000000000000000000000000000000000000002")
)

// mockNode implements Node for testing
type mockNode struct {
	tip       uint64
	token     TokenInfo
	supply    *big.Int
	accounts  map[common.Address]AccountInfo
	params    governance.Params
	proposals []governance.Proposal
	states    map[uint64]governance.ProposalState
	receipts  map[common.Address]governance.Receipt
	events    []database.JournalEntry
	tipErr    error
}

func (m *mockNode) Tip() (uint64, error) {
	return m.tip, m.tipErr
}

func (m *mockNode) TokenInfo() TokenInfo {
	return m.token
}

func (m *mockNode) TotalSupply() (*big.Int, error) {
	return m.supply, nil
}

func (m *mockNode) PastTotalSupply(_ context.Context, seq uint64) (*big.Int, error) {
	if seq >= m.tip {
		return nil, token.FutureSequenceError{Sequence: seq, Current: m.tip}
	}
	return new(big.Int).Div(m.supply, big.NewInt(2)), nil
}

func (m *mockNode) Account(account common.Address) (AccountInfo, error) {
	return m.accounts[account], nil
}

func (m *mockNode) PastVotes(
	_ context.Context,
	account common.Address,
	seq uint64,
) (*big.Int, error) {
	if seq >= m.tip {
		return nil, token.FutureSequenceError{Sequence: seq, Current: m.tip}
	}
	return big.NewInt(int64(seq)), nil
}

func (m *mockNode) GovernanceParams() (governance.Params, error) {
	return m.params, nil
}

func (m *mockNode) Proposals() ([]governance.Proposal, error) {
	return m.proposals, nil
}

func (m *mockNode) Proposal(id uint64) (governance.Proposal, error) {
	for _, p := range m.proposals {
		if p.ID == id {
			return p, nil
		}
	}
	return governance.Proposal{}, governance.ErrProposalNotFound
}

func (m *mockNode) ProposalState(
	_ context.Context,
	id uint64,
) (governance.ProposalState, error) {
	return m.states[id], nil
}

func (m *mockNode) Receipt(
	id uint64,
	voter common.Address,
) (governance.Receipt, bool, error) {
	receipt, ok := m.receipts[voter]
	if !ok || receipt.ProposalID != id {
		return governance.Receipt{}, false, nil
	}
	return receipt, true, nil
}

func (m *mockNode) Events(from uint64, limit int) ([]database.JournalEntry, error) {
	var ret []database.JournalEntry
	for _, entry := range m.events {
		if entry.Index >= from && len(ret) < limit {
			ret = append(ret, entry)
		}
	}
	return ret, nil
}

func newMockNode(t *testing.T) *mockNode {
	t.Helper()
	payload, err := cbor.Marshal(event.TransferEvent{
		From:   common.Address{},
		To:     testAlice,
		Amount: big.NewInt(500),
	})
	require.NoError(t, err)
	events := make([]database.JournalEntry, 0, 3)
	for i := uint64(1); i <= 3; i++ {
		events = append(events, database.JournalEntry{
			Index:     i,
			Type:      event.TransferEventType,
			Sequence:  i - 1,
			Timestamp: time.Unix(1700000000, 0).UTC(),
			Payload:   payload,
		})
	}
	return &mockNode{
		tip: 5,
		token: TokenInfo{
			Name:     "Governance Token",
			Symbol:   "GOV",
			Decimals: 18,
			Address:  common.HexToAddress("0x1000000000000000000000000000000000000001"),
			Owner:    testAlice,
		},
		supply: big.NewInt(1_000_000),
		accounts: map[common.Address]AccountInfo{
			testAlice: {
				Balance:     big.NewInt(300),
				Votes:       big.NewInt(300),
				Delegate:    testAlice,
				Checkpoints: 2,
			},
		},
		params: governance.Params{
			Authority:          testBob,
			QuorumNumerator:    20,
			VotingPeriodLength: 10,
		},
		proposals: []governance.Proposal{
			{
				ID:           1,
				Proposer:     testAlice,
				Description:  "first",
				Snapshot:     1,
				Start:        1,
				End:          11,
				ForVotes:     big.NewInt(300),
				AgainstVotes: new(big.Int),
			},
		},
		states: map[uint64]governance.ProposalState{
			1: governance.ProposalStateActive,
		},
		receipts: map[common.Address]governance.Receipt{
			testAlice: {
				ProposalID: 1,
				Voter:      testAlice,
				Support:    true,
				Weight:     big.NewInt(300),
				Sequence:   2,
			},
		},
		events: events,
	}
}

func doRequest(t *testing.T, a *API, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var ret T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ret))
	return ret
}

func TestStartStop(t *testing.T) {
	a := New(Config{ListenAddress: "127.0.0.1:0"}, newMockNode(t), nil)
	require.NoError(t, a.Start(t.Context()))
	addr := a.Addr()
	require.NotNil(t, addr)

	err := a.Start(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")

	client := &http.Client{
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get(fmt.Sprintf("http://%s/health", addr.String()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Stop(stopCtx))
	assert.Nil(t, a.Addr())
	// Stopping twice is harmless
	require.NoError(t, a.Stop(stopCtx))
}

func TestStopOnContextCancel(t *testing.T) {
	a := New(Config{ListenAddress: "127.0.0.1:0"}, newMockNode(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	cancel()
	require.Eventually(t, func() bool {
		return a.Addr() == nil
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, a.Stop(context.Background()))
}

func TestHandleTip(t *testing.T) {
	mock := newMockNode(t)
	a := New(Config{}, mock, nil)
	rec := doRequest(t, a, "/api/v1/tip")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, uint64(5), decode[TipResponse](t, rec).Sequence)

	mock.tipErr = fmt.Errorf("database closed")
	rec = doRequest(t, a, "/api/v1/tip")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusInternalServerError, body.StatusCode)
	assert.Equal(t, "failed to retrieve tip", body.Message)
}

func TestHandleToken(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/token")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[TokenResponse](t, rec)
	assert.Equal(t, "GOV", body.Symbol)
	assert.Equal(t, uint8(18), body.Decimals)
	assert.Equal(t, testAlice.Hex(), body.Owner)
	assert.Equal(t, "1000000", body.TotalSupply)
}

func TestHandleSupply(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	testDefs := []struct {
		path           string
		expectedStatus int
		expectedSupply string
	}{
		{path: "/api/v1/supply", expectedStatus: http.StatusOK, expectedSupply: "1000000"},
		{path: "/api/v1/supply?at=4", expectedStatus: http.StatusOK, expectedSupply: "500000"},
		{path: "/api/v1/supply?at=5", expectedStatus: http.StatusBadRequest},
		{path: "/api/v1/supply?at=abc", expectedStatus: http.StatusBadRequest},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.path, func(t *testing.T) {
			rec := doRequest(t, a, testDef.path)
			require.Equal(t, testDef.expectedStatus, rec.Code)
			if testDef.expectedStatus == http.StatusOK {
				assert.Equal(
					t,
					testDef.expectedSupply,
					decode[SupplyResponse](t, rec).TotalSupply,
				)
			}
		})
	}
}

func TestHandleAccount(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/accounts/"+testAlice.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[AccountResponse](t, rec)
	assert.Equal(t, "300", body.Balance)
	assert.Equal(t, "300", body.Votes)
	assert.Equal(t, testAlice.Hex(), body.Delegate)
	assert.Equal(t, int64(2), body.Checkpoints)
	assert.Nil(t, body.PastVotes)

	rec = doRequest(t, a, "/api/v1/accounts/"+testAlice.Hex()+"?at=3")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[AccountResponse](t, rec)
	require.NotNil(t, body.PastVotes)
	assert.Equal(t, "3", *body.PastVotes)
	require.NotNil(t, body.At)
	assert.Equal(t, uint64(3), *body.At)

	// Unknown accounts report zero values
	rec = doRequest(t, a, "/api/v1/accounts/"+testBob.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", decode[AccountResponse](t, rec).Balance)

	rec = doRequest(t, a, "/api/v1/accounts/not-an-address")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, a, "/api/v1/accounts/"+testAlice.Hex()+"?at=5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGovernanceParams(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/governance/params")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GovernanceParamsResponse](t, rec)
	assert.Equal(t, testBob.Hex(), body.Authority)
	assert.Equal(t, uint64(20), body.QuorumNumerator)
	assert.Equal(t, uint64(100), body.QuorumDenominator)
	assert.Equal(t, uint64(10), body.VotingPeriodLength)
}

func TestHandleProposals(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/proposals")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ProposalResponse](t, rec)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].State)

	rec = doRequest(t, a, "/api/v1/proposals/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[ProposalResponse](t, rec)
	assert.Equal(t, "Active", body.State)
	assert.Equal(t, "300", body.ForVotes)
	assert.Equal(t, "0", body.AgainstVotes)
	assert.Equal(t, uint64(11), body.End)

	rec = doRequest(t, a, "/api/v1/proposals/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, a, "/api/v1/proposals/x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReceipt(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/proposals/1/receipts/"+testAlice.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[ReceiptResponse](t, rec)
	assert.True(t, body.Support)
	assert.Equal(t, "300", body.Weight)

	rec = doRequest(t, a, "/api/v1/proposals/1/receipts/"+testBob.Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleEvents(t *testing.T) {
	a := New(Config{}, newMockNode(t), nil)
	rec := doRequest(t, a, "/api/v1/events?from=2&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Next-From"))
	var body []struct {
		Data struct {
			To     common.Address `json:"to"`
			Amount *big.Int       `json:"amount"`
		} `json:"data"`
		Type     string `json:"type"`
		Index    uint64 `json:"index"`
		Sequence uint64 `json:"sequence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, uint64(2), body[0].Index)
	assert.Equal(t, uint64(1), body[0].Sequence)
	assert.Equal(t, string(event.TransferEventType), body[0].Type)
	assert.Equal(t, testAlice, body[0].Data.To)
	assert.Equal(t, "500", body[0].Data.Amount.String())

	rec = doRequest(t, a, "/api/v1/events?from=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doRequest(t, a, "/api/v1/events?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseEventParams(t *testing.T) {
	testDefs := []struct {
		query    string
		expected EventParams
	}{
		{query: "", expected: EventParams{From: 1, Limit: DefaultEventLimit}},
		{query: "from=0&limit=0", expected: EventParams{From: 1, Limit: 1}},
		{query: "from=7&limit=5000", expected: EventParams{From: 7, Limit: MaxEventLimit}},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events?"+testDef.query, nil)
			params, err := ParseEventParams(req)
			require.NoError(t, err)
			assert.Equal(t, testDef.expected, params)
		})
	}
}
