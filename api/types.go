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

import "time"

// HealthResponse is returned by GET /health
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type TipResponse struct {
	Sequence uint64 `json:"sequence"`
}

// TokenResponse is returned by GET /api/v1/token. Amounts are decimal
// strings in the smallest unit.
type TokenResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Address     string `json:"address"`
	Owner       string `json:"owner"`
	TotalSupply string `json:"total_supply"`
	Decimals    uint8  `json:"decimals"`
}

type SupplyResponse struct {
	At          *uint64 `json:"at,omitempty"`
	TotalSupply string  `json:"total_supply"`
}

type AccountResponse struct {
	At          *uint64 `json:"at,omitempty"`
	PastVotes   *string `json:"past_votes,omitempty"`
	Address     string  `json:"address"`
	Balance     string  `json:"balance"`
	Delegate    string  `json:"delegate"`
	Votes       string  `json:"votes"`
	Checkpoints int64   `json:"checkpoints"`
}

type GovernanceParamsResponse struct {
	TokenAddress       string `json:"token_address"`
	Authority          string `json:"authority"`
	QuorumNumerator    uint64 `json:"quorum_numerator"`
	QuorumDenominator  uint64 `json:"quorum_denominator"`
	VotingPeriodLength uint64 `json:"voting_period_length"`
}

type ProposalResponse struct {
	State        string `json:"state,omitempty"`
	Proposer     string `json:"proposer"`
	Description  string `json:"description"`
	ForVotes     string `json:"for_votes"`
	AgainstVotes string `json:"against_votes"`
	ID           uint64 `json:"id"`
	Snapshot     uint64 `json:"snapshot"`
	Start        uint64 `json:"start"`
	End          uint64 `json:"end"`
	Canceled     bool   `json:"canceled"`
	Executed     bool   `json:"executed"`
}

type ReceiptResponse struct {
	Voter      string `json:"voter"`
	Weight     string `json:"weight"`
	ProposalID uint64 `json:"proposal_id"`
	Sequence   uint64 `json:"sequence"`
	Support    bool   `json:"support"`
}

type EventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      string    `json:"type"`
	Index     uint64    `json:"index"`
	Sequence  uint64    `json:"sequence"`
}
