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

package event

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	ProposalCreatedEventType        EventType = "governance.proposal_created"
	VoteCastEventType               EventType = "governance.vote_cast"
	ProposalExecutedEventType       EventType = "governance.proposal_executed"
	ProposalCanceledEventType       EventType = "governance.proposal_canceled"
	QuorumNumeratorUpdatedEventType EventType = "governance.quorum_numerator_updated"
	VotingPeriodUpdatedEventType    EventType = "governance.voting_period_updated"
)

type ProposalCreatedEvent struct {
	Description string         `json:"description"`
	ProposalID  uint64         `json:"proposalId"`
	Snapshot    uint64         `json:"snapshot"`
	Start       uint64         `json:"start"`
	End         uint64         `json:"end"`
	Proposer    common.Address `json:"proposer"`
}

type VoteCastEvent struct {
	Weight     *big.Int       `json:"weight"`
	ProposalID uint64         `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Support    bool           `json:"support"`
}

type ProposalExecutedEvent struct {
	ProposalID uint64 `json:"proposalId"`
}

type ProposalCanceledEvent struct {
	ProposalID uint64 `json:"proposalId"`
}

type QuorumNumeratorUpdatedEvent struct {
	OldQuorumNumerator uint64 `json:"oldQuorumNumerator"`
	NewQuorumNumerator uint64 `json:"newQuorumNumerator"`
}

type VotingPeriodUpdatedEvent struct {
	OldVotingPeriod uint64 `json:"oldVotingPeriod"`
	NewVotingPeriod uint64 `json:"newVotingPeriod"`
}
