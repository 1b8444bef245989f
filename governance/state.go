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

package governance

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/quorum/database/models"
)

type ProposalState int

const (
	ProposalStateUnknown ProposalState = iota
	ProposalStateActive
	ProposalStateSucceeded
	ProposalStateDefeated
	ProposalStateCanceled
	ProposalStateExecuted
)

var proposalStateNames = map[ProposalState]string{
	ProposalStateUnknown:   "Unknown",
	ProposalStateActive:    "Active",
	ProposalStateSucceeded: "Succeeded",
	ProposalStateDefeated:  "Defeated",
	ProposalStateCanceled:  "Canceled",
	ProposalStateExecuted:  "Executed",
}

func (s ProposalState) String() string {
	if name, ok := proposalStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ProposalState(%d)", int(s))
}

// MarshalText renders the state name
func (s ProposalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseProposalState parses a state name, ignoring case
func ParseProposalState(name string) (ProposalState, error) {
	for state, stateName := range proposalStateNames {
		if strings.EqualFold(name, stateName) {
			return state, nil
		}
	}
	return ProposalStateUnknown, fmt.Errorf("unknown proposal state: %s", name)
}

// Terminal reports whether no further transition is possible
func (s ProposalState) Terminal() bool {
	return s == ProposalStateCanceled || s == ProposalStateExecuted
}

// RequiredQuorum returns floor(totalSupply * numerator / QuorumDenominator)
func RequiredQuorum(totalSupply *big.Int, numerator uint64) *big.Int {
	ret := new(big.Int).Mul(totalSupply, new(big.Int).SetUint64(numerator))
	return ret.Quo(ret, big.NewInt(QuorumDenominator))
}

// outcome classifies a proposal whose voting window has closed
func outcome(proposal *models.Proposal, requiredQuorum *big.Int) ProposalState {
	forVotes := proposal.ForVotes.Big()
	if forVotes.Cmp(requiredQuorum) >= 0 &&
		forVotes.Cmp(proposal.AgainstVotes.Big()) > 0 {
		return ProposalStateSucceeded
	}
	return ProposalStateDefeated
}

// flagState returns the state implied by stored flags and the window alone,
// and false when the outcome depends on the tally
func flagState(proposal *models.Proposal, current uint64) (ProposalState, bool) {
	switch {
	case proposal == nil:
		return ProposalStateUnknown, true
	case proposal.Canceled:
		return ProposalStateCanceled, true
	case proposal.Executed:
		return ProposalStateExecuted, true
	case current <= proposal.End:
		return ProposalStateActive, true
	}
	return ProposalStateUnknown, false
}
