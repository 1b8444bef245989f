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
	TransferEventType             EventType = "token.transfer"
	ApprovalEventType             EventType = "token.approval"
	DelegateChangedEventType      EventType = "token.delegate_changed"
	DelegateVotesChangedEventType EventType = "token.delegate_votes_changed"
)

// TransferEvent is emitted for every balance movement. From is the zero
// address for a mint and To is the zero address for a burn.
type TransferEvent struct {
	Amount *big.Int       `json:"amount"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
}

type ApprovalEvent struct {
	Amount  *big.Int       `json:"amount"`
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
}

type DelegateChangedEvent struct {
	Delegator    common.Address `json:"delegator"`
	FromDelegate common.Address `json:"fromDelegate"`
	ToDelegate   common.Address `json:"toDelegate"`
}

type DelegateVotesChangedEvent struct {
	PreviousVotes *big.Int       `json:"previousVotes"`
	NewVotes      *big.Int       `json:"newVotes"`
	Delegate      common.Address `json:"delegate"`
}
