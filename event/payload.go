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

import "fmt"

var payloadTypes = map[EventType]func() any{
	TransferEventType:               func() any { return &TransferEvent{} },
	ApprovalEventType:               func() any { return &ApprovalEvent{} },
	DelegateChangedEventType:        func() any { return &DelegateChangedEvent{} },
	DelegateVotesChangedEventType:   func() any { return &DelegateVotesChangedEvent{} },
	ProposalCreatedEventType:        func() any { return &ProposalCreatedEvent{} },
	VoteCastEventType:               func() any { return &VoteCastEvent{} },
	ProposalExecutedEventType:       func() any { return &ProposalExecutedEvent{} },
	ProposalCanceledEventType:       func() any { return &ProposalCanceledEvent{} },
	QuorumNumeratorUpdatedEventType: func() any { return &QuorumNumeratorUpdatedEvent{} },
	VotingPeriodUpdatedEventType:    func() any { return &VotingPeriodUpdatedEvent{} },
	SequenceAdvancedEventType:       func() any { return &SequenceAdvancedEvent{} },
}

// PayloadFor returns a pointer to a new zero payload for the given event
// type, suitable for decoding a journaled event into
func PayloadFor(eventType EventType) (any, error) {
	newFunc, ok := payloadTypes[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	return newFunc(), nil
}

// EventTypes returns every domain event type
func EventTypes() []EventType {
	ret := make([]EventType, 0, len(payloadTypes))
	for eventType := range payloadTypes {
		ret = append(ret, eventType)
	}
	return ret
}
