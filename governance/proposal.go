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
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/blinklabs-io/quorum/chain"
	"github.com/blinklabs-io/quorum/database"
	"github.com/blinklabs-io/quorum/database/models"
	"github.com/blinklabs-io/quorum/database/types"
	"github.com/blinklabs-io/quorum/event"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
)

func proposalIDAttr(id uint64) attribute.KeyValue {
	return attribute.Int64("proposal_id", int64(id)) // #nosec G115
}

// CreateProposal opens a proposal whose snapshot and start are the current
// sequence number and whose window closes after the current voting period
func (r *Registry) CreateProposal(
	ctx context.Context,
	proposer common.Address,
	description string,
) (id uint64, err error) {
	ctx, span := r.startSpan(
		ctx,
		"create_proposal",
		attribute.String("proposer", proposer.Hex()),
	)
	defer func() { r.finish(span, "create_proposal", err) }()
	err = r.write(ctx, func(txn *database.Txn, seq uint64) error {
		params, err := r.loadParams(txn)
		if err != nil {
			return err
		}
		if seq > math.MaxUint64-params.VotingPeriodLength {
			return fmt.Errorf("voting window overflows at sequence %d", seq)
		}
		latest, err := r.db.GetLatestProposalID(txn)
		if err != nil {
			return err
		}
		proposal := &models.Proposal{
			ID:           latest + 1,
			Proposer:     proposer.Bytes(),
			Description:  description,
			Snapshot:     seq,
			Start:        seq,
			End:          seq + params.VotingPeriodLength,
			ForVotes:     types.NewBigInt(nil),
			AgainstVotes: types.NewBigInt(nil),
		}
		if err := r.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		id = proposal.ID
		return txn.Emit(
			event.ProposalCreatedEventType,
			seq,
			event.ProposalCreatedEvent{
				ProposalID:  proposal.ID,
				Proposer:    proposer,
				Snapshot:    proposal.Snapshot,
				Start:       proposal.Start,
				End:         proposal.End,
				Description: description,
			},
		)
	})
	if err != nil {
		return 0, err
	}
	r.metrics.proposalCreated()
	r.logger.Info(
		"proposal created",
		"proposal_id", id,
		"proposer", proposer.Hex(),
	)
	return id, nil
}

func (r *Registry) checkVote(
	proposal *models.Proposal,
	receipt *models.VoteReceipt,
	current uint64,
) error {
	switch {
	case proposal == nil:
		return ErrProposalNotFound
	case proposal.Canceled:
		return ErrProposalCanceled
	case current < proposal.Start:
		return ErrVotingNotStarted
	case current > proposal.End:
		return ErrVotingClosed
	case receipt != nil:
		return ErrAlreadyVoted
	}
	return nil
}

func (r *Registry) loadVoteState(
	txn *database.Txn,
	id uint64,
	voter common.Address,
) (*models.Proposal, *models.VoteReceipt, uint64, error) {
	current, err := chain.Current(r.db, txn)
	if err != nil {
		return nil, nil, 0, err
	}
	proposal, err := r.db.GetProposal(id, txn)
	if err != nil {
		return nil, nil, 0, err
	}
	if proposal == nil {
		return nil, nil, current, nil
	}
	receipt, err := r.db.GetVoteReceipt(id, voter.Bytes(), txn)
	if err != nil {
		return nil, nil, 0, err
	}
	return proposal, receipt, current, nil
}

// Vote casts the voter's weight at the proposal snapshot for or against it
func (r *Registry) Vote(
	ctx context.Context,
	voter common.Address,
	id uint64,
	support bool,
) (err error) {
	ctx, span := r.startSpan(
		ctx,
		"vote",
		attribute.String("voter", voter.Hex()),
		proposalIDAttr(id),
		attribute.Bool("support", support),
	)
	defer func() { r.finish(span, "vote", err) }()
	guarded, err := r.enter(ctx)
	if err != nil {
		return err
	}
	proposal, receipt, current, err := r.loadVoteState(nil, id, voter)
	if err != nil {
		return err
	}
	if err := r.checkVote(proposal, receipt, current); err != nil {
		return err
	}
	weight, err := r.token.GetPastVotes(guarded, voter, proposal.Snapshot)
	if err != nil {
		return fmt.Errorf("voting weight: %w", err)
	}
	if weight.Sign() <= 0 {
		return ErrNoVotingPower
	}
	// Receipt and tally are checked again and written with no external call
	err = r.write(ctx, func(txn *database.Txn, seq uint64) error {
		proposal, receipt, _, err := r.loadVoteState(txn, id, voter)
		if err != nil {
			return err
		}
		if err := r.checkVote(proposal, receipt, seq); err != nil {
			return err
		}
		if err := r.db.AddVoteReceipt(
			&models.VoteReceipt{
				ProposalID: id,
				Voter:      voter.Bytes(),
				Support:    support,
				Weight:     types.NewBigInt(weight),
				Sequence:   seq,
			},
			txn,
		); err != nil {
			return err
		}
		if support {
			proposal.ForVotes = types.NewBigInt(
				new(big.Int).Add(proposal.ForVotes.Big(), weight),
			)
		} else {
			proposal.AgainstVotes = types.NewBigInt(
				new(big.Int).Add(proposal.AgainstVotes.Big(), weight),
			)
		}
		if err := r.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		return txn.Emit(
			event.VoteCastEventType,
			seq,
			event.VoteCastEvent{
				Voter:      voter,
				ProposalID: id,
				Support:    support,
				Weight:     new(big.Int).Set(weight),
			},
		)
	})
	if err != nil {
		return err
	}
	r.metrics.voteCast(support)
	return nil
}

// State returns the current classification of a proposal
func (r *Registry) State(ctx context.Context, id uint64) (ProposalState, error) {
	proposal, err := r.db.GetProposal(id, nil)
	if err != nil {
		return ProposalStateUnknown, err
	}
	current, err := chain.Current(r.db, nil)
	if err != nil {
		return ProposalStateUnknown, err
	}
	if state, ok := flagState(proposal, current); ok {
		return state, nil
	}
	params, err := r.loadParams(nil)
	if err != nil {
		return ProposalStateUnknown, err
	}
	required, err := r.requiredQuorum(ctx, proposal.Snapshot, params.QuorumNumerator)
	if err != nil {
		return ProposalStateUnknown, err
	}
	return outcome(proposal, required), nil
}

func (r *Registry) requiredQuorum(
	ctx context.Context,
	snapshot uint64,
	numerator uint64,
) (*big.Int, error) {
	supply, err := r.token.GetPastTotalSupply(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("total supply at snapshot: %w", err)
	}
	return RequiredQuorum(supply, numerator), nil
}

// Quorum returns the votes required to pass with the total supply at seq
// and the current quorum numerator
func (r *Registry) Quorum(ctx context.Context, seq uint64) (*big.Int, error) {
	params, err := r.loadParams(nil)
	if err != nil {
		return nil, err
	}
	return r.requiredQuorum(ctx, seq, params.QuorumNumerator)
}

func checkExecute(proposal *models.Proposal, current uint64) error {
	switch {
	case proposal == nil:
		return ErrProposalNotFound
	case proposal.Canceled:
		return ErrProposalCanceled
	case proposal.Executed:
		return ErrAlreadyExecuted
	case current <= proposal.End:
		return ErrVotingNotEnded
	}
	return nil
}

// ExecuteProposal marks a succeeded proposal as executed
func (r *Registry) ExecuteProposal(
	ctx context.Context,
	caller common.Address,
	id uint64,
) (err error) {
	ctx, span := r.startSpan(
		ctx,
		"execute_proposal",
		attribute.String("caller", caller.Hex()),
		proposalIDAttr(id),
	)
	defer func() { r.finish(span, "execute_proposal", err) }()
	guarded, err := r.enter(ctx)
	if err != nil {
		return err
	}
	proposal, err := r.db.GetProposal(id, nil)
	if err != nil {
		return err
	}
	current, err := chain.Current(r.db, nil)
	if err != nil {
		return err
	}
	if err := checkExecute(proposal, current); err != nil {
		return err
	}
	supply, err := r.token.GetPastTotalSupply(guarded, proposal.Snapshot)
	if err != nil {
		return fmt.Errorf("total supply at snapshot: %w", err)
	}
	err = r.write(ctx, func(txn *database.Txn, seq uint64) error {
		proposal, err := r.db.GetProposal(id, txn)
		if err != nil {
			return err
		}
		if err := checkExecute(proposal, seq); err != nil {
			return err
		}
		params, err := r.loadParams(txn)
		if err != nil {
			return err
		}
		required := RequiredQuorum(supply, params.QuorumNumerator)
		if outcome(proposal, required) != ProposalStateSucceeded {
			return ErrProposalNotSuccessful
		}
		proposal.Executed = true
		if err := r.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		return txn.Emit(
			event.ProposalExecutedEventType,
			seq,
			event.ProposalExecutedEvent{ProposalID: id},
		)
	})
	if err != nil {
		return err
	}
	r.logger.Info("proposal executed", "proposal_id", id)
	return nil
}

// CancelProposal permanently cancels a proposal. Only the authority may
// cancel.
func (r *Registry) CancelProposal(
	ctx context.Context,
	caller common.Address,
	id uint64,
) (err error) {
	ctx, span := r.startSpan(
		ctx,
		"cancel_proposal",
		attribute.String("caller", caller.Hex()),
		proposalIDAttr(id),
	)
	defer func() { r.finish(span, "cancel_proposal", err) }()
	err = r.write(ctx, func(txn *database.Txn, seq uint64) error {
		if _, err := r.requireAuthority(txn, caller); err != nil {
			return err
		}
		proposal, err := r.db.GetProposal(id, txn)
		if err != nil {
			return err
		}
		switch {
		case proposal == nil:
			return ErrProposalNotFound
		case proposal.Canceled:
			return ErrAlreadyCanceled
		case proposal.Executed:
			return ErrAlreadyExecuted
		}
		proposal.Canceled = true
		if err := r.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		return txn.Emit(
			event.ProposalCanceledEventType,
			seq,
			event.ProposalCanceledEvent{ProposalID: id},
		)
	})
	if err != nil {
		return err
	}
	r.logger.Info("proposal canceled", "proposal_id", id)
	return nil
}
