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
	"errors"

	"github.com/blinklabs-io/quorum/database/models"
)

var (
	ErrZeroTokenAddress      = errors.New("zero token address")
	ErrInvalidQuorum         = errors.New("quorum numerator must be between 1 and 100")
	ErrZeroVotingPeriod      = errors.New("voting period must be positive")
	ErrTokenMismatch         = errors.New("registry is bound to a different token")
	ErrProposalNotFound      = models.ErrProposalNotFound
	ErrProposalCanceled      = errors.New("proposal canceled")
	ErrAlreadyExecuted       = errors.New("proposal already executed")
	ErrAlreadyCanceled       = errors.New("proposal already canceled")
	ErrVotingNotStarted      = errors.New("voting not started")
	ErrVotingClosed          = errors.New("voting closed")
	ErrVotingNotEnded        = errors.New("voting not ended")
	ErrAlreadyVoted          = errors.New("already voted")
	ErrNoVotingPower         = errors.New("no voting power")
	ErrProposalNotSuccessful = errors.New("proposal not successful")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrReentrantCall         = errors.New("reentrant call")
)
