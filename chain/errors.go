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

package chain

import (
	"errors"
	"fmt"
)

var (
	ErrZeroAdvance        = errors.New("advance must be at least one step")
	ErrSequenceRegression = errors.New("sequence number cannot move backwards")
	ErrSequenceOverflow   = errors.New("sequence number overflow")
)

type SequenceRegressionError struct {
	current uint64
	target  uint64
}

func NewSequenceRegressionError(
	current uint64,
	target uint64,
) SequenceRegressionError {
	return SequenceRegressionError{
		current: current,
		target:  target,
	}
}

func (e SequenceRegressionError) Current() uint64 {
	return e.current
}

func (e SequenceRegressionError) Target() uint64 {
	return e.target
}

func (e SequenceRegressionError) Error() string {
	return fmt.Sprintf(
		"%s: target %d, current %d",
		ErrSequenceRegression,
		e.target,
		e.current,
	)
}

func (e SequenceRegressionError) Is(target error) bool {
	return target == ErrSequenceRegression
}
