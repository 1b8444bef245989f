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

package models

import "github.com/blinklabs-io/quorum/database/types"

// Checkpoint is a single (sequence, value) entry of a checkpoint series.
// Series is an account voting-weight key or the total supply key.
type Checkpoint struct {
	Series   string       `gorm:"uniqueIndex:idx_checkpoint_series_sequence,priority:1;size:64;not null"`
	Value    types.BigInt `gorm:"not null"`
	ID       uint         `gorm:"primarykey"`
	Sequence uint64       `gorm:"uniqueIndex:idx_checkpoint_series_sequence,priority:2;not null"`
}

func (Checkpoint) TableName() string {
	return "checkpoint"
}
