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

package sqlite

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	store, err := NewWithOptions(
		WithDataDir("/tmp/quorum"),
		WithLogger(logger),
		WithPromRegistry(registry),
		WithBusyTimeout(250*time.Millisecond),
	)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, store.busyTimeout)
	assert.Contains(t, store.connOpts(), "busy_timeout(250)")
	assert.Equal(t, "/tmp/quorum", store.dataDir)
	assert.Same(t, logger, store.logger)
	assert.Equal(t, registry, store.promRegistry)
	// Nothing is opened until Start
	assert.Nil(t, store.Store)
	assert.NoError(t, store.Close())
}

func TestDefaultBusyTimeout(t *testing.T) {
	store, err := NewWithOptions()
	require.NoError(t, err)
	assert.Equal(t, DefaultBusyTimeout, store.busyTimeout)
	assert.Contains(t, store.connOpts(), "busy_timeout(5000)")
	assert.Contains(t, store.connOpts(), "journal_mode(WAL)")
}
