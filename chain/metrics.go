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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type sequencerMetrics struct {
	sequence prometheus.Gauge
	advances prometheus.Counter
}

func (s *Sequencer) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	s.metrics = &sequencerMetrics{
		sequence: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "quorum_chain_sequence",
			Help: "current sequence number",
		}),
		advances: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "quorum_chain_advances_total",
			Help: "total sequence advances",
		}),
	}
}

func (m *sequencerMetrics) setSequence(seq uint64) {
	if m == nil {
		return
	}
	m.sequence.Set(float64(seq))
}

func (m *sequencerMetrics) advanced(seq uint64) {
	if m == nil {
		return
	}
	m.advances.Inc()
	m.sequence.Set(float64(seq))
}
