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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type registryMetrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	proposals  prometheus.Counter
	votes      *prometheus.CounterVec
}

func (r *Registry) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	r.metrics = &registryMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_governance_operations_total",
				Help: "total successful governance operations, by operation",
			},
			[]string{"op"},
		),
		failures: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_governance_operation_failures_total",
				Help: "total failed governance operations, by operation",
			},
			[]string{"op"},
		),
		proposals: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "quorum_governance_proposals_created_total",
			Help: "total proposals created",
		}),
		votes: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_governance_votes_total",
				Help: "total votes cast, by support",
			},
			[]string{"support"},
		),
	}
}

func (m *registryMetrics) record(op string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *registryMetrics) proposalCreated() {
	if m == nil {
		return
	}
	m.proposals.Inc()
}

func (m *registryMetrics) voteCast(support bool) {
	if m == nil {
		return
	}
	label := "against"
	if support {
		label = "for"
	}
	m.votes.WithLabelValues(label).Inc()
}
