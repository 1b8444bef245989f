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

package token

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type tokenMetrics struct {
	operations  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	totalSupply prometheus.Gauge
}

func (t *Token) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	t.metrics = &tokenMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_token_operations_total",
				Help: "total successful token operations, by operation",
			},
			[]string{"op"},
		),
		failures: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_token_operation_failures_total",
				Help: "total failed token operations, by operation",
			},
			[]string{"op"},
		),
		totalSupply: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "quorum_token_total_supply",
			Help: "token total supply in whole tokens",
		}),
	}
}

func (m *tokenMetrics) record(op string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *tokenMetrics) setSupply(supply *big.Int) {
	if m == nil {
		return
	}
	whole, _ := new(big.Float).Quo(
		new(big.Float).SetInt(supply),
		new(big.Float).SetInt(unit),
	).Float64()
	m.totalSupply.Set(whole)
}
