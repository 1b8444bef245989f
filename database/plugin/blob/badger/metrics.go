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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type blobMetrics struct {
	reads  prometheus.Counter
	writes prometheus.Counter
	lsm    prometheus.GaugeFunc
	vlog   prometheus.GaugeFunc
}

func (d *BlobStoreBadger) registerBlobMetrics() {
	factory := promauto.With(d.promRegistry)
	d.metrics = &blobMetrics{
		reads: factory.NewCounter(prometheus.CounterOpts{
			Name: "quorum_blob_reads_total",
			Help: "total number of blob store reads",
		}),
		writes: factory.NewCounter(prometheus.CounterOpts{
			Name: "quorum_blob_writes_total",
			Help: "total number of blob store writes",
		}),
		lsm: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "quorum_blob_lsm_size_bytes",
				Help: "size of the blob store LSM tree",
			},
			func() float64 {
				lsm, _ := d.DB().Size()
				return float64(lsm)
			},
		),
		vlog: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "quorum_blob_vlog_size_bytes",
				Help: "size of the blob store value log",
			},
			func() float64 {
				_, vlog := d.DB().Size()
				return float64(vlog)
			},
		),
	}
}

func (m *blobMetrics) read() {
	if m == nil {
		return
	}
	m.reads.Inc()
}

func (m *blobMetrics) write() {
	if m == nil {
		return
	}
	m.writes.Inc()
}
