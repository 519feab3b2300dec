// Copyright 2025 walteh LLC
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

// Package metrics counts renames and rollbacks in a Prometheus registry
// that can be dumped for the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/walteh/bulky/pkg/operation"
	"github.com/walteh/bulky/pkg/regexcache"
	"gitlab.com/tozd/go/errors"
)

const namespace = "bulky"

// 📈 Metrics owns an independent registry so several sessions never share
// collectors
type Metrics struct {
	registry  *prometheus.Registry
	renames   *prometheus.CounterVec
	rollbacks *prometheus.CounterVec
	batches   *prometheus.CounterVec
}

// 🏭 New creates the collectors. stats, when not nil, is read on every
// collection to export regex cache usage.
func New(stats func() regexcache.Stats) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renames_total",
			Help:      "Renames attempted, by result.",
		}, []string{"result"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Renames undone by rollback, by result.",
		}, []string{"result"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Executed batches, by final state.",
		}, []string{"state"}),
	}

	m.registry.MustRegister(m.renames, m.rollbacks, m.batches)

	if stats != nil {
		m.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "regex_cache",
				Name:      "hits_total",
				Help:      "Compiled pattern cache hits.",
			}, func() float64 { return float64(stats().Hits) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "regex_cache",
				Name:      "misses_total",
				Help:      "Compiled pattern cache misses.",
			}, func() float64 { return float64(stats().Misses) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "regex_cache",
				Name:      "entries",
				Help:      "Compiled patterns currently cached.",
			}, func() float64 { return float64(stats().Size) }),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBatch records an executed batch.
func (m *Metrics) ObserveBatch(batch *operation.Batch) {
	m.renames.WithLabelValues("ok").Add(float64(len(batch.Log().Successes)))
	if batch.Failure() != nil {
		m.renames.WithLabelValues("failed").Inc()
	}
	m.batches.WithLabelValues(batch.State().String()).Inc()
}

// ObserveRollback records a rollback report. A nil report is ignored.
func (m *Metrics) ObserveRollback(report *operation.RollbackReport) {
	if report == nil {
		return
	}
	m.rollbacks.WithLabelValues("reverted").Add(float64(report.RolledBack))
	m.rollbacks.WithLabelValues("failed").Add(float64(report.Failed))
}

// 💾 WriteTextfile writes every metric to path in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
