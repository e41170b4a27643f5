// Package aforkpoolmetrics is the Prometheus-backed
// [github.com/albatross-engine/albatross/aforkpool.Metrics]
// implementation used by cmd/albatross-poold.
package aforkpoolmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/albatross-engine/albatross/aforkpool"
)

// Metrics registers and updates the fork-proof pool's three metrics (one
// gauge, two counters) against a Prometheus registerer.
type Metrics struct {
	proofsRetained         prometheus.Gauge
	proofsPruned           prometheus.Counter
	revertsUnresolvedTotal prometheus.Counter
}

var _ aforkpool.Metrics = (*Metrics)(nil)

// New builds and registers the pool's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		proofsRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "albatross",
			Subsystem: "forkpool",
			Name:      "proofs_retained",
			Help:      "Number of fork proofs currently retained in the pool.",
		}),
		proofsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "albatross",
			Subsystem: "forkpool",
			Name:      "proofs_pruned_total",
			Help:      "Total fork proofs dropped by housekeeping as no longer valid.",
		}),
		revertsUnresolvedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "albatross",
			Subsystem: "forkpool",
			Name:      "reverts_unresolved_total",
			Help:      "Total fork proofs dropped during a block revert because their slot could not be re-resolved.",
		}),
	}

	reg.MustRegister(m.proofsRetained, m.proofsPruned, m.revertsUnresolvedTotal)

	return m
}

// ProofsRetained implements [aforkpool.Metrics].
func (m *Metrics) ProofsRetained(delta int) {
	m.proofsRetained.Add(float64(delta))
}

// ProofsPruned implements [aforkpool.Metrics].
func (m *Metrics) ProofsPruned(count int) {
	m.proofsPruned.Add(float64(count))
}

// RevertsUnresolved implements [aforkpool.Metrics].
func (m *Metrics) RevertsUnresolved() {
	m.revertsUnresolvedTotal.Inc()
}
