package aforkpoolmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/aforkpool/aforkpoolmetrics"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		if m.Gauge != nil {
			return m.Gauge.GetValue()
		}
		if m.Counter != nil {
			return m.Counter.GetValue()
		}
	}

	t.Fatalf("metric %q not found", name)
	return 0
}

func TestMetricsRecordObservations(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := aforkpoolmetrics.New(reg)

	m.ProofsRetained(3)
	m.ProofsRetained(-1)
	m.ProofsPruned(2)
	m.RevertsUnresolved()
	m.RevertsUnresolved()

	require.Equal(t, float64(2), gatherValue(t, reg, "albatross_forkpool_proofs_retained"))
	require.Equal(t, float64(2), gatherValue(t, reg, "albatross_forkpool_proofs_pruned_total"))
	require.Equal(t, float64(2), gatherValue(t, reg, "albatross_forkpool_reverts_unresolved_total"))
}
