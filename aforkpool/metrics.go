package aforkpool

// Metrics receives counters from a Pool's mutating operations. The
// concrete Prometheus-backed implementation lives in
// [github.com/albatross-engine/albatross/aforkpool/aforkpoolmetrics], kept
// separate so that importing aforkpool never pulls in a metrics backend
// for callers that don't want one.
type Metrics interface {
	// ProofsRetained reports a change in the number of retained proofs;
	// delta may be negative.
	ProofsRetained(delta int)

	// ProofsPruned reports that count proofs were dropped by
	// Housekeeping in one call.
	ProofsPruned(count int)

	// RevertsUnresolved reports that RevertBlock could not re-resolve a
	// proof's slot and silently dropped it -- the design's unresolved
	// Open Question about reorgs crossing an epoch boundary, surfaced as
	// a counter rather than guessed at.
	RevertsUnresolved()
}

// NopMetrics discards every observation. It is the default used by [New]
// when no Metrics is supplied.
type NopMetrics struct{}

func (NopMetrics) ProofsRetained(int) {}
func (NopMetrics) ProofsPruned(int)   {}
func (NopMetrics) RevertsUnresolved() {}

var _ Metrics = NopMetrics{}
