package aforkpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/achain"
	"github.com/albatross-engine/albatross/apolicy"
)

// Sentinel errors returned by Pool.Insert. Per the design, insert is the
// only fallible mutator; ApplyBlock, RevertBlock, and Housekeeping are
// total and never fail.
var (
	// ErrSlotAlreadySlashed is a benign duplicate: some other proof
	// already slashed this slot, in the pool or on-chain.
	ErrSlotAlreadySlashed = errors.New("aforkpool: slot already slashed")

	// ErrInvalidEpochTarget means the proof is too old or too far in the
	// future relative to the pinned chain height.
	ErrInvalidEpochTarget = errors.New("aforkpool: fork proof is outside the valid epoch window")

	// ErrUnexpectedBlock means the chain could not resolve the slot that
	// produced header1; this may be transient.
	ErrUnexpectedBlock = errors.New("aforkpool: chain could not resolve the proof's slot")

	// ErrInvalidProof wraps a cryptographic verification failure.
	ErrInvalidProof = errors.New("aforkpool: fork proof failed cryptographic verification")
)

// headerMessage adapts a BlockHeader into an [acrypto.Message] so that
// its signature can be checked through the same domain-separated
// envelope every other consensus message uses.
type headerMessage struct {
	h BlockHeader
}

func (headerMessage) Kind() acrypto.MessageKind { return acrypto.KindForkProofHeader }
func (m headerMessage) CanonicalBytes() []byte  { return m.h.CanonicalBytes() }

type entry struct {
	proof ForkProof
	slot  achain.SlotNumber
}

// Pool is the single-writer fork-proof collection described in the
// design's §3/§4.4: a deduplicated map from proof hash to (proof,
// slot_number), plus the derived set of already-slashed slots. Readers
// (Contains, ContainsHash, Get, GetForkProofsForBlock) may run
// concurrently with each other under the pool's read lock; mutators
// (Insert, ApplyBlock, RevertBlock, Housekeeping) take its write lock,
// so they are serialized with each other and with readers.
type Pool struct {
	mu sync.RWMutex

	chain   achain.State
	metrics Metrics

	proofs  map[ForkProofHash]entry
	slashed map[achain.SlotNumber]ForkProofHash
}

// New returns an empty Pool backed by chain. If metrics is nil, a no-op
// implementation is used.
func New(chain achain.State, metrics Metrics) *Pool {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Pool{
		chain:   chain,
		metrics: metrics,
		proofs:  make(map[ForkProofHash]entry),
		slashed: make(map[achain.SlotNumber]ForkProofHash),
	}
}

// Insert adds proof to the pool, following the seven-step sequence of
// the design's §4.4:
//
//  1. If the proof's hash is already present, this is a no-op: returns
//     (false, nil).
//  2. Acquire a consistent chain snapshot.
//  3. Check temporal validity against the snapshot's height.
//  4. Resolve the slot that produced header1.
//  5. Reject if that slot is already slashed, in the chain's slashed
//     set or the pool's own.
//  6. Cryptographically verify both justifications against the slot's
//     public key.
//  7. Insert into both the proof map and the slashed-slot set.
func (p *Pool) Insert(ctx context.Context, proof ForkProof) (added bool, err error) {
	hash := proof.Hash()

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.proofs[hash]; ok {
		return false, nil
	}

	snap, err := p.chain.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: acquiring chain snapshot: %v", ErrUnexpectedBlock, err)
	}

	// head comes from the pinned snapshot, not a second call to p.chain,
	// so steps 2-5 all observe the same height even if the live chain
	// advances concurrently.
	head := snap.Head()

	if !proof.IsValidAt(head) {
		return false, fmt.Errorf("%w: proof epoch does not cover height %d", ErrInvalidEpochTarget, head)
	}

	slot, ok, err := snap.GetSlotAt(ctx, proof.Header1.BlockNumber, proof.Header1.ViewNumber)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnexpectedBlock, err)
	}
	if !ok {
		return false, ErrUnexpectedBlock
	}

	epoch := achain.Epoch(apolicy.EpochAt(uint32(proof.Header1.BlockNumber)))
	slashedSet, err := snap.SlashedSetForEpoch(ctx, epoch)
	if err != nil {
		return false, fmt.Errorf("%w: reading slashed set: %v", ErrInvalidEpochTarget, err)
	}

	if slashedSet.Contains(slot.SlotNumber) {
		return false, ErrSlotAlreadySlashed
	}
	if _, ok := p.slashed[slot.SlotNumber]; ok {
		return false, ErrSlotAlreadySlashed
	}

	if !acrypto.Verify(headerMessage{proof.Header1}, proof.Justification1, slot.PublicKey) {
		return false, fmt.Errorf("%w: header1 justification", ErrInvalidProof)
	}
	if !acrypto.Verify(headerMessage{proof.Header2}, proof.Justification2, slot.PublicKey) {
		return false, fmt.Errorf("%w: header2 justification", ErrInvalidProof)
	}

	p.proofs[hash] = entry{proof: proof, slot: slot.SlotNumber}
	p.slashed[slot.SlotNumber] = hash
	p.metrics.ProofsRetained(1)

	return true, nil
}

// Contains reports whether proof is present in the pool by recomputing
// its hash.
func (p *Pool) Contains(proof ForkProof) bool {
	return p.ContainsHash(proof.Hash())
}

// ContainsHash reports whether a proof with the given hash is present.
func (p *Pool) ContainsHash(hash ForkProofHash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.proofs[hash]
	return ok
}

// Get returns the proof stored under hash, if any.
func (p *Pool) Get(hash ForkProofHash) (ForkProof, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.proofs[hash]
	if !ok {
		return ForkProof{}, false
	}
	return e.proof, true
}

// ApplyBlock removes every proof in embedded (identified by hash) from
// the pool and frees its slot, mirroring that the chain has now
// recorded the slashing itself.
func (p *Pool) ApplyBlock(embedded []ForkProof) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, proof := range embedded {
		hash := proof.Hash()
		e, ok := p.proofs[hash]
		if !ok {
			continue
		}
		delete(p.proofs, hash)
		delete(p.slashed, e.slot)
		p.metrics.ProofsRetained(-1)
	}
}

// RevertBlock re-inserts every proof that was embedded in a reverted
// block, re-resolving its slot from the (now-reverted) chain state. A
// proof whose slot can no longer be resolved -- for instance because the
// reorg crossed an epoch boundary -- is silently skipped, per the
// design's §4.4 failure model, and counted against
// reverts_unresolved_total. If no chain snapshot can be acquired, every
// proof is skipped and counted that way. The returned error is always
// nil.
func (p *Pool) RevertBlock(ctx context.Context, embedded []ForkProof) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.chain.Snapshot(ctx)
	if err != nil {
		// No slot can be resolved without a snapshot: every proof is
		// skipped and counted as unresolved.
		for range embedded {
			p.metrics.RevertsUnresolved()
		}
		return nil
	}

	for _, proof := range embedded {
		hash := proof.Hash()
		slot, ok, err := snap.GetSlotAt(ctx, proof.Header1.BlockNumber, proof.Header1.ViewNumber)
		if err != nil || !ok {
			p.metrics.RevertsUnresolved()
			continue
		}

		p.proofs[hash] = entry{proof: proof, slot: slot.SlotNumber}
		p.slashed[slot.SlotNumber] = hash
		p.metrics.ProofsRetained(1)
	}

	return nil
}

// Housekeeping prunes every retained proof no longer valid at height h,
// per the validity rule: still within the gossip-worthy epoch window,
// and its slot not present in the slashed set of the epoch it actually
// belongs to (current or previous, matching IsValidAt). Pruned proofs
// also have their slot freed from the slashed-slot set.
func (p *Pool) Housekeeping(h achain.BlockNumber, currentSlashedSet, previousSlashedSet achain.SlashedSet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentEpoch := apolicy.EpochAt(uint32(h))

	var pruned int
	for hash, e := range p.proofs {
		if !e.proof.IsValidAt(h) {
			delete(p.proofs, hash)
			delete(p.slashed, e.slot)
			pruned++
			continue
		}

		proofEpoch := apolicy.EpochAt(uint32(e.proof.Header1.BlockNumber))

		var alreadySlashedOnChain bool
		if proofEpoch == currentEpoch {
			alreadySlashedOnChain = currentSlashedSet != nil && currentSlashedSet.Contains(e.slot)
		} else {
			alreadySlashedOnChain = previousSlashedSet != nil && previousSlashedSet.Contains(e.slot)
		}

		if alreadySlashedOnChain {
			delete(p.proofs, hash)
			delete(p.slashed, e.slot)
			pruned++
		}
	}

	if pruned > 0 {
		p.metrics.ProofsRetained(-pruned)
		p.metrics.ProofsPruned(pruned)
	}
}

// GetForkProofsForBlock greedily selects proofs to embed in the next
// block body, filling maxBytes on a first-fit basis by the pool's
// internal (unspecified) iteration order. This is explicitly not an
// optimal knapsack packing -- the design calls for size-budgeted
// selection, not maximum-value selection.
func (p *Pool) GetForkProofsForBlock(maxBytes int) []ForkProof {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var (
		out  []ForkProof
		used int
	)
	for _, e := range p.proofs {
		size := e.proof.SerializedSize()
		if used+size >= maxBytes {
			continue
		}
		out = append(out, e.proof)
		used += size
	}
	return out
}

// Len returns the number of proofs currently retained.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.proofs)
}
