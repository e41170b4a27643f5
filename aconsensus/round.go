package aconsensus

import (
	"context"

	"github.com/albatross-engine/albatross/acrypto"
)

// RoundAggregator collects per-band votes for one pBFT phase (prepare or
// commit) at one (block_number, view_number), keyed by the candidate
// block hash being voted on -- a round may see votes split across more
// than one candidate before it converges. Each candidate's votes
// aggregate into an independent [acrypto.Builder], the same way a
// consensus engine's precommit/prevote proof is keyed by block hash
// rather than assumed to have exactly one candidate.
type RoundAggregator[M acrypto.Message] struct {
	makeMessage func(BlockHash) M
	builders    map[BlockHash]*acrypto.Builder
}

// NewRoundAggregator returns an empty RoundAggregator. makeMessage
// builds the concrete message to sign/verify for a given candidate block
// hash -- e.g. PbftPrepareMessage{BlockHash: h} or
// PbftCommitMessage{BlockHash: h}.
func NewRoundAggregator[M acrypto.Message](makeMessage func(BlockHash) M) *RoundAggregator[M] {
	return &RoundAggregator[M]{
		makeMessage: makeMessage,
		builders:    make(map[BlockHash]*acrypto.Builder),
	}
}

// AddVote adds signed's contribution toward the given candidate block
// hash, under the voter's slot band index bandIdx, weighted by
// slotWeight.
func (r *RoundAggregator[M]) AddVote(
	hash BlockHash,
	bandIdx uint16,
	pub acrypto.PubKey,
	slotWeight uint16,
	signed acrypto.SignedMessage[M],
) error {
	b, ok := r.builders[hash]
	if !ok {
		b = acrypto.NewBuilder()
		r.builders[hash] = b
	}
	return b.AddSignature(bandIdx, pub, slotWeight, signed.Message, signed.Signature)
}

// SignAndAddVote builds the phase's message for hash via makeMessage,
// signs it with signer under bandIdx, and adds the resulting vote to the
// aggregator.
func (r *RoundAggregator[M]) SignAndAddVote(
	ctx context.Context,
	hash BlockHash,
	bandIdx uint16,
	signer acrypto.Signer,
	slotWeight uint16,
) (acrypto.SignedMessage[M], error) {
	m := r.makeMessage(hash)
	signed, err := acrypto.SignWithIndex(ctx, m, signer, bandIdx)
	if err != nil {
		return acrypto.SignedMessage[M]{}, err
	}
	if err := r.AddVote(hash, bandIdx, signer.PubKey(), slotWeight, signed); err != nil {
		return acrypto.SignedMessage[M]{}, err
	}
	return signed, nil
}

// Candidates returns every block hash that has received at least one
// vote so far.
func (r *RoundAggregator[M]) Candidates() []BlockHash {
	out := make([]BlockHash, 0, len(r.builders))
	for h := range r.builders {
		out = append(out, h)
	}
	return out
}

// Build aggregates every vote accepted so far for hash into a
// ThresholdProof. It returns [acrypto.ErrEmptyBitmap] if hash has
// received no votes.
func (r *RoundAggregator[M]) Build(hash BlockHash, agg acrypto.Aggregator) (acrypto.ThresholdProof, error) {
	b, ok := r.builders[hash]
	if !ok {
		return acrypto.ThresholdProof{}, acrypto.ErrEmptyBitmap
	}
	return b.Build(agg)
}

// NewPrepareRoundAggregator returns a RoundAggregator for the prepare
// phase.
func NewPrepareRoundAggregator() *RoundAggregator[PbftPrepareMessage] {
	return NewRoundAggregator(func(h BlockHash) PbftPrepareMessage {
		return PbftPrepareMessage{BlockHash: h}
	})
}

// NewCommitRoundAggregator returns a RoundAggregator for the commit
// phase.
func NewCommitRoundAggregator() *RoundAggregator[PbftCommitMessage] {
	return NewRoundAggregator(func(h BlockHash) PbftCommitMessage {
		return PbftCommitMessage{BlockHash: h}
	})
}
