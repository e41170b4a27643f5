package acrypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Sentinel errors returned by Builder.AddSignature and ThresholdProof.Verify.
var (
	// ErrDuplicateContribution is returned when a band has already
	// contributed a signature to the builder; the new contribution is
	// ignored, not an error the caller needs to act on.
	ErrDuplicateContribution = errors.New("acrypto: band already contributed to this proof")

	// ErrMismatchedMessage is returned when a contribution signs a
	// different message than one already accepted by the builder.
	ErrMismatchedMessage = errors.New("acrypto: contribution signs a different message than the builder is accumulating")

	// ErrEmptyBitmap is the structural error returned when verifying (or
	// building) a proof with no contributing bands at all.
	ErrEmptyBitmap = errors.New("acrypto: threshold proof has an empty signer bitmap")

	// ErrBitmapOutOfRange is returned when a signer bitmap references a
	// band index beyond the validator slot assignment.
	ErrBitmapOutOfRange = errors.New("acrypto: signer bitmap references an out-of-range band index")

	// ErrInsufficientWeight is returned by Verify when the cumulative
	// slot weight of the marked bands is below the threshold.
	ErrInsufficientWeight = errors.New("acrypto: aggregate slot weight is below the required threshold")

	// ErrInvalidSignature is returned by Verify when the aggregate
	// signature does not verify against the aggregate public key.
	ErrInvalidSignature = errors.New("acrypto: aggregate signature failed to verify")
)

// Aggregator combines many individual signatures or public keys into one,
// as BLS (and similar pairing-based schemes) allow. It is supplied to
// [Builder] and [ThresholdProof.Verify] so that acrypto itself stays
// agnostic to the concrete signature scheme; see
// [github.com/albatross-engine/albatross/acrypto/ablsminsig] for the BLS
// implementation used by this module.
type Aggregator interface {
	AggregateSignatures(sigs [][]byte) ([]byte, error)
	AggregatePubKeys(keys []PubKey) (PubKey, error)
}

// SlotBandSource is the minimal view of a validator slot assignment that
// ThresholdProof.Verify needs: the public key and weight of each band, by
// band index. avalidator.Slots implements this.
type SlotBandSource interface {
	Len() int
	BandAt(idx int) (pubKey PubKey, slotWeight uint16, ok bool)
}

// ThresholdProof is an aggregate signature accompanied by a bitmap
// indicating which validator slot bands contributed to it. It verifies
// only if the aggregate matches the summed public keys of the marked
// bands over the signed message, and the summed slot weight of those
// bands meets the caller-supplied threshold.
type ThresholdProof struct {
	AggregateSignature []byte
	SignerBitmap       *bitset.BitSet
}

// Verify checks p against message m, the validator slot assignment
// validators, a minimum weight threshold, and the scheme's Aggregator.
//
// Verification is deterministic and independent of the bitmap's
// traversal order.
func (p ThresholdProof) Verify(m Message, validators SlotBandSource, threshold uint16, agg Aggregator) error {
	if p.SignerBitmap == nil || p.SignerBitmap.None() {
		return ErrEmptyBitmap
	}

	var (
		keys        []PubKey
		totalWeight uint32
	)

	for idx, ok := p.SignerBitmap.NextSet(0); ok; idx, ok = p.SignerBitmap.NextSet(idx + 1) {
		pub, weight, found := validators.BandAt(int(idx))
		if !found {
			return fmt.Errorf("%w: band %d", ErrBitmapOutOfRange, idx)
		}
		keys = append(keys, pub)
		totalWeight += uint32(weight)
	}

	if totalWeight < uint32(threshold) {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientWeight, totalWeight, threshold)
	}

	aggKey, err := agg.AggregatePubKeys(keys)
	if err != nil {
		return fmt.Errorf("%w: aggregating public keys: %v", ErrInvalidSignature, err)
	}

	if !aggKey.Verify(SignBytes(m), p.AggregateSignature) {
		return ErrInvalidSignature
	}

	return nil
}

// Builder accumulates per-band signature contributions for a single
// message into a [ThresholdProof]. Builders are not safe for concurrent
// use, and a fresh Builder should be used for each aggregation round.
type Builder struct {
	haveMessage bool
	signBytes   []byte

	bandSigs map[uint16][]byte
	order    []uint16

	bitmap *bitset.BitSet
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		bandSigs: make(map[uint16][]byte),
		bitmap:   bitset.New(0),
	}
}

// AddSignature adds bandIdx's contribution to m, signed by pub with
// signature sig. slotWeight is currently unused by the builder itself;
// callers that need the running weight track it themselves from the
// band table, since Builder only knows which indices were added.
//
// A second contribution from a band already accepted is rejected with
// ErrDuplicateContribution. A contribution for a different message than
// one already accepted is rejected with ErrMismatchedMessage; every
// contribution in one Builder must sign the same message.
func (b *Builder) AddSignature(bandIdx uint16, pub PubKey, slotWeight uint16, m Message, sig []byte) error {
	sb := SignBytes(m)

	if b.haveMessage && !bytes.Equal(b.signBytes, sb) {
		return ErrMismatchedMessage
	}

	if !pub.Verify(sb, sig) {
		return ErrInvalidSignature
	}

	if _, ok := b.bandSigs[bandIdx]; ok {
		return ErrDuplicateContribution
	}

	if !b.haveMessage {
		b.haveMessage = true
		b.signBytes = sb
	}
	b.bandSigs[bandIdx] = sig
	b.order = append(b.order, bandIdx)
	b.bitmap.Set(uint(bandIdx))

	return nil
}

// Len returns the number of distinct bands that have contributed so far.
func (b *Builder) Len() int {
	return len(b.bandSigs)
}

// Build aggregates every accepted contribution into a ThresholdProof.
// It returns ErrEmptyBitmap if no contribution has been accepted.
func (b *Builder) Build(agg Aggregator) (ThresholdProof, error) {
	if len(b.bandSigs) == 0 {
		return ThresholdProof{}, ErrEmptyBitmap
	}

	sigs := make([][]byte, len(b.order))
	for i, idx := range b.order {
		sigs[i] = b.bandSigs[idx]
	}

	aggSig, err := agg.AggregateSignatures(sigs)
	if err != nil {
		return ThresholdProof{}, fmt.Errorf("acrypto: aggregating signatures: %w", err)
	}

	return ThresholdProof{
		AggregateSignature: aggSig,
		SignerBitmap:       b.bitmap.Clone(),
	}, nil
}
