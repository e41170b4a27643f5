// Package aforkpool implements the fork-proof pool: the collection of
// evidence that a validator slot double-signed, deduplicated against an
// evolving chain state, tracking which slots have already been slashed.
package aforkpool

import (
	"golang.org/x/crypto/blake2b"

	"github.com/albatross-engine/albatross/acodec"
	"github.com/albatross-engine/albatross/achain"
	"github.com/albatross-engine/albatross/apolicy"
)

// BlockHeader is the minimal header content a ForkProof pins: enough to
// identify the (block_number, view_number) a header claims and to
// compute its hash. The pool does not otherwise interpret a header's
// contents.
type BlockHeader struct {
	BlockNumber achain.BlockNumber
	ViewNumber  achain.ViewNumber
	Hash        [32]byte
}

// CanonicalBytes encodes h deterministically for hashing and signing.
func (h BlockHeader) CanonicalBytes() []byte {
	w := acodec.NewWriter()
	w.Uint32(uint32(h.BlockNumber))
	w.Uint32(uint32(h.ViewNumber))
	w.FixedBytes(h.Hash[:])
	return w.Bytes()
}

// ForkProofHash identifies a ForkProof by the Blake2b digest of its
// serialized form.
type ForkProofHash [32]byte

// ForkProof is evidence that one validator slot signed two distinct
// headers at the same (block_number, view_number). The two
// justifications are the raw signatures that make the claim
// cryptographically checkable. The encoding carries them as opaque
// length-prefixed bytes; [Pool.Insert] accepts a proof only if each one
// verifies as the slot key's signature over its header, under the
// [acrypto.KindForkProofHeader] domain-separation prefix.
type ForkProof struct {
	Header1 BlockHeader
	Header2 BlockHeader

	Justification1 []byte
	Justification2 []byte
}

// CanonicalBytes encodes p deterministically, matching the
// length-prefixed justification fields to the variable-length BLS
// signature bytes they carry.
func (p ForkProof) CanonicalBytes() []byte {
	w := acodec.NewWriter()
	w.FixedBytes(p.Header1.CanonicalBytes())
	w.FixedBytes(p.Header2.CanonicalBytes())
	w.VarBytes(p.Justification1)
	w.VarBytes(p.Justification2)
	return w.Bytes()
}

// Hash returns the Blake2b-256 digest of p's canonical encoding, which
// is its identity within the pool.
func (p ForkProof) Hash() ForkProofHash {
	return ForkProofHash(blake2b.Sum256(p.CanonicalBytes()))
}

// IsValidAt reports whether p is still gossip-worthy at block height h:
// its epoch must be the epoch containing h, or the epoch immediately
// before it.
func (p ForkProof) IsValidAt(h achain.BlockNumber) bool {
	currentEpoch := apolicy.EpochAt(uint32(h))
	proofEpoch := apolicy.EpochAt(uint32(p.Header1.BlockNumber))

	if proofEpoch == currentEpoch {
		return true
	}
	return currentEpoch > 0 && proofEpoch == currentEpoch-1
}

// SerializedSize returns the byte length of p's canonical encoding, used
// by [Pool.GetForkProofsForBlock] to greedily fill a size budget.
func (p ForkProof) SerializedSize() int {
	return len(p.CanonicalBytes())
}
