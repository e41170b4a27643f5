// Package aconsensus defines the signable consensus messages of the
// Albatross-style hybrid BFT round: view changes and the two phases of a
// pBFT vote, prepare and commit.
package aconsensus

import (
	"github.com/albatross-engine/albatross/acodec"
	"github.com/albatross-engine/albatross/acrypto"
)

// ViewChange is a validator's claim that the current view at a given
// block height should advance. It is immutable once created.
type ViewChange struct {
	BlockNumber   uint32
	NewViewNumber uint32
}

var _ acrypto.Message = ViewChange{}

// Kind implements [acrypto.Message].
func (ViewChange) Kind() acrypto.MessageKind { return acrypto.KindViewChange }

// CanonicalBytes implements [acrypto.Message].
func (vc ViewChange) CanonicalBytes() []byte {
	w := acodec.NewWriter()
	w.Uint32(vc.BlockNumber)
	w.Uint32(vc.NewViewNumber)
	return w.Bytes()
}

// BlockHash is a 32-byte Blake2b digest identifying a block header.
type BlockHash [32]byte

// PbftPrepareMessage is the prepare-phase vote of a pBFT round: a claim
// that the validator has seen and intends to commit to block_hash.
//
// PbftPrepareMessage and [PbftCommitMessage] carry an identical payload.
// They are distinguishable only by their [acrypto.MessageKind] prefix --
// without it, a prepare signature would also verify as a commit
// signature for the same block hash.
type PbftPrepareMessage struct {
	BlockHash BlockHash
}

var _ acrypto.Message = PbftPrepareMessage{}

// Kind implements [acrypto.Message].
func (PbftPrepareMessage) Kind() acrypto.MessageKind { return acrypto.KindPbftPrepare }

// CanonicalBytes implements [acrypto.Message].
func (m PbftPrepareMessage) CanonicalBytes() []byte {
	w := acodec.NewWriter()
	w.FixedBytes(m.BlockHash[:])
	return w.Bytes()
}

// PbftCommitMessage is the commit-phase vote of a pBFT round: a claim
// that the validator has observed a quorum of prepares for block_hash and
// is finalizing it.
type PbftCommitMessage struct {
	BlockHash BlockHash
}

var _ acrypto.Message = PbftCommitMessage{}

// Kind implements [acrypto.Message].
func (PbftCommitMessage) Kind() acrypto.MessageKind { return acrypto.KindPbftCommit }

// CanonicalBytes implements [acrypto.Message].
func (m PbftCommitMessage) CanonicalBytes() []byte {
	w := acodec.NewWriter()
	w.FixedBytes(m.BlockHash[:])
	return w.Bytes()
}

// SignedViewChange is a ViewChange signed by one validator slot.
type SignedViewChange = acrypto.SignedMessage[ViewChange]

// SignedPbftPrepareMessage is a PbftPrepareMessage signed by one
// validator slot.
type SignedPbftPrepareMessage = acrypto.SignedMessage[PbftPrepareMessage]

// SignedPbftCommitMessage is a PbftCommitMessage signed by one validator
// slot.
type SignedPbftCommitMessage = acrypto.SignedMessage[PbftCommitMessage]
