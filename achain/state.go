// Package achain declares the external chain-state interfaces that
// [github.com/albatross-engine/albatross/aforkpool] consults, without
// depending on any particular chain or storage implementation. The
// fork-proof pool only ever needs a pinned view of one height plus slot
// and slashed-set lookups against it; achain names exactly that surface.
package achain

import (
	"context"

	"github.com/albatross-engine/albatross/acrypto"
)

// BlockNumber identifies a micro-block by height.
type BlockNumber uint32

// ViewNumber identifies a pBFT view at a given block height.
type ViewNumber uint32

// Epoch identifies a contiguous run of blocks sharing one validator slot
// assignment. See [github.com/albatross-engine/albatross/apolicy.EpochAt].
type Epoch uint32

// SlotNumber is the index of a validator slot within its epoch's
// assignment -- the unit of voting weight and the index space used by
// the slashed set. It is distinct from the signer-bitmap band index
// used by threshold proofs.
type SlotNumber uint16

// Slot is the resolved identity of a validator slot: its public key and
// its slot number within the epoch.
type Slot struct {
	PublicKey  acrypto.PubKey
	SlotNumber SlotNumber
}

// State is the chain's externally observable head. Implementations must
// be safe for concurrent use; Snapshot pins a consistent view for
// multi-step operations such as [aforkpool.Pool.Insert].
type State interface {
	// Head returns the current block number and its epoch.
	Head(ctx context.Context) (BlockNumber, Epoch, error)

	// Snapshot returns a read-consistent view of the chain at the
	// current head, stable for the lifetime of the returned Snapshot.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is a pinned, read-consistent view of chain state, as required
// across the multi-step insert sequence in §4.4 of the design.
type Snapshot interface {
	// Head returns the block number the snapshot was pinned at. Callers
	// needing the height partway through a multi-step operation must read
	// it from here, never from a second call to State.Head, so that the
	// whole operation observes one consistent height even if the live
	// chain advances concurrently.
	Head() BlockNumber

	// GetSlotAt resolves the slot that produced the block at the given
	// height and view. It returns ok=false if the chain cannot resolve
	// one -- the caller must treat this as a benign "not found", never
	// an error.
	GetSlotAt(ctx context.Context, block BlockNumber, view ViewNumber) (slot Slot, ok bool, err error)

	// SlashedSetForEpoch returns the set of slot numbers already slashed
	// in the given epoch.
	SlashedSetForEpoch(ctx context.Context, epoch Epoch) (SlashedSet, error)
}

// SlashedSet reports whether a slot number has already been slashed
// within one epoch.
type SlashedSet interface {
	Contains(slot SlotNumber) bool
}
