// Package avalidator models the validator slot assignment for an epoch:
// an ordered sequence of [SlotBand]s, each a contiguous run of slots owned
// by one validator key, whose combined weight is exactly
// [apolicy.SLOTS].
package avalidator

import (
	"fmt"

	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/apolicy"
)

// SlotBand is a contiguous run of validator slots owned by one public
// key. Weight in threshold tallies is SlotCount, not one -- a validator
// that owns many slots votes with proportionally more weight.
type SlotBand struct {
	PublicKey acrypto.PubKey
	SlotCount uint16
}

// Slots is the ordered slot assignment for one epoch. The band at index i
// is referred to by "band index i" throughout the aggregation and
// threshold-proof code; it is distinct from the slot_number space used by
// the fork-proof pool and the chain's slashed set.
type Slots struct {
	bands []SlotBand
}

// NewSlots validates that the bands sum to exactly apolicy.SLOTS and
// returns a Slots wrapping them.
func NewSlots(bands []SlotBand) (Slots, error) {
	var total uint32
	for _, b := range bands {
		total += uint32(b.SlotCount)
	}
	if total != uint32(apolicy.SLOTS) {
		return Slots{}, fmt.Errorf(
			"avalidator: slot bands sum to %d, want %d", total, apolicy.SLOTS,
		)
	}

	out := make([]SlotBand, len(bands))
	copy(out, bands)
	return Slots{bands: out}, nil
}

// Len returns the number of bands (not the number of slots).
func (s Slots) Len() int {
	return len(s.bands)
}

// Band returns the band at the given band index.
func (s Slots) Band(idx int) (SlotBand, bool) {
	if idx < 0 || idx >= len(s.bands) {
		return SlotBand{}, false
	}
	return s.bands[idx], true
}

// BandAt implements [acrypto.SlotBandSource], giving the threshold proof
// verifier a read-only view of the slot assignment without acrypto
// importing this package.
func (s Slots) BandAt(idx int) (pubKey acrypto.PubKey, slotWeight uint16, ok bool) {
	b, ok := s.Band(idx)
	if !ok {
		return nil, 0, false
	}
	return b.PublicKey, b.SlotCount, true
}

// Total returns the sum of every band's slot count, which is always
// apolicy.SLOTS for a Slots value constructed via NewSlots.
func (s Slots) Total() uint16 {
	var total uint32
	for _, b := range s.bands {
		total += uint32(b.SlotCount)
	}
	return uint16(total)
}
