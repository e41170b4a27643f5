package achaintest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/achain"
	"github.com/albatross-engine/albatross/achain/achaintest"
	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
)

func TestSnapshotIsStableAfterMutation(t *testing.T) {
	t.Parallel()

	s, err := ablsminsig.NewSigner([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	chain := achaintest.New()
	chain.SetHead(10)
	chain.SetEpochSlots(0, achaintest.EpochSlots{
		1: {PublicKey: s.PubKey(), SlotNumber: 1},
	})
	chain.SetBlockProducer(10, 1)

	snap, err := chain.Snapshot(context.Background())
	require.NoError(t, err)

	// Mutate the live state after the snapshot was taken.
	chain.ClearBlockProducer(10)
	chain.Slash(0, 1)

	slot, ok, err := snap.GetSlotAt(context.Background(), 10, 0)
	require.NoError(t, err)
	require.True(t, ok, "snapshot must still resolve the slot despite the later mutation")
	require.Equal(t, achain.SlotNumber(1), slot.SlotNumber)

	slashed, err := snap.SlashedSetForEpoch(context.Background(), 0)
	require.NoError(t, err)
	require.False(t, slashed.Contains(1), "snapshot must not see the slash recorded after it was taken")
}
