package avalidator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
	"github.com/albatross-engine/albatross/avalidator"
)

func testIKM(seed byte) []byte {
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = seed + byte(i)
	}
	return ikm
}

func TestNewSlotsRejectsWrongTotal(t *testing.T) {
	t.Parallel()

	s, err := ablsminsig.NewSigner(testIKM(1))
	require.NoError(t, err)

	_, err = avalidator.NewSlots([]avalidator.SlotBand{
		{PublicKey: s.PubKey(), SlotCount: 511},
	})
	require.Error(t, err)
}

func TestSlotsBandAt(t *testing.T) {
	t.Parallel()

	s1, err := ablsminsig.NewSigner(testIKM(1))
	require.NoError(t, err)
	s2, err := ablsminsig.NewSigner(testIKM(2))
	require.NoError(t, err)

	slots, err := avalidator.NewSlots([]avalidator.SlotBand{
		{PublicKey: s1.PubKey(), SlotCount: 300},
		{PublicKey: s2.PubKey(), SlotCount: 212},
	})
	require.NoError(t, err)
	require.Equal(t, 2, slots.Len())
	require.Equal(t, uint16(512), slots.Total())

	pub, weight, ok := slots.BandAt(1)
	require.True(t, ok)
	require.Equal(t, uint16(212), weight)
	require.True(t, pub.Equal(s2.PubKey()))

	_, _, ok = slots.BandAt(2)
	require.False(t, ok)
}
