package acodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/acodec"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	w := acodec.NewWriter()
	w.Uint8(0x04)
	w.Uint16(4242)
	w.Uint32(123456)
	w.Uint64(9876543210)
	w.FixedBytes([]byte{1, 2, 3, 4})
	w.String("albatross")
	w.VarBytes([]byte{9, 8, 7})

	r := acodec.NewReader(w.Bytes())

	tag, err := r.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x04), tag)

	u16, err := r.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(4242), u16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(123456), u32)

	u64, err := r.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(9876543210), u64)

	fixed, err := r.FixedBytes(4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, fixed)

	s, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "albatross", s)

	vb, err := r.VarBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7}, vb)
}

func TestShortRead(t *testing.T) {
	t.Parallel()

	r := acodec.NewReader([]byte{0x01})
	_, err := r.Uint32()
	require.ErrorIs(t, err, acodec.ErrShortRead)
}
