package ablsminsig_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
)

func fixedIKM(seed byte) []byte {
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = seed + byte(i)
	}
	return ikm
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	s, err := ablsminsig.NewSigner(fixedIKM(0))
	require.NoError(t, err)

	msg := []byte("hello world")

	sig, err := s.Sign(context.Background(), msg)
	require.NoError(t, err)
	require.True(t, s.PubKey().Verify(msg, sig))

	msg[0]++
	require.False(t, s.PubKey().Verify(msg, sig))
	msg[0]--

	sig[0]++
	require.False(t, s.PubKey().Verify(msg, sig))
}

func TestAggregateSignatures(t *testing.T) {
	t.Parallel()

	s1, err := ablsminsig.NewSigner(fixedIKM(0))
	require.NoError(t, err)
	s2, err := ablsminsig.NewSigner(fixedIKM(32))
	require.NoError(t, err)

	msg := []byte("shared message")

	sig1, err := s1.Sign(context.Background(), msg)
	require.NoError(t, err)
	sig2, err := s2.Sign(context.Background(), msg)
	require.NoError(t, err)

	var scheme ablsminsig.Scheme

	aggSig, err := scheme.AggregateSignatures([][]byte{sig1, sig2})
	require.NoError(t, err)

	aggKey, err := scheme.AggregatePubKeys([]acrypto.PubKey{s1.PubKey(), s2.PubKey()})
	require.NoError(t, err)

	require.True(t, aggKey.Verify(msg, aggSig))

	msg[0]++
	require.False(t, aggKey.Verify(msg, aggSig))
}
