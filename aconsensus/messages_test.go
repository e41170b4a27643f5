package aconsensus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/aconsensus"
	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
	"github.com/albatross-engine/albatross/apolicy"
	"github.com/albatross-engine/albatross/avalidator"
)

func testSigner(t *testing.T, seed byte) ablsminsig.Signer {
	t.Helper()
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = seed + byte(i)
	}
	s, err := ablsminsig.NewSigner(ikm)
	require.NoError(t, err)
	return s
}

func TestPrepareAndCommitMessagesAreNotConfusable(t *testing.T) {
	t.Parallel()

	s := testSigner(t, 1)

	hash := aconsensus.BlockHash{1, 2, 3}
	prepare := aconsensus.PbftPrepareMessage{BlockHash: hash}
	commit := aconsensus.PbftCommitMessage{BlockHash: hash}

	sig, err := acrypto.Sign(context.Background(), prepare, s)
	require.NoError(t, err)

	require.True(t, acrypto.Verify(prepare, sig, s.PubKey()))
	require.False(t, acrypto.Verify(commit, sig, s.PubKey()))
}

func TestRoundAggregatorAcrossTwoCandidates(t *testing.T) {
	t.Parallel()

	s1 := testSigner(t, 10)
	s2 := testSigner(t, 20)

	validators, err := avalidator.NewSlots([]avalidator.SlotBand{
		{PublicKey: s1.PubKey(), SlotCount: apolicy.TwoThirdSlots},
		{PublicKey: s2.PubKey(), SlotCount: apolicy.SLOTS - apolicy.TwoThirdSlots},
	})
	require.NoError(t, err)

	hashA := aconsensus.BlockHash{0xA}
	hashB := aconsensus.BlockHash{0xB}

	agg := aconsensus.NewPrepareRoundAggregator()

	_, err = agg.SignAndAddVote(context.Background(), hashA, 0, s1, apolicy.TwoThirdSlots)
	require.NoError(t, err)
	_, err = agg.SignAndAddVote(context.Background(), hashB, 1, s2, apolicy.SLOTS-apolicy.TwoThirdSlots)
	require.NoError(t, err)

	require.ElementsMatch(t, []aconsensus.BlockHash{hashA, hashB}, agg.Candidates())

	var scheme ablsminsig.Scheme

	proofA, err := agg.Build(hashA, scheme)
	require.NoError(t, err)
	require.NoError(t, proofA.Verify(aconsensus.PbftPrepareMessage{BlockHash: hashA}, validators, apolicy.TwoThirdSlots, scheme))

	proofB, err := agg.Build(hashB, scheme)
	require.NoError(t, err)
	require.ErrorIs(t,
		proofB.Verify(aconsensus.PbftPrepareMessage{BlockHash: hashB}, validators, apolicy.TwoThirdSlots, scheme),
		acrypto.ErrInsufficientWeight,
	)
}
