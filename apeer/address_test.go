package apeer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
	"github.com/albatross-engine/albatross/apeer"
)

func addressTestSigner(t *testing.T, seed byte) ablsminsig.Signer {
	t.Helper()
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = seed + byte(i)
	}
	s, err := ablsminsig.NewSigner(ikm)
	require.NoError(t, err)
	return s
}

func decodeBLS(b []byte) (acrypto.PubKey, error) {
	pk, err := ablsminsig.NewPubKey(b)
	if err != nil {
		return nil, err
	}
	return pk, nil
}

func TestSignAndVerifyPeerAddress(t *testing.T) {
	t.Parallel()

	s := addressTestSigner(t, 1)

	p := apeer.PeerAddress{
		Type:      apeer.Ws("example.invalid", 8080),
		Services:  0x1,
		Timestamp: 1234567890,
		PublicKey: s.PubKey(),
		Distance:  0,
	}

	require.NoError(t, p.Sign(context.Background(), s))
	require.True(t, p.VerifySignature())

	p.Timestamp++
	require.False(t, p.VerifySignature())
}

func TestPeerAddressExcludesNetAddressDistanceSignature(t *testing.T) {
	t.Parallel()

	s := addressTestSigner(t, 2)

	p := apeer.PeerAddress{
		Type:      apeer.Dumb(),
		Services:  0,
		Timestamp: 1,
		PublicKey: s.PubKey(),
	}
	require.NoError(t, p.Sign(context.Background(), s))

	changed := p
	changed.Distance = 5
	changed.NetAddress = apeer.NetAddress{1, 2, 3}

	require.Equal(t, p.SignatureCoveredBytes(), changed.SignatureCoveredBytes())
	require.True(t, changed.VerifySignature())
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	s := addressTestSigner(t, 3)

	p := apeer.PeerAddress{
		Type:      apeer.Wss("host.invalid", 443),
		Services:  7,
		Timestamp: 42,
		PublicKey: s.PubKey(),
		Distance:  2,
	}
	require.NoError(t, p.Sign(context.Background(), s))

	b, err := p.MarshalBinary()
	require.NoError(t, err)

	got, err := apeer.Unmarshal(b, decodeBLS)
	require.NoError(t, err)

	require.Equal(t, p.Type, got.Type)
	require.Equal(t, p.Services, got.Services)
	require.Equal(t, p.Timestamp, got.Timestamp)
	require.Equal(t, p.Distance, got.Distance)
	require.Equal(t, p.Signature, got.Signature)
	require.True(t, got.PublicKey.Equal(p.PublicKey))
	require.True(t, got.VerifySignature())
}

func TestAsURI(t *testing.T) {
	t.Parallel()

	s := addressTestSigner(t, 4)
	id := apeer.PeerID(s.PubKey())

	dumb := apeer.PeerAddress{Type: apeer.Dumb(), PublicKey: s.PubKey()}
	require.Equal(t, "dumb:///"+id, dumb.AsURI())

	ws := apeer.PeerAddress{Type: apeer.Ws("h", 1), PublicKey: s.PubKey()}
	require.Equal(t, "ws:///h:1/"+id, ws.AsURI())
}
