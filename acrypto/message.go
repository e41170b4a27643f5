package acrypto

import (
	"context"
	"fmt"
)

// MessageKind is the single-byte domain-separation prefix tag assigned to
// a consensus message type. Two message kinds that serialize to the same
// bytes must never share a signature, which is why every [Message]
// implementation prepends its kind's byte to the signed content (see
// [SignBytes]).
type MessageKind byte

// The registry of prefix bytes in use by this deployment. New message
// kinds must be added here and to kindNames below -- a central,
// single-point registration, per the design. Because kindNames is a map
// literal keyed by these constants, two kinds sharing a prefix byte fail
// to compile with a duplicate-key error.
const (
	KindViewChange      MessageKind = 0x01
	KindPbftPrepare     MessageKind = 0x02
	KindPbftCommit      MessageKind = 0x03
	KindForkProofHeader MessageKind = 0x04
)

var kindNames = map[MessageKind]string{
	KindViewChange:      "ViewChange",
	KindPbftPrepare:     "PbftPrepare",
	KindPbftCommit:      "PbftCommit",
	KindForkProofHeader: "ForkProofHeader",
}

func init() {
	// Registration is a compile-time literal above, and the compiler
	// already rejects a duplicate constant key in it. This loop repeats
	// the check the way a runtime registry would; over the map literal as
	// written it cannot find a duplicate and so never panics.
	seen := make(map[MessageKind]string, len(kindNames))
	for k, name := range kindNames {
		if other, ok := seen[k]; ok {
			panic(fmt.Sprintf("acrypto: domain-separation prefix %#x registered twice: %q and %q", byte(k), other, name))
		}
		seen[k] = name
	}
}

// String returns the registered name for k, or a hex fallback if k is not
// a registered kind.
func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MessageKind(%#x)", byte(k))
}

// Message is any consensus value that can be signed. CanonicalBytes must
// be a deterministic, canonical encoding of the message's fields -- it
// must not include the [MessageKind] prefix, which [SignBytes] adds
// separately.
type Message interface {
	Kind() MessageKind
	CanonicalBytes() []byte
}

// SignBytes returns the exact byte string that is signed and verified for
// m: the domain-separation prefix followed by m's canonical encoding.
func SignBytes(m Message) []byte {
	body := m.CanonicalBytes()
	out := make([]byte, 1+len(body))
	out[0] = byte(m.Kind())
	copy(out[1:], body)
	return out
}

// Sign returns the signature of m under signer's key, with domain
// separation applied.
func Sign(ctx context.Context, m Message, signer Signer) ([]byte, error) {
	return signer.Sign(ctx, SignBytes(m))
}

// Verify reports whether sig is a valid signature of m under pub. It
// never panics or aborts on malformed input; it simply returns false.
func Verify(m Message, sig []byte, pub PubKey) bool {
	return pub.Verify(SignBytes(m), sig)
}

// SignedMessage pairs a message with the signer's slot index and the
// signature over it. The signer index references the validator's
// position in the current epoch's slot assignment, not a global key
// index.
type SignedMessage[M Message] struct {
	Message   M
	SignerIdx uint16
	Signature []byte
}

// SignWithIndex signs m with signer and packages the result alongside
// signerIdx.
func SignWithIndex[M Message](ctx context.Context, m M, signer Signer, signerIdx uint16) (SignedMessage[M], error) {
	sig, err := Sign(ctx, m, signer)
	if err != nil {
		return SignedMessage[M]{}, err
	}

	return SignedMessage[M]{
		Message:   m,
		SignerIdx: signerIdx,
		Signature: sig,
	}, nil
}

// Verify reports whether sm.Signature is a valid signature of sm.Message
// under pub. It does not consult sm.SignerIdx; the caller is responsible
// for mapping the index to the expected key.
func (sm SignedMessage[M]) Verify(pub PubKey) bool {
	return Verify(sm.Message, sm.Signature, pub)
}
