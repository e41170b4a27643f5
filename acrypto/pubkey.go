// Package acrypto defines the signing and verification primitives shared
// by every consensus message in this module: a minimal [PubKey] /
// [Signer] pair, domain-separated message signing, and the
// [ThresholdProof] aggregation that turns many single signatures into one
// slot-weighted proof.
//
// The package does not implement a concrete signature scheme itself; that
// lives in [github.com/albatross-engine/albatross/acrypto/ablsminsig],
// which satisfies [PubKey] and [Signer] over BLS12-381.
package acrypto

import "context"

// PubKey is a verifying key for some concrete signature scheme.
type PubKey interface {
	// PubKeyBytes returns the canonical compressed encoding of the key.
	PubKeyBytes() []byte

	// Equal reports whether other is the same key as the receiver.
	Equal(other PubKey) bool

	// Verify reports whether sig is a valid signature of msg under this key.
	Verify(msg, sig []byte) bool
}

// Signer produces signatures on behalf of a single [PubKey].
type Signer interface {
	PubKey() PubKey

	// Sign returns the signature of the exact bytes given; callers are
	// responsible for applying domain separation before calling Sign --
	// see [Sign] and [SignWithIndex].
	Sign(ctx context.Context, msg []byte) ([]byte, error)
}
