// Package ablsminsig implements [acrypto.PubKey], [acrypto.Signer], and
// [acrypto.Aggregator] using minimized-signature BLS12-381: public keys
// live on the G2 curve, signatures on G1. Aggregation of either a set of
// signatures or a set of public keys reduces to elliptic-curve point
// addition, which is what makes the flat threshold-proof scheme in
// [github.com/albatross-engine/albatross/acrypto] possible -- an
// aggregate signature over N contributions is exactly as big as one.
package ablsminsig

import (
	"context"
	"errors"
	"fmt"

	"github.com/albatross-engine/albatross/acrypto"
	blst "github.com/supranational/blst/bindings/go"
)

// DomainSeparationTag is the ciphersuite ID required by
// draft-irtf-cfrg-bls-signature-05 section 4.1. It must be identical
// between signing and verification; it is hardcoded here rather than
// configurable because this module only ever runs one ciphersuite.
var DomainSeparationTag = []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_NUL_")

// PubKey wraps a blst.P2Affine and implements [acrypto.PubKey].
type PubKey blst.P2Affine

var _ acrypto.PubKey = PubKey{}

// NewPubKey decodes a compressed G2 point into a PubKey.
func NewPubKey(b []byte) (PubKey, error) {
	if len(b) != blst.BLST_P2_COMPRESS_BYTES {
		return PubKey{}, fmt.Errorf(
			"ablsminsig: expected %d compressed bytes, got %d", blst.BLST_P2_COMPRESS_BYTES, len(b),
		)
	}

	p2a := new(blst.P2Affine).Uncompress(b)
	if p2a == nil {
		return PubKey{}, errors.New("ablsminsig: failed to decompress public key")
	}
	if !p2a.KeyValidate() {
		return PubKey{}, errors.New("ablsminsig: public key failed validation")
	}

	return PubKey(*p2a), nil
}

// PubKeyBytes implements [acrypto.PubKey].
func (k PubKey) PubKeyBytes() []byte {
	p2a := blst.P2Affine(k)
	return p2a.Compress()
}

// Equal implements [acrypto.PubKey].
func (k PubKey) Equal(other acrypto.PubKey) bool {
	o, ok := other.(PubKey)
	if !ok {
		return false
	}
	p2a, p2o := blst.P2Affine(k), blst.P2Affine(o)
	return p2a.Equals(&p2o)
}

// Verify implements [acrypto.PubKey].
func (k PubKey) Verify(msg, sig []byte) bool {
	p1a := new(blst.P1Affine).Uncompress(sig)
	if p1a == nil {
		return false
	}
	if !p1a.SigValidate(false) {
		return false
	}
	p2a := blst.P2Affine(k)
	return p1a.Verify(false, &p2a, false, blst.Message(msg), DomainSeparationTag)
}

// Signer wraps a BLS secret scalar and its associated G2 point, and
// implements [acrypto.Signer].
type Signer struct {
	secret blst.SecretKey
	point  blst.P2Affine
}

var _ acrypto.Signer = Signer{}

// NewSigner derives a Signer from ikm, which must be at least
// blst.BLST_SCALAR_BYTES of cryptographically random key material.
func NewSigner(ikm []byte) (Signer, error) {
	if len(ikm) < blst.BLST_SCALAR_BYTES {
		return Signer{}, fmt.Errorf(
			"ablsminsig: ikm too short: got %d bytes, need at least %d", len(ikm), blst.BLST_SCALAR_BYTES,
		)
	}

	// The salt is part of the KeyGenV5 (EIP-2333-style) derivation; this
	// module does not yet expose it as configurable.
	secretKey := blst.KeyGenV5(ikm, []byte("albatross-ikm-salt"))
	point := new(blst.P2Affine).From(secretKey)

	return Signer{secret: *secretKey, point: *point}, nil
}

// PubKey implements [acrypto.Signer].
func (s Signer) PubKey() acrypto.PubKey {
	return PubKey(s.point)
}

// Sign implements [acrypto.Signer]. The passed-in context is unused;
// signing is a local, non-blocking computation.
func (s Signer) Sign(_ context.Context, msg []byte) ([]byte, error) {
	sig := new(blst.P1Affine).Sign(&s.secret, msg, DomainSeparationTag, true)
	if sig == nil {
		return nil, errors.New("ablsminsig: signing failed")
	}
	return sig.Compress(), nil
}

// Scheme implements [acrypto.Aggregator] for minimized-signature BLS:
// aggregating either signatures or public keys is G1/G2 point addition.
type Scheme struct{}

var _ acrypto.Aggregator = Scheme{}

// AggregateSignatures sums a set of compressed G1 signatures into one
// compressed aggregate signature.
func (Scheme) AggregateSignatures(sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, errors.New("ablsminsig: cannot aggregate zero signatures")
	}

	acc := new(blst.P1)
	for i, raw := range sigs {
		p1a := new(blst.P1Affine).Uncompress(raw)
		if p1a == nil {
			return nil, fmt.Errorf("ablsminsig: signature %d failed to decompress", i)
		}
		acc = acc.Add(p1a)
	}

	return acc.ToAffine().Compress(), nil
}

// AggregatePubKeys sums a set of public keys into one aggregate public
// key on G2.
func (Scheme) AggregatePubKeys(keys []acrypto.PubKey) (acrypto.PubKey, error) {
	if len(keys) == 0 {
		return nil, errors.New("ablsminsig: cannot aggregate zero public keys")
	}

	acc := new(blst.P2)
	for i, k := range keys {
		pk, ok := k.(PubKey)
		if !ok {
			return nil, fmt.Errorf("ablsminsig: key %d is not an ablsminsig.PubKey", i)
		}
		p2a := blst.P2Affine(pk)
		acc = acc.Add(&p2a)
	}

	return PubKey(*acc.ToAffine()), nil
}
