// Package apeer implements the peer-address record: a self-authenticating
// binding between a validator's public key and its transport endpoint,
// gossiped independently of consensus messages and fork proofs. The
// signature covers only the fields the key's owner can vouch for --
// identity, services, and (for Ws/Wss) the endpoint they're reachable
// at -- never the observed network address, hop distance, or the
// signature itself, since those are populated by intermediate peers.
package apeer

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/albatross-engine/albatross/acodec"
	"github.com/albatross-engine/albatross/acrypto"
)

// Protocol is the wire tag identifying a PeerAddressType variant.
type Protocol uint8

const (
	ProtocolDumb Protocol = 1
	ProtocolWs   Protocol = 2
	ProtocolWss  Protocol = 3
	ProtocolRtc  Protocol = 4
)

// AddressType is the tagged transport-endpoint variant a PeerAddress
// advertises. Only Ws and Wss carry a host and port; Dumb and Rtc are
// reachable only through peer relay.
type AddressType struct {
	Protocol Protocol
	Host     string // set only for Ws/Wss
	Port     uint16 // set only for Ws/Wss
}

// Dumb returns the Dumb variant.
func Dumb() AddressType { return AddressType{Protocol: ProtocolDumb} }

// Ws returns the Ws(host, port) variant.
func Ws(host string, port uint16) AddressType {
	return AddressType{Protocol: ProtocolWs, Host: host, Port: port}
}

// Wss returns the Wss(host, port) variant.
func Wss(host string, port uint16) AddressType {
	return AddressType{Protocol: ProtocolWss, Host: host, Port: port}
}

// Rtc returns the Rtc variant.
func Rtc() AddressType { return AddressType{Protocol: ProtocolRtc} }

func (t AddressType) hasHostPort() bool {
	return t.Protocol == ProtocolWs || t.Protocol == ProtocolWss
}

// NetAddress is the observed transport address a peer was seen at. It is
// populated by whichever peer relayed the record, never by the record's
// own signer, and so is excluded from the signed bytes.
type NetAddress [16]byte // IPv4-mapped IPv6, or all-zero if unknown

// PeerAddress is a signed, self-authenticating identity record binding a
// public key to a transport endpoint.
type PeerAddress struct {
	Type      AddressType
	Services  uint32
	Timestamp uint64

	NetAddress NetAddress
	PublicKey  acrypto.PubKey
	Distance   uint8

	Signature []byte
}

// ErrUnknownProtocol is returned when decoding a wire-format PeerAddress
// (or AddressType) with an unrecognized protocol tag.
var ErrUnknownProtocol = errors.New("apeer: unknown protocol tag")

// SignatureCoveredBytes returns the exact byte string a PeerAddress's
// signature covers: protocol_tag || services || timestamp, followed by
// host || port for Ws/Wss. net_address, distance, and the signature
// itself are never included.
func (p PeerAddress) SignatureCoveredBytes() []byte {
	w := acodec.NewWriter()
	w.Uint8(uint8(p.Type.Protocol))
	w.Uint32(p.Services)
	w.Uint64(p.Timestamp)
	if p.Type.hasHostPort() {
		w.String(p.Type.Host)
		w.Uint16(p.Type.Port)
	}
	return w.Bytes()
}

// Sign computes and sets p.Signature over p.SignatureCoveredBytes using
// signer. PublicKey is not set by Sign; callers must set it to
// signer.PubKey() themselves so PeerAddress stays a plain value type.
func (p *PeerAddress) Sign(ctx context.Context, signer acrypto.Signer) error {
	sig, err := signer.Sign(ctx, p.SignatureCoveredBytes())
	if err != nil {
		return fmt.Errorf("apeer: signing peer address: %w", err)
	}
	p.Signature = sig
	return nil
}

// VerifySignature reports whether p.Signature is valid over
// p.SignatureCoveredBytes under p.PublicKey.
func (p PeerAddress) VerifySignature() bool {
	return p.PublicKey.Verify(p.SignatureCoveredBytes(), p.Signature)
}

// PeerID is the public identifier projected into URIs: the hex-encoded
// Blake2b-256 digest of the public key's compressed bytes.
func PeerID(pub acrypto.PubKey) string {
	sum := blake2b.Sum256(pub.PubKeyBytes())
	return hex.EncodeToString(sum[:])
}

// AsURI renders p's canonical URI projection, as described in the
// design: "dumb:///{peer_id}", "ws:///{host}:{port}/{peer_id}",
// "wss:///{host}:{port}/{peer_id}", or "rtc:///{peer_id}".
func (p PeerAddress) AsURI() string {
	id := PeerID(p.PublicKey)
	switch p.Type.Protocol {
	case ProtocolDumb:
		return fmt.Sprintf("dumb:///%s", id)
	case ProtocolWs:
		return fmt.Sprintf("ws:///%s:%d/%s", p.Type.Host, p.Type.Port, id)
	case ProtocolWss:
		return fmt.Sprintf("wss:///%s:%d/%s", p.Type.Host, p.Type.Port, id)
	case ProtocolRtc:
		return fmt.Sprintf("rtc:///%s", id)
	default:
		return fmt.Sprintf("unknown:///%s", id)
	}
}

// MarshalBinary encodes p in the full wire layout: protocol_tag ||
// services || timestamp || net_address || public_key || distance ||
// signature || variant_tail, where variant_tail is host || port for
// Ws/Wss and empty otherwise.
func (p PeerAddress) MarshalBinary() ([]byte, error) {
	w := acodec.NewWriter()
	w.Uint8(uint8(p.Type.Protocol))
	w.Uint32(p.Services)
	w.Uint64(p.Timestamp)
	w.FixedBytes(p.NetAddress[:])
	w.VarBytes(p.PublicKey.PubKeyBytes())
	w.Uint8(p.Distance)
	w.VarBytes(p.Signature)
	if p.Type.hasHostPort() {
		w.String(p.Type.Host)
		w.Uint16(p.Type.Port)
	}
	return w.Bytes(), nil
}

// PubKeyDecoder decodes a scheme-specific public key's raw bytes. apeer
// stays agnostic to the concrete signature scheme, the same way
// [acrypto.Aggregator] does; callers pass
// [github.com/albatross-engine/albatross/acrypto/ablsminsig.NewPubKey]
// wrapped to return an [acrypto.PubKey].
type PubKeyDecoder func([]byte) (acrypto.PubKey, error)

// Unmarshal decodes a PeerAddress from its wire layout, using
// decodePubKey to interpret the embedded public key bytes.
func Unmarshal(b []byte, decodePubKey PubKeyDecoder) (PeerAddress, error) {
	r := acodec.NewReader(b)

	tag, err := r.Uint8()
	if err != nil {
		return PeerAddress{}, err
	}
	protocol := Protocol(tag)

	var typ AddressType
	switch protocol {
	case ProtocolDumb:
		typ = Dumb()
	case ProtocolWs:
		typ = AddressType{Protocol: ProtocolWs}
	case ProtocolWss:
		typ = AddressType{Protocol: ProtocolWss}
	case ProtocolRtc:
		typ = Rtc()
	default:
		return PeerAddress{}, fmt.Errorf("%w: %d", ErrUnknownProtocol, tag)
	}

	services, err := r.Uint32()
	if err != nil {
		return PeerAddress{}, err
	}
	timestamp, err := r.Uint64()
	if err != nil {
		return PeerAddress{}, err
	}
	netAddrBytes, err := r.FixedBytes(len(NetAddress{}))
	if err != nil {
		return PeerAddress{}, err
	}
	pubBytes, err := r.VarBytes()
	if err != nil {
		return PeerAddress{}, err
	}
	pub, err := decodePubKey(pubBytes)
	if err != nil {
		return PeerAddress{}, fmt.Errorf("apeer: decoding public key: %w", err)
	}
	distance, err := r.Uint8()
	if err != nil {
		return PeerAddress{}, err
	}
	sig, err := r.VarBytes()
	if err != nil {
		return PeerAddress{}, err
	}

	if typ.hasHostPort() {
		host, err := r.String()
		if err != nil {
			return PeerAddress{}, err
		}
		port, err := r.Uint16()
		if err != nil {
			return PeerAddress{}, err
		}
		typ.Host = host
		typ.Port = port
	}

	var netAddr NetAddress
	copy(netAddr[:], netAddrBytes)

	return PeerAddress{
		Type:       typ,
		Services:   services,
		Timestamp:  timestamp,
		NetAddress: netAddr,
		PublicKey:  pub,
		Distance:   distance,
		Signature:  sig,
	}, nil
}
