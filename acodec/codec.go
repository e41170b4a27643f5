// Package acodec implements the canonical, big-endian, length-prefixed
// serialization used by every wire type in this module: integers are
// fixed-width big-endian, strings carry a 2-byte big-endian length prefix
// followed by their UTF-8 bytes, and tagged unions lead with a 1-byte tag.
//
// Encoders and decoders are written by hand against [*Writer] and
// [*Reader] rather than through reflection, matching the size and
// determinism requirements of signed consensus data: the same value must
// always produce the same bytes, and those bytes are exactly what gets
// signed.
package acodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when a Reader runs out of bytes before a field
// is fully decoded.
var ErrShortRead = errors.New("acodec: short read")

// Writer accumulates a canonical byte encoding.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Uint8 writes a single byte, often used as a tag.
func (w *Writer) Uint8(v uint8) {
	w.buf.WriteByte(v)
}

// Uint16 writes v as 2 big-endian bytes.
func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// Uint32 writes v as 4 big-endian bytes.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// Uint64 writes v as 8 big-endian bytes.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// FixedBytes writes b verbatim, with no length prefix. Used for
// fixed-size fields such as digests, public keys, and signatures, whose
// length is implied by the scheme rather than carried on the wire.
func (w *Writer) FixedBytes(b []byte) {
	w.buf.Write(b)
}

// String writes s as a 2-byte big-endian length prefix followed by its
// UTF-8 bytes.
func (w *Writer) String(s string) {
	w.Uint16(uint16(len(s)))
	w.buf.WriteString(s)
}

// VarBytes writes b as a 2-byte big-endian length prefix followed by the
// raw bytes.
func (w *Writer) VarBytes(b []byte) {
	w.Uint16(uint16(len(b)))
	w.buf.Write(b)
}

// Reader consumes a canonical byte encoding produced by [Writer].
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{r: bytes.NewReader(b)}
}

func (r *Reader) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return b, nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads 2 big-endian bytes.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32 reads 4 big-endian bytes.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64 reads 8 big-endian bytes.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// FixedBytes reads exactly n bytes with no length prefix.
func (r *Reader) FixedBytes(n int) ([]byte, error) {
	return r.read(n)
}

// String reads a 2-byte big-endian length prefix followed by that many
// UTF-8 bytes.
func (r *Reader) String() (string, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	b, err := r.read(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VarBytes reads a 2-byte big-endian length prefix followed by that many
// raw bytes.
func (r *Reader) VarBytes() ([]byte, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	return r.read(int(n))
}

// UnknownTag is returned by tagged-union decoders when the leading tag
// byte does not match any known variant.
func UnknownTag(tag uint8) error {
	return fmt.Errorf("acodec: unknown tag %#x", tag)
}
