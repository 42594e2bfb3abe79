package bitio

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/models"
)

// Reader - reads bits LSB-first from a byte buffer.
type Reader struct {
	data []byte
	pos  int  // next unread byte
	bit  uint // bits already consumed from data[pos]
}

// NewReader - initializes a bit reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits - consumes and returns the next n bits (n <= 32).
func (r *Reader) ReadBits(n uint) (uint32, error) {
	v, err := r.PeekBits(n)
	if err != nil {
		return 0, err
	}
	r.skipBits(n)

	return v, nil
}

// PeekBits - returns the next n bits without consuming them. Fails with
// models.ErrUnexpectedEOS when fewer than n bits remain.
func (r *Reader) PeekBits(n uint) (uint32, error) {
	if int(n) > r.BitsRemaining() {
		return 0, fmt.Errorf("%w: need %d bits, %d left", models.ErrUnexpectedEOS, n, r.BitsRemaining())
	}

	var (
		v   uint32
		got uint
		pos = r.pos
		bit = r.bit
	)
	for got < n {
		chunk := uint32(r.data[pos]) >> bit
		avail := 8 - bit
		v |= chunk << got
		got += avail
		pos++
		bit = 0
	}

	return v & (1<<n - 1), nil
}

func (r *Reader) skipBits(n uint) {
	r.bit += n
	r.pos += int(r.bit / 8)
	r.bit %= 8
}

// SkipToByteBoundary - discards bits up to the next byte boundary.
func (r *Reader) SkipToByteBoundary() {
	if r.bit > 0 {
		r.pos++
		r.bit = 0
	}
}

// ReadBytes - consumes n raw bytes. The reader must be byte-aligned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	r.SkipToByteBoundary()
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes, %d left", models.ErrUnexpectedEOS, n, len(r.data)-r.pos)
	}

	p := r.data[r.pos : r.pos+n]
	r.pos += n

	return p, nil
}

// ReadUint16 - consumes a 16-bit little-endian value. The reader must be
// byte-aligned.
func (r *Reader) ReadUint16() (uint16, error) {
	p, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return uint16(p[0]) | uint16(p[1])<<8, nil
}

// BitsRemaining - number of unread bits.
func (r *Reader) BitsRemaining() int {
	return (len(r.data)-r.pos)*8 - int(r.bit)
}
