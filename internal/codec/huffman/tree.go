// Package huffman implements canonical Huffman codes as used by DEFLATE
// (RFC 1951 section 3.2.2). Codes are assigned in increasing order of
// (length, symbol) and emitted most-significant bit first into the LSB-first
// bit stream, which amounts to writing each code bit-reversed.
package huffman

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

// MaxBits - longest code length DEFLATE permits.
const MaxBits = 15

// Tree - canonical Huffman code table for one alphabet.
type Tree struct {
	lengths []uint8  // per-symbol code length, 0 = unused symbol
	codes   []uint16 // per-symbol code, bit-reversed for LSB-first emission

	// Canonical decode state: count of codes per length and symbols
	// ordered by (length, symbol).
	count   [MaxBits + 1]uint16
	symbols []uint16
}

// NewTree - builds a canonical code from per-symbol code lengths.
func NewTree(lengths []uint8) (*Tree, error) {
	t := &Tree{
		lengths: lengths,
		codes:   make([]uint16, len(lengths)),
	}

	for sym, l := range lengths {
		if l > MaxBits {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", models.ErrInvalidCode, sym, l)
		}
		t.count[l]++
	}
	t.count[0] = 0

	// Smallest code for each length (RFC 1951 section 3.2.2, step 2).
	var nextCode [MaxBits + 1]uint16
	code := uint16(0)
	for l := 1; l <= MaxBits; l++ {
		code = (code + t.count[l-1]) << 1
		nextCode[l] = code
		if int(code)+int(t.count[l]) > 1<<l {
			return nil, fmt.Errorf("%w: over-subscribed code lengths", models.ErrInvalidCode)
		}
	}

	offsets := make([]uint16, MaxBits+1)
	for l := 1; l <= MaxBits; l++ {
		offsets[l] = offsets[l-1] + t.count[l-1]
	}

	t.symbols = make([]uint16, offsets[MaxBits]+t.count[MaxBits])
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		t.codes[sym] = reverseBits(nextCode[l], uint(l))
		nextCode[l]++
		t.symbols[offsets[l]] = uint16(sym)
		offsets[l]++
	}

	return t, nil
}

// Encode - writes the code for sym to the bit writer.
func (t *Tree) Encode(w *bitio.Writer, sym int) error {
	if sym < 0 || sym >= len(t.lengths) || t.lengths[sym] == 0 {
		return fmt.Errorf("%w: symbol %d has no code", models.ErrInvalidCode, sym)
	}
	w.WriteBits(uint32(t.codes[sym]), uint(t.lengths[sym]))

	return nil
}

// Decode - consumes bits one at a time until a code matches and returns its
// symbol. Exhausting MaxBits without a match fails with models.ErrInvalidCode.
func (t *Tree) Decode(r *bitio.Reader) (int, error) {
	var (
		code  int // code built so far, MSB-first
		first int // smallest code of the current length
		index int // position of the first symbol of the current length
	)
	for l := 1; l <= MaxBits; l++ {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		code |= int(b)

		n := int(t.count[l])
		if code-first < n {
			return int(t.symbols[index+code-first]), nil
		}
		index += n
		first = (first + n) << 1
		code <<= 1
	}

	return 0, fmt.Errorf("%w: no code within %d bits", models.ErrInvalidCode, MaxBits)
}

// CodeLen - code length assigned to sym, 0 when unused.
func (t *Tree) CodeLen(sym int) uint8 {
	if sym < 0 || sym >= len(t.lengths) {
		return 0
	}
	return t.lengths[sym]
}

func reverseBits(v uint16, n uint) uint16 {
	var out uint16
	for i := uint(0); i < n; i++ {
		out = out<<1 | (v>>i)&1
	}
	return out
}
