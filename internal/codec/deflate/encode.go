package deflate

import (
	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/huffman"
)

// encodeStored - frames data as a chain of stored blocks, at most 64 KiB-1
// bytes each, the last one carrying the final flag. Empty input still
// produces one zero-length final block.
func encodeStored(data []byte) []byte {
	w := bitio.NewWriter()
	for first := true; first || len(data) > 0; first = false {
		n := len(data)
		if n > maxStoredLen {
			n = maxStoredLen
		}

		final := uint32(0)
		if n == len(data) {
			final = 1
		}
		w.WriteBits(final, 1)
		w.WriteBits(blockStored, 2)
		w.WriteUint16(uint16(n))
		w.WriteUint16(^uint16(n))
		w.WriteBytes(data[:n])

		data = data[n:]
	}

	return w.Bytes()
}

// encodeFixed - emits the token stream as a single final fixed-Huffman block.
func encodeFixed(tokens []token) ([]byte, error) {
	w := bitio.NewWriter()
	w.WriteBits(1, 1)
	w.WriteBits(blockFixed, 2)

	lit := huffman.FixedLiteralTree()
	dist := huffman.FixedDistanceTree()

	for _, t := range tokens {
		if t.length == 0 {
			if err := lit.Encode(w, int(t.lit)); err != nil {
				return nil, err
			}
			continue
		}

		sym, offset, extra, err := huffman.LengthToCode(t.length)
		if err != nil {
			return nil, err
		}
		if err := lit.Encode(w, sym); err != nil {
			return nil, err
		}
		w.WriteBits(offset, uint(extra))

		sym, offset, extra, err = huffman.DistanceToCode(t.dist)
		if err != nil {
			return nil, err
		}
		if err := dist.Encode(w, sym); err != nil {
			return nil, err
		}
		w.WriteBits(offset, uint(extra))
	}

	if err := lit.Encode(w, huffman.EndOfBlock); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}
