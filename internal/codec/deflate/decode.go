package deflate

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/huffman"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

// DecodeStream - decodes blocks from r until the final-block flag is seen
// and returns the produced output. The reader is left positioned right
// after the last block, so container wrappers can read their trailers.
func DecodeStream(r *bitio.Reader) ([]byte, error) {
	var out []byte
	for {
		final, err := r.ReadBits(1)
		if err != nil {
			return nil, err
		}
		btype, err := r.ReadBits(2)
		if err != nil {
			return nil, err
		}

		switch btype {
		case blockStored:
			out, err = decodeStored(r, out)
		case blockFixed:
			out, err = decodeFixed(r, out)
		case blockDynamic:
			return nil, fmt.Errorf("%w: dynamic huffman block", models.ErrUnsupported)
		default:
			return nil, fmt.Errorf("%w: reserved block type %d", models.ErrFormat, btype)
		}
		if err != nil {
			return nil, err
		}

		if final == 1 {
			return out, nil
		}
	}
}

func decodeStored(r *bitio.Reader, out []byte) ([]byte, error) {
	length, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	nlen, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if nlen != ^length {
		return nil, fmt.Errorf("%w: stored block length %#04x does not match complement %#04x",
			models.ErrFormat, length, nlen)
	}

	p, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}

	return append(out, p...), nil
}

func decodeFixed(r *bitio.Reader, out []byte) ([]byte, error) {
	lit := huffman.FixedLiteralTree()
	dist := huffman.FixedDistanceTree()

	for {
		sym, err := lit.Decode(r)
		if err != nil {
			return nil, err
		}

		switch {
		case sym < huffman.EndOfBlock:
			out = append(out, byte(sym))
			continue
		case sym == huffman.EndOfBlock:
			return out, nil
		case sym > 285:
			return nil, fmt.Errorf("%w: literal/length symbol %d", models.ErrInvalidCode, sym)
		}

		lc := huffman.LengthCodes[sym-257]
		extra, err := r.ReadBits(uint(lc.Extra))
		if err != nil {
			return nil, err
		}
		length := int(lc.Base) + int(extra)

		dsym, err := dist.Decode(r)
		if err != nil {
			return nil, err
		}
		if dsym > 29 {
			return nil, fmt.Errorf("%w: distance symbol %d", models.ErrInvalidCode, dsym)
		}
		dc := huffman.DistanceCodes[dsym]
		extra, err = r.ReadBits(uint(dc.Extra))
		if err != nil {
			return nil, err
		}
		distance := int(dc.Base) + int(extra)

		if distance > len(out) {
			return nil, fmt.Errorf("%w: distance %d exceeds %d bytes of output",
				models.ErrInvalidDistance, distance, len(out))
		}

		// Forward byte-by-byte copy so an overlapping source range
		// (distance < length) replicates the repeating pattern.
		start := len(out) - distance
		for i := 0; i < length; i++ {
			out = append(out, out[start+i])
		}
	}
}
