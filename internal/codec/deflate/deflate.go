// Package deflate implements the DEFLATE compressed-block format
// (RFC 1951) over whole in-memory buffers: stored and fixed-Huffman
// blocks, an LZ77 matcher over a 32 KiB window, and block-type selection.
// Dynamic-Huffman blocks (type 10) are rejected as unsupported.
package deflate

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
)

// Block types (RFC 1951 section 3.2.3).
const (
	blockStored   = 0
	blockFixed    = 1
	blockDynamic  = 2
	blockReserved = 3
)

// Largest payload of a single stored block.
const maxStoredLen = 0xFFFF

// Level - compression effort. NoCompression always emits stored blocks;
// the remaining levels trade match-search depth for speed.
type Level int

const (
	NoCompression      Level = 0
	BestSpeed          Level = 1
	DefaultCompression Level = 6
	BestCompression    Level = 9
)

func (l Level) maxChain() int {
	switch {
	case l <= BestSpeed:
		return 8
	case l < BestCompression:
		return 128
	default:
		return 1024
	}
}

// Compress - encodes data as a complete DEFLATE stream. A fixed-Huffman
// encoding that would not beat stored blocks is discarded in favor of the
// stored form.
func Compress(data []byte, level Level) ([]byte, error) {
	if level < NoCompression || level > BestCompression {
		return nil, fmt.Errorf("invalid compression level %d", level)
	}
	if level == NoCompression {
		return encodeStored(data), nil
	}

	tokens := findMatches(data, level.maxChain())
	fixed, err := encodeFixed(tokens)
	if err != nil {
		return nil, err
	}

	stored := encodeStored(data)
	if len(stored) <= len(fixed) {
		return stored, nil
	}

	return fixed, nil
}

// Decompress - decodes a complete DEFLATE stream back to the original bytes.
func Decompress(data []byte) ([]byte, error) {
	return DecodeStream(bitio.NewReader(data))
}
