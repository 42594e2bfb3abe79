package huffman

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/models"
)

const (
	// EndOfBlock - literal/length symbol terminating every compressed block.
	EndOfBlock = 256

	// MinMatchLen and MaxMatchLen bound a back-reference length.
	MinMatchLen = 3
	MaxMatchLen = 258

	// MaxMatchDist - farthest distance a back-reference may cover.
	MaxMatchDist = 32768
)

// ExtraCode - base value plus extra-bit count for one length or distance
// symbol (RFC 1951 section 3.2.5).
type ExtraCode struct {
	Base  uint16
	Extra uint8
}

// LengthCodes - symbols 257..285 indexed by sym-257.
var LengthCodes = [29]ExtraCode{
	{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0}, {10, 0},
	{11, 1}, {13, 1}, {15, 1}, {17, 1},
	{19, 2}, {23, 2}, {27, 2}, {31, 2},
	{35, 3}, {43, 3}, {51, 3}, {59, 3},
	{67, 4}, {83, 4}, {99, 4}, {115, 4},
	{131, 5}, {163, 5}, {195, 5}, {227, 5},
	{258, 0},
}

// DistanceCodes - symbols 0..29.
var DistanceCodes = [30]ExtraCode{
	{1, 0}, {2, 0}, {3, 0}, {4, 0},
	{5, 1}, {7, 1},
	{9, 2}, {13, 2},
	{17, 3}, {25, 3},
	{33, 4}, {49, 4},
	{65, 5}, {97, 5},
	{129, 6}, {193, 6},
	{257, 7}, {385, 7},
	{513, 8}, {769, 8},
	{1025, 9}, {1537, 9},
	{2049, 10}, {3073, 10},
	{4097, 11}, {6145, 11},
	{8193, 12}, {12289, 12},
	{16385, 13}, {24577, 13},
}

// LengthToCode - maps a match length in [3,258] to its symbol and extra-bit
// offset. Length 258 maps to symbol 285, not 284 with a full offset.
func LengthToCode(length int) (sym int, offset uint32, extra uint8, err error) {
	if length < MinMatchLen || length > MaxMatchLen {
		return 0, 0, 0, fmt.Errorf("%w: match length %d out of range", models.ErrInvalidCode, length)
	}
	for i := len(LengthCodes) - 1; i >= 0; i-- {
		if length >= int(LengthCodes[i].Base) {
			return 257 + i, uint32(length - int(LengthCodes[i].Base)), LengthCodes[i].Extra, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("%w: match length %d unmapped", models.ErrInvalidCode, length)
}

// DistanceToCode - maps a match distance in [1,32768] to its symbol and
// extra-bit offset.
func DistanceToCode(dist int) (sym int, offset uint32, extra uint8, err error) {
	if dist < 1 || dist > MaxMatchDist {
		return 0, 0, 0, fmt.Errorf("%w: match distance %d out of range", models.ErrInvalidDistance, dist)
	}
	for i := len(DistanceCodes) - 1; i >= 0; i-- {
		if dist >= int(DistanceCodes[i].Base) {
			return i, uint32(dist - int(DistanceCodes[i].Base)), DistanceCodes[i].Extra, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("%w: match distance %d unmapped", models.ErrInvalidDistance, dist)
}
