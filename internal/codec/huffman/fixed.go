package huffman

import "sync"

var (
	fixedOnce    sync.Once
	fixedLiteral *Tree
	fixedDist    *Tree
)

func initFixed() {
	// RFC 1951 section 3.2.6: 288 literal/length symbols.
	litLengths := make([]uint8, 288)
	for sym := range litLengths {
		switch {
		case sym <= 143:
			litLengths[sym] = 8
		case sym <= 255:
			litLengths[sym] = 9
		case sym <= 279:
			litLengths[sym] = 7
		default:
			litLengths[sym] = 8
		}
	}

	distLengths := make([]uint8, 32)
	for sym := range distLengths {
		distLengths[sym] = 5
	}

	var err error
	if fixedLiteral, err = NewTree(litLengths); err != nil {
		panic("huffman: fixed literal tree: " + err.Error())
	}
	if fixedDist, err = NewTree(distLengths); err != nil {
		panic("huffman: fixed distance tree: " + err.Error())
	}
}

// FixedLiteralTree - the fixed literal/length tree, built once.
func FixedLiteralTree() *Tree {
	fixedOnce.Do(initFixed)
	return fixedLiteral
}

// FixedDistanceTree - the fixed distance tree, built once.
func FixedDistanceTree() *Tree {
	fixedOnce.Do(initFixed)
	return fixedDist
}
