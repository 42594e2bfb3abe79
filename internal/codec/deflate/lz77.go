package deflate

import "github.com/neekrasov/ziplib/internal/codec/huffman"

const (
	hashBits = 15
	hashSize = 1 << hashBits
)

// token - one literal byte (length == 0) or a back-reference.
type token struct {
	lit    byte
	length int
	dist   int
}

func hash3(data []byte, i int) uint32 {
	v := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16
	return (v * 0x9E3779B1) >> (32 - hashBits)
}

// findMatches - greedy LZ77 pass over data. Candidate positions are walked
// most-recent first, so the nearest match wins length ties. maxChain bounds
// how many candidates are examined per position.
func findMatches(data []byte, maxChain int) []token {
	var tokens []token
	if len(data) == 0 {
		return tokens
	}

	head := make([]int32, hashSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int32, len(data))

	insert := func(pos int) {
		if pos+huffman.MinMatchLen > len(data) {
			return
		}
		h := hash3(data, pos)
		prev[pos] = head[h]
		head[h] = int32(pos)
	}

	i := 0
	for i < len(data) {
		bestLen, bestDist := 0, 0
		if i+huffman.MinMatchLen <= len(data) {
			limit := len(data) - i
			if limit > huffman.MaxMatchLen {
				limit = huffman.MaxMatchLen
			}

			cand := head[hash3(data, i)]
			for chain := 0; cand >= 0 && chain < maxChain; chain++ {
				dist := i - int(cand)
				if dist > huffman.MaxMatchDist {
					break
				}

				n := matchLen(data, int(cand), i, limit)
				if n > bestLen {
					bestLen, bestDist = n, dist
					if n == limit {
						break
					}
				}
				cand = prev[cand]
			}
		}

		if bestLen >= huffman.MinMatchLen {
			tokens = append(tokens, token{length: bestLen, dist: bestDist})
			for k := 0; k < bestLen; k++ {
				insert(i + k)
			}
			i += bestLen
			continue
		}

		tokens = append(tokens, token{lit: data[i]})
		insert(i)
		i++
	}

	return tokens
}

func matchLen(data []byte, src, dst, limit int) int {
	n := 0
	for n < limit && data[src+n] == data[dst+n] {
		n++
	}
	return n
}
