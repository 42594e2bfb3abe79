package checksum

import "sync"

// Reflected polynomial from RFC 1952 section 8.
const crcPoly = 0xEDB88320

var (
	crcTableOnce sync.Once
	crcTable     [256]uint32
)

func initCRCTable() {
	for i := range crcTable {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		crcTable[i] = c
	}
}

// CRC32 - running CRC-32 accumulator (RFC 1952).
type CRC32 struct {
	state uint32
}

// NewCRC32 - initializes a CRC-32 accumulator.
func NewCRC32() *CRC32 {
	crcTableOnce.Do(initCRCTable)
	return &CRC32{state: 0xFFFFFFFF}
}

// Update - folds data into the accumulator.
func (c *CRC32) Update(data []byte) {
	s := c.state
	for _, b := range data {
		s = crcTable[byte(s)^b] ^ (s >> 8)
	}
	c.state = s
}

// Sum - finalizes and returns the checksum. The accumulator may keep
// receiving updates afterwards; Sum does not reset state.
func (c *CRC32) Sum() uint32 {
	return ^c.state
}

// CRC32Sum - one-shot CRC-32 of data.
func CRC32Sum(data []byte) uint32 {
	c := NewCRC32()
	c.Update(data)
	return c.Sum()
}
