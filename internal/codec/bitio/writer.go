// Package bitio implements the LSB-first bit stream layout used by DEFLATE
// (RFC 1951 section 3.1.1): bits are packed starting from the least
// significant bit of each byte.
package bitio

// Writer - accumulates bits LSB-first into a byte buffer.
type Writer struct {
	buf   []byte
	cur   uint64
	nbits uint
}

// NewWriter - initializes an empty bit writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits - appends the n low bits of v, least significant bit first.
func (w *Writer) WriteBits(v uint32, n uint) {
	w.cur |= (uint64(v) & (1<<n - 1)) << w.nbits
	w.nbits += n
	for w.nbits >= 8 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur >>= 8
		w.nbits -= 8
	}
}

// AlignToByte - zero-pads up to the next byte boundary.
func (w *Writer) AlignToByte() {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur = 0
		w.nbits = 0
	}
}

// WriteBytes - appends raw bytes. The writer must be byte-aligned.
func (w *Writer) WriteBytes(p []byte) {
	w.AlignToByte()
	w.buf = append(w.buf, p...)
}

// WriteUint16 - appends a 16-bit little-endian value. The writer must be
// byte-aligned.
func (w *Writer) WriteUint16(v uint16) {
	w.AlignToByte()
	w.buf = append(w.buf, byte(v), byte(v>>8))
}

// Bytes - flushes any partial byte and returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	w.AlignToByte()
	return w.buf
}

// BitLen - number of bits written so far.
func (w *Writer) BitLen() int {
	return len(w.buf)*8 + int(w.nbits)
}
