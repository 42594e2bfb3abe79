package checksum

// Largest prime smaller than 65536 (RFC 1950 section 9).
const adlerMod = 65521

// Longest run of updates before the 32-bit sums can overflow.
const adlerMaxRun = 5552

// Adler32 - running Adler-32 accumulator (RFC 1950).
type Adler32 struct {
	s1, s2 uint32
}

// NewAdler32 - initializes an Adler-32 accumulator.
func NewAdler32() *Adler32 {
	return &Adler32{s1: 1}
}

// Update - folds data into both sums.
func (a *Adler32) Update(data []byte) {
	s1, s2 := a.s1, a.s2
	for len(data) > 0 {
		run := data
		if len(run) > adlerMaxRun {
			run = run[:adlerMaxRun]
		}
		for _, b := range run {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= adlerMod
		s2 %= adlerMod
		data = data[len(run):]
	}
	a.s1, a.s2 = s1, s2
}

// Sum - finalizes and returns the checksum.
func (a *Adler32) Sum() uint32 {
	return a.s2<<16 | a.s1
}

// Adler32Sum - one-shot Adler-32 of data.
func Adler32Sum(data []byte) uint32 {
	a := NewAdler32()
	a.Update(data)
	return a.Sum()
}
