package bitio_test

import (
	"errors"
	"testing"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	w.WriteBits(0b101, 3)
	w.WriteBits(0b11111111111, 11)
	w.WriteBits(0, 2)
	w.WriteBits(0x12345, 20)

	r := bitio.NewReader(w.Bytes())

	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b101), v)

	v, err = r.ReadBits(11)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b11111111111), v)

	v, err = r.ReadBits(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)

	v, err = r.ReadBits(20)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345), v)
}

func TestWriter_LSBFirstPacking(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	w.WriteBits(1, 1) // bit 0
	w.WriteBits(0, 1) // bit 1
	w.WriteBits(1, 1) // bit 2
	out := w.Bytes()

	require.Len(t, out, 1)
	assert.Equal(t, byte(0b101), out[0], "first written bit must land in the least significant position")
}

func TestWriter_AlignToByte(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	w.WriteBits(1, 1)
	w.AlignToByte()
	w.WriteBits(0xFF, 8)

	out := w.Bytes()
	require.Len(t, out, 2)
	assert.Equal(t, byte(0x01), out[0], "padding must be zero bits")
	assert.Equal(t, byte(0xFF), out[1])
}

func TestReader_PeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0xA5})

	v, err := r.PeekBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x5), v)
	assert.Equal(t, 8, r.BitsRemaining())

	v, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xA5), v)
	assert.Equal(t, 0, r.BitsRemaining())
}

func TestReader_PastEnd(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0xFF})
	_, err := r.ReadBits(7)
	require.NoError(t, err)

	_, err = r.ReadBits(2)
	assert.True(t, errors.Is(err, models.ErrUnexpectedEOS), "overread must report unexpected end of stream")
}

func TestReader_ByteAlignedHelpers(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	w.WriteBits(0b11, 2)
	w.WriteUint16(0xBEEF)
	w.WriteBytes([]byte{1, 2, 3})

	r := bitio.NewReader(w.Bytes())
	_, err := r.ReadBits(2)
	require.NoError(t, err)

	v, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v, "ReadUint16 must skip to the byte boundary first")

	p, err := r.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, p)

	_, err = r.ReadBytes(1)
	assert.True(t, errors.Is(err, models.ErrUnexpectedEOS))
}
