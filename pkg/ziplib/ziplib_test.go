package ziplib_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/neekrasov/ziplib/pkg/ziplib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_DeflateRoundTrip(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("public api round trip "), 100)
	compressed, err := ziplib.Compress(data, ziplib.DefaultCompression)
	require.NoError(t, err)

	decompressed, err := ziplib.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestFacade_ContainerRoundTrips(t *testing.T) {
	t.Parallel()

	data := []byte("wrapped payload")

	z, err := ziplib.CompressZlib(data, ziplib.BestSpeed)
	require.NoError(t, err)
	out, err := ziplib.DecompressZlib(z)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	g, err := ziplib.CompressGzip(data, ziplib.BestSpeed, &ziplib.GzipHeader{Name: "p.bin"})
	require.NoError(t, err)
	out, hdr, err := ziplib.DecompressGzip(g)
	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, "p.bin", hdr.Name)
}

func TestFacade_ArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := ziplib.NewFileMember("hello.txt", []byte("hello"))
	require.NoError(t, err)
	d, err := ziplib.NewDirMember("sub/")
	require.NoError(t, err)

	a := ziplib.NewArchive().Add(d).Add(m)
	encoded, err := ziplib.ArchiveToBytes(a)
	require.NoError(t, err)

	decoded, err := ziplib.ArchiveFromBytes(encoded)
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())

	got, ok := decoded.Find("hello.txt")
	require.True(t, ok)
	content, err := got.Content()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
}

func TestFacade_ErrorKinds(t *testing.T) {
	t.Parallel()

	_, err := ziplib.Decompress(nil)
	assert.True(t, errors.Is(err, ziplib.ErrUnexpectedEOS))

	_, err = ziplib.ArchiveFromBytes([]byte("not a zip"))
	assert.True(t, errors.Is(err, ziplib.ErrFormat))
}

func TestFacade_Checksums(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0xCBF43926), ziplib.CRC32([]byte("123456789")))
	assert.Equal(t, uint32(0x11E60398), ziplib.Adler32([]byte("Wikipedia")))
}
