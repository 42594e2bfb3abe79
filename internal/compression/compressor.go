// Package compression exposes the algorithms the CLI can apply to whole
// byte buffers behind one interface. The flate family (deflate, zlib, gzip)
// is backed by this repo's codec; bzip2 and zstd ride on external libraries.
package compression

import "errors"

// Compressor - interface for data compression and decompression.
type Compressor interface {
	// Compress - compresses input data ([]byte).
	Compress(data []byte) ([]byte, error)
	// Decompress - decompresses previously compressed data ([]byte).
	Decompress(data []byte) ([]byte, error)
}

// Type - type of compression.
type Type string

const (
	Deflate Type = "deflate"
	Zlib    Type = "zlib"
	Gzip    Type = "gzip"
	Bzip2   Type = "bzip2"
	Zstd    Type = "zstd"
)

// New - creates a compressor for the given type.
func New(t Type) (Compressor, error) {
	switch t {
	case Deflate:
		return new(DeflateCompressor), nil
	case Zlib:
		return new(ZlibCompressor), nil
	case Gzip:
		return new(GzipCompressor), nil
	case Bzip2:
		return new(Bzip2Compressor), nil
	case Zstd:
		return new(ZstdCompressor), nil
	}

	return nil, errors.New("unsupported compression type")
}
