package compression

import (
	"github.com/neekrasov/ziplib/internal/codec/container"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
)

// DeflateCompressor - raw DEFLATE streams (RFC 1951).
type DeflateCompressor struct{}

func (d *DeflateCompressor) Compress(data []byte) ([]byte, error) {
	return deflate.Compress(data, deflate.DefaultCompression)
}

func (d *DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	return deflate.Decompress(data)
}

// ZlibCompressor - zlib-wrapped DEFLATE streams (RFC 1950).
type ZlibCompressor struct{}

func (z *ZlibCompressor) Compress(data []byte) ([]byte, error) {
	return container.EncodeZlib(data, deflate.DefaultCompression)
}

func (z *ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	return container.DecodeZlib(data)
}

// GzipCompressor - gzip-wrapped DEFLATE streams (RFC 1952).
type GzipCompressor struct{}

func (g *GzipCompressor) Compress(data []byte) ([]byte, error) {
	return container.EncodeGzip(data, deflate.DefaultCompression, nil)
}

func (g *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	out, _, err := container.DecodeGzip(data)
	return out, err
}
