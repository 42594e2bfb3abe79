// Package container implements the zlib (RFC 1950) and gzip (RFC 1952)
// framings around a raw DEFLATE stream.
package container

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/checksum"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

// CMF byte: compression method 8 (deflate), 32 KiB window (CINFO=7).
const zlibCMF = 0x78

// EncodeZlib - wraps data compressed at level into a zlib stream.
func EncodeZlib(data []byte, level deflate.Level) ([]byte, error) {
	body, err := deflate.Compress(data, level)
	if err != nil {
		return nil, err
	}

	// FLEVEL advertises the effort used; FCHECK makes the 16-bit header
	// divisible by 31.
	var flevel uint16
	switch {
	case level <= deflate.BestSpeed:
		flevel = 0
	case level < deflate.BestCompression:
		flevel = 2
	default:
		flevel = 3
	}
	header := uint16(zlibCMF)<<8 | flevel<<6
	if rem := header % 31; rem != 0 {
		header += 31 - rem
	}

	sum := checksum.Adler32Sum(data)

	out := make([]byte, 0, len(body)+6)
	out = append(out, byte(header>>8), byte(header))
	out = append(out, body...)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))

	return out, nil
}

// DecodeZlib - validates the zlib framing around data and returns the
// decompressed payload.
func DecodeZlib(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: zlib header truncated", models.ErrUnexpectedEOS)
	}

	cmf, flg := data[0], data[1]
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return nil, fmt.Errorf("%w: zlib header check failed", models.ErrFormat)
	}
	if cmf&0x0F != 8 {
		return nil, fmt.Errorf("%w: zlib compression method %d", models.ErrFormat, cmf&0x0F)
	}
	if cmf>>4 > 7 {
		return nil, fmt.Errorf("%w: zlib window size bits %d", models.ErrFormat, cmf>>4)
	}
	if flg&0x20 != 0 {
		return nil, fmt.Errorf("%w: zlib preset dictionary", models.ErrUnsupported)
	}

	r := bitio.NewReader(data[2:])
	out, err := deflate.DecodeStream(r)
	if err != nil {
		return nil, err
	}

	trailer, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
	if got := checksum.Adler32Sum(out); got != want {
		return nil, fmt.Errorf("%w: adler32 %#08x, trailer says %#08x", models.ErrChecksumMismatch, got, want)
	}

	return out, nil
}
