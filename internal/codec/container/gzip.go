package container

import (
	"fmt"
	"time"

	"github.com/neekrasov/ziplib/internal/codec/bitio"
	"github.com/neekrasov/ziplib/internal/codec/checksum"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

// Gzip header flag bits (RFC 1952 section 2.3.1).
const (
	gzipFlagText    = 1 << 0
	gzipFlagHCRC    = 1 << 1
	gzipFlagExtra   = 1 << 2
	gzipFlagName    = 1 << 3
	gzipFlagComment = 1 << 4
)

const (
	gzipMagic1 = 0x1F
	gzipMagic2 = 0x8B

	gzipMethodDeflate = 8
	gzipOSUnknown     = 255
)

// GzipHeader - optional gzip member metadata. Name and Comment must be
// Latin-1 per the RFC; they are carried as-is.
type GzipHeader struct {
	Name    string
	Comment string
	ModTime time.Time
}

// EncodeGzip - wraps data compressed at level into a gzip stream. hdr may
// be nil for an anonymous member.
func EncodeGzip(data []byte, level deflate.Level, hdr *GzipHeader) ([]byte, error) {
	body, err := deflate.Compress(data, level)
	if err != nil {
		return nil, err
	}

	var flags byte
	var mtime uint32
	if hdr != nil {
		if hdr.Name != "" {
			flags |= gzipFlagName
		}
		if hdr.Comment != "" {
			flags |= gzipFlagComment
		}
		if !hdr.ModTime.IsZero() {
			mtime = uint32(hdr.ModTime.Unix())
		}
	}

	var xfl byte
	switch level {
	case deflate.BestCompression:
		xfl = 2
	case deflate.BestSpeed:
		xfl = 4
	}

	out := make([]byte, 0, len(body)+18)
	out = append(out, gzipMagic1, gzipMagic2, gzipMethodDeflate, flags,
		byte(mtime), byte(mtime>>8), byte(mtime>>16), byte(mtime>>24),
		xfl, gzipOSUnknown)
	if flags&gzipFlagName != 0 {
		out = append(out, hdr.Name...)
		out = append(out, 0)
	}
	if flags&gzipFlagComment != 0 {
		out = append(out, hdr.Comment...)
		out = append(out, 0)
	}
	out = append(out, body...)

	crc := checksum.CRC32Sum(data)
	size := uint32(len(data))
	out = append(out,
		byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24),
		byte(size), byte(size>>8), byte(size>>16), byte(size>>24))

	return out, nil
}

// DecodeGzip - validates the gzip framing around data and returns the
// decompressed payload along with the parsed header metadata.
func DecodeGzip(data []byte) ([]byte, *GzipHeader, error) {
	r := bitio.NewReader(data)

	fixed, err := r.ReadBytes(10)
	if err != nil {
		return nil, nil, err
	}
	if fixed[0] != gzipMagic1 || fixed[1] != gzipMagic2 {
		return nil, nil, fmt.Errorf("%w: bad gzip magic %#02x %#02x", models.ErrFormat, fixed[0], fixed[1])
	}
	if fixed[2] != gzipMethodDeflate {
		return nil, nil, fmt.Errorf("%w: gzip compression method %d", models.ErrFormat, fixed[2])
	}
	flags := fixed[3]
	if flags&0xE0 != 0 {
		return nil, nil, fmt.Errorf("%w: reserved gzip flag bits %#02x", models.ErrFormat, flags&0xE0)
	}

	hdr := &GzipHeader{}
	if mtime := uint32(fixed[4]) | uint32(fixed[5])<<8 | uint32(fixed[6])<<16 | uint32(fixed[7])<<24; mtime != 0 {
		hdr.ModTime = time.Unix(int64(mtime), 0).UTC()
	}

	if flags&gzipFlagExtra != 0 {
		xlen, err := r.ReadUint16()
		if err != nil {
			return nil, nil, err
		}
		if _, err := r.ReadBytes(int(xlen)); err != nil {
			return nil, nil, err
		}
	}
	if flags&gzipFlagName != 0 {
		if hdr.Name, err = readCString(r); err != nil {
			return nil, nil, err
		}
	}
	if flags&gzipFlagComment != 0 {
		if hdr.Comment, err = readCString(r); err != nil {
			return nil, nil, err
		}
	}
	if flags&gzipFlagHCRC != 0 {
		if _, err := r.ReadBytes(2); err != nil {
			return nil, nil, err
		}
	}

	out, err := deflate.DecodeStream(r)
	if err != nil {
		return nil, nil, err
	}

	trailer, err := r.ReadBytes(8)
	if err != nil {
		return nil, nil, err
	}
	wantCRC := uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16 | uint32(trailer[3])<<24
	wantSize := uint32(trailer[4]) | uint32(trailer[5])<<8 | uint32(trailer[6])<<16 | uint32(trailer[7])<<24

	if got := checksum.CRC32Sum(out); got != wantCRC {
		return nil, nil, fmt.Errorf("%w: crc32 %#08x, trailer says %#08x", models.ErrChecksumMismatch, got, wantCRC)
	}
	if got := uint32(len(out)); got != wantSize {
		return nil, nil, fmt.Errorf("%w: size %d, trailer says %d", models.ErrChecksumMismatch, got, wantSize)
	}

	return out, hdr, nil
}

func readCString(r *bitio.Reader) (string, error) {
	var b []byte
	for {
		p, err := r.ReadBytes(1)
		if err != nil {
			return "", err
		}
		if p[0] == 0 {
			return string(b), nil
		}
		b = append(b, p[0])
	}
}
