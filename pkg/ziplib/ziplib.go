// Package ziplib is the public surface of the codec library: whole-buffer
// DEFLATE compression, the zlib and gzip containers, the ZIP archive model,
// and the CRC-32/Adler-32 checksums.
package ziplib

import (
	"github.com/neekrasov/ziplib/internal/archive"
	"github.com/neekrasov/ziplib/internal/codec/checksum"
	"github.com/neekrasov/ziplib/internal/codec/container"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

type (
	// Level - deflate compression effort.
	Level = deflate.Level
	// Archive - persistent ZIP archive value.
	Archive = archive.Archive
	// Member - immutable archive entry.
	Member = archive.Member
	// MemberOption - member builder option.
	MemberOption = archive.MemberOption
	// ExtraField - ZIP extra-field record.
	ExtraField = archive.ExtraField
	// GzipHeader - optional gzip member metadata.
	GzipHeader = container.GzipHeader
)

const (
	NoCompression      = deflate.NoCompression
	BestSpeed          = deflate.BestSpeed
	DefaultCompression = deflate.DefaultCompression
	BestCompression    = deflate.BestCompression
)

// Error kinds every fallible operation wraps; match with errors.Is.
var (
	ErrFormat           = models.ErrFormat
	ErrChecksumMismatch = models.ErrChecksumMismatch
	ErrInvalidCode      = models.ErrInvalidCode
	ErrInvalidDistance  = models.ErrInvalidDistance
	ErrUnexpectedEOS    = models.ErrUnexpectedEOS
	ErrUnsupported      = models.ErrUnsupported
)

// Compress - encodes data as a raw DEFLATE stream.
func Compress(data []byte, level Level) ([]byte, error) {
	return deflate.Compress(data, level)
}

// Decompress - decodes a raw DEFLATE stream.
func Decompress(data []byte) ([]byte, error) {
	return deflate.Decompress(data)
}

// CompressZlib - encodes data as a zlib stream (RFC 1950).
func CompressZlib(data []byte, level Level) ([]byte, error) {
	return container.EncodeZlib(data, level)
}

// DecompressZlib - decodes a zlib stream, validating header and trailer.
func DecompressZlib(data []byte) ([]byte, error) {
	return container.DecodeZlib(data)
}

// CompressGzip - encodes data as a gzip stream (RFC 1952). hdr may be nil.
func CompressGzip(data []byte, level Level, hdr *GzipHeader) ([]byte, error) {
	return container.EncodeGzip(data, level, hdr)
}

// DecompressGzip - decodes a gzip stream, validating magic and trailer.
func DecompressGzip(data []byte) ([]byte, *GzipHeader, error) {
	return container.DecodeGzip(data)
}

// NewArchive - creates an empty archive.
func NewArchive() Archive {
	return archive.New()
}

// NewFileMember - builds a file member from uncompressed content.
func NewFileMember(path string, content []byte, opts ...MemberOption) (Member, error) {
	return archive.NewFileMember(path, content, opts...)
}

// NewDirMember - builds a directory member.
func NewDirMember(path string, opts ...MemberOption) (Member, error) {
	return archive.NewDirMember(path, opts...)
}

// ArchiveToBytes - serializes an archive to the ZIP wire format.
func ArchiveToBytes(a Archive) ([]byte, error) {
	return archive.Encode(a)
}

// ArchiveFromBytes - parses a ZIP archive.
func ArchiveFromBytes(data []byte) (Archive, error) {
	return archive.Decode(data)
}

// CRC32 - one-shot CRC-32 checksum (RFC 1952).
func CRC32(data []byte) uint32 {
	return checksum.CRC32Sum(data)
}

// Adler32 - one-shot Adler-32 checksum (RFC 1950).
func Adler32(data []byte) uint32 {
	return checksum.Adler32Sum(data)
}
