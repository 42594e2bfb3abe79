// Package archive implements an in-memory model and codec for the ZIP
// archive format: local file headers, the central directory, the EOCD
// record, DOS timestamps and extra fields. Archives are persistent values;
// members are immutable once built.
package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/neekrasov/ziplib/internal/codec/checksum"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

// Kind - member kind.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// Method - ZIP compression method of a file member.
type Method uint16

const (
	Stored   Method = 0
	Deflated Method = 8
)

// Default modes applied when a header carries no Unix attributes.
const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// Member - one archive entry. Directory members carry no payload.
type Member struct {
	path  string
	kind  Kind
	mode  uint32
	mtime time.Time
	extra []ExtraField
	file  *fileData
}

type fileData struct {
	method           Method
	uncompressedSize uint32
	compressedSize   uint32
	crc32            uint32
	payload          []byte
}

// MemberOption - configures a member during construction.
type MemberOption func(*memberConfig)

type memberConfig struct {
	mode      uint32
	mtime     time.Time
	method    Method
	level     deflate.Level
	extra     []ExtraField
	noTSExtra bool
}

// WithMode - sets the Unix permission bits.
func WithMode(mode uint32) MemberOption {
	return func(c *memberConfig) { c.mode = mode }
}

// WithModTime - sets the modification time.
func WithModTime(t time.Time) MemberOption {
	return func(c *memberConfig) { c.mtime = t }
}

// WithMethod - selects the compression method for a file member.
func WithMethod(m Method) MemberOption {
	return func(c *memberConfig) { c.method = m }
}

// WithLevel - sets the deflate effort for a file member.
func WithLevel(l deflate.Level) MemberOption {
	return func(c *memberConfig) { c.level = l }
}

// WithExtraField - appends an extra-field record.
func WithExtraField(id uint16, payload []byte) MemberOption {
	return func(c *memberConfig) {
		c.extra = append(c.extra, ExtraField{ID: id, Payload: payload})
	}
}

// WithoutTimestampExtra - suppresses the 0x5455 extended-timestamp record
// the builder emits by default.
func WithoutTimestampExtra() MemberOption {
	return func(c *memberConfig) { c.noTSExtra = true }
}

// NewFileMember - builds a file member from uncompressed content. The
// content is compressed up front and its CRC-32 recorded.
func NewFileMember(path string, content []byte, opts ...MemberOption) (Member, error) {
	cfg := memberConfig{
		mode:   defaultFileMode,
		mtime:  time.Now(),
		method: Deflated,
		level:  deflate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validatePath(path); err != nil {
		return Member{}, err
	}
	if strings.HasSuffix(path, "/") {
		return Member{}, fmt.Errorf("%w: file path %q has a trailing slash", models.ErrFormat, path)
	}

	fd := &fileData{
		method:           cfg.method,
		uncompressedSize: uint32(len(content)),
		crc32:            checksum.CRC32Sum(content),
	}
	switch cfg.method {
	case Stored:
		fd.payload = append([]byte(nil), content...)
	case Deflated:
		payload, err := deflate.Compress(content, cfg.level)
		if err != nil {
			return Member{}, err
		}
		fd.payload = payload
	default:
		return Member{}, fmt.Errorf("%w: compression method %d", models.ErrUnsupported, cfg.method)
	}
	fd.compressedSize = uint32(len(fd.payload))

	return Member{
		path:  path,
		kind:  KindFile,
		mode:  cfg.mode,
		mtime: cfg.mtime,
		extra: finishExtras(cfg),
		file:  fd,
	}, nil
}

// NewDirMember - builds a directory member. A trailing slash on path is
// accepted and normalized away; encoding adds it back.
func NewDirMember(path string, opts ...MemberOption) (Member, error) {
	cfg := memberConfig{
		mode:  defaultDirMode,
		mtime: time.Now(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	path = strings.TrimSuffix(path, "/")
	if err := validatePath(path); err != nil {
		return Member{}, err
	}

	return Member{
		path:  path,
		kind:  KindDirectory,
		mode:  cfg.mode,
		mtime: cfg.mtime,
		extra: finishExtras(cfg),
	}, nil
}

func finishExtras(cfg memberConfig) []ExtraField {
	extra := cfg.extra
	if !cfg.noTSExtra {
		extra = append([]ExtraField{NewTimestampExtra(cfg.mtime)}, extra...)
	}
	return extra
}

func validatePath(path string) error {
	switch {
	case path == "":
		return fmt.Errorf("%w: empty member path", models.ErrFormat)
	case len(path) > 0xFFFF:
		return fmt.Errorf("%w: member path longer than 65535 bytes", models.ErrFormat)
	case strings.HasPrefix(path, "/"):
		return fmt.Errorf("%w: member path %q is absolute", models.ErrFormat, path)
	case strings.Contains(path, "\x00"):
		return fmt.Errorf("%w: member path contains NUL", models.ErrFormat)
	}
	return nil
}

// Path - member path. Directory paths carry no trailing slash.
func (m Member) Path() string { return m.path }

// Kind - file or directory.
func (m Member) Kind() Kind { return m.kind }

// Mode - Unix permission bits.
func (m Member) Mode() uint32 { return m.mode }

// ModTime - modification time.
func (m Member) ModTime() time.Time { return m.mtime }

// ExtraFields - copy of the member's extra-field records in order.
func (m Member) ExtraFields() []ExtraField {
	return append([]ExtraField(nil), m.extra...)
}

// Method - compression method, Stored for directories.
func (m Member) Method() Method {
	if m.file == nil {
		return Stored
	}
	return m.file.method
}

// UncompressedSize - size of the original content.
func (m Member) UncompressedSize() uint32 {
	if m.file == nil {
		return 0
	}
	return m.file.uncompressedSize
}

// CompressedSize - size of the stored payload.
func (m Member) CompressedSize() uint32 {
	if m.file == nil {
		return 0
	}
	return m.file.compressedSize
}

// CRC32 - checksum of the uncompressed content.
func (m Member) CRC32() uint32 {
	if m.file == nil {
		return 0
	}
	return m.file.crc32
}

// CompressedPayload - copy of the raw stored payload.
func (m Member) CompressedPayload() []byte {
	if m.file == nil {
		return nil
	}
	return append([]byte(nil), m.file.payload...)
}

// Content - decompresses the payload and verifies it against the recorded
// CRC-32 and size. Directories yield empty content.
func (m Member) Content() ([]byte, error) {
	if m.file == nil {
		return nil, nil
	}

	var (
		content []byte
		err     error
	)
	switch m.file.method {
	case Stored:
		content = append([]byte(nil), m.file.payload...)
	case Deflated:
		content, err = deflate.Decompress(m.file.payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: compression method %d", models.ErrUnsupported, m.file.method)
	}

	if uint32(len(content)) != m.file.uncompressedSize {
		return nil, fmt.Errorf("%w: %q decodes to %d bytes, header says %d",
			models.ErrFormat, m.path, len(content), m.file.uncompressedSize)
	}
	if got := checksum.CRC32Sum(content); got != m.file.crc32 {
		return nil, fmt.Errorf("%w: %q crc32 %#08x, header says %#08x",
			models.ErrChecksumMismatch, m.path, got, m.file.crc32)
	}

	return content, nil
}
