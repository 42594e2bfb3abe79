package archive

import (
	"fmt"

	"github.com/neekrasov/ziplib/internal/codec/models"
)

// ZIP record signatures and fixed sizes (PKWARE APPNOTE).
const (
	localHeaderSignature    = 0x04034b50
	centralDirSignature     = 0x02014b50
	eocdSignature           = 0x06054b50
	dataDescriptorSignature = 0x08074b50

	localHeaderLen = 30
	centralDirLen  = 46
	eocdLen        = 22

	// Version 2.0: deflate plus directory entries.
	versionNeeded = 20
	// Upper byte of version-made-by: attributes are Unix.
	creatorUnix = 3

	// General purpose flag bits.
	flagDataDescriptor = 1 << 3
	flagUTF8           = 1 << 11

	// DOS directory attribute, low byte of external attributes.
	dosDirAttr = 0x10
)

type leWriter struct {
	buf []byte
}

func (w *leWriter) u16(v uint16) {
	w.buf = append(w.buf, byte(v), byte(v>>8))
}

func (w *leWriter) u32(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (w *leWriter) raw(p []byte) {
	w.buf = append(w.buf, p...)
}

// Encode - serializes the archive: every member's local header and payload
// in insertion order, then the central directory, then the EOCD record.
func Encode(a Archive) ([]byte, error) {
	if len(a.members) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d members need zip64", models.ErrUnsupported, len(a.members))
	}
	if len(a.comment) > 0xFFFF {
		return nil, fmt.Errorf("%w: archive comment longer than 65535 bytes", models.ErrFormat)
	}

	w := &leWriter{}
	offsets := make([]uint32, len(a.members))

	for i, m := range a.members {
		offsets[i] = uint32(len(w.buf))
		if err := writeLocalHeader(w, m); err != nil {
			return nil, err
		}
		if m.file != nil {
			w.raw(m.file.payload)
		}
	}

	cdStart := uint32(len(w.buf))
	for i, m := range a.members {
		if err := writeCentralHeader(w, m, offsets[i]); err != nil {
			return nil, err
		}
	}
	cdSize := uint32(len(w.buf)) - cdStart

	w.u32(eocdSignature)
	w.u16(0) // this disk
	w.u16(0) // disk with central directory start
	w.u16(uint16(len(a.members)))
	w.u16(uint16(len(a.members)))
	w.u32(cdSize)
	w.u32(cdStart)
	w.u16(uint16(len(a.comment)))
	w.raw([]byte(a.comment))

	return w.buf, nil
}

func wireName(m Member) string {
	if m.kind == KindDirectory {
		return m.path + "/"
	}
	return m.path
}

func headerFlags(m Member) uint16 {
	if !isASCII(m.path) {
		return flagUTF8
	}
	return 0
}

func writeLocalHeader(w *leWriter, m Member) error {
	name := wireName(m)
	extra, err := encodeExtras(m.extra)
	if err != nil {
		return fmt.Errorf("member %q: %w", m.path, err)
	}
	date, tod := timeToDOS(m.mtime)

	w.u32(localHeaderSignature)
	w.u16(versionNeeded)
	w.u16(headerFlags(m))
	w.u16(uint16(m.Method()))
	w.u16(tod)
	w.u16(date)
	w.u32(m.CRC32())
	w.u32(m.CompressedSize())
	w.u32(m.UncompressedSize())
	w.u16(uint16(len(name)))
	w.u16(uint16(len(extra)))
	w.raw([]byte(name))
	w.raw(extra)

	return nil
}

func writeCentralHeader(w *leWriter, m Member, offset uint32) error {
	name := wireName(m)
	extra, err := encodeExtras(m.extra)
	if err != nil {
		return fmt.Errorf("member %q: %w", m.path, err)
	}
	date, tod := timeToDOS(m.mtime)

	external := m.mode << 16
	if m.kind == KindDirectory {
		external |= dosDirAttr
	}

	w.u32(centralDirSignature)
	w.u16(creatorUnix<<8 | versionNeeded)
	w.u16(versionNeeded)
	w.u16(headerFlags(m))
	w.u16(uint16(m.Method()))
	w.u16(tod)
	w.u16(date)
	w.u32(m.CRC32())
	w.u32(m.CompressedSize())
	w.u32(m.UncompressedSize())
	w.u16(uint16(len(name)))
	w.u16(uint16(len(extra)))
	w.u16(0) // comment length
	w.u16(0) // disk number start
	w.u16(0) // internal attributes
	w.u32(external)
	w.u32(offset)
	w.raw([]byte(name))
	w.raw(extra)

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
