package archive

import (
	"fmt"
	"time"

	"github.com/neekrasov/ziplib/internal/codec/models"
)

// Extra-field ids this package additionally interprets. Unknown ids are
// preserved byte-for-byte.
const (
	// ExtraTimestampID - extended timestamp (Info-ZIP "UT").
	ExtraTimestampID uint16 = 0x5455
	// ExtraUnicodePathID - Info-ZIP Unicode path ("up").
	ExtraUnicodePathID uint16 = 0x7075
)

// ExtraField - one (id, payload) record attached to a ZIP header.
type ExtraField struct {
	ID      uint16
	Payload []byte
}

// NewTimestampExtra - builds a 0x5455 record carrying the modification time
// with one-second precision.
func NewTimestampExtra(t time.Time) ExtraField {
	ts := uint32(t.Unix())
	return ExtraField{
		ID: ExtraTimestampID,
		// Flags byte: bit 0 = mtime present.
		Payload: []byte{1, byte(ts), byte(ts >> 8), byte(ts >> 16), byte(ts >> 24)},
	}
}

// ModTime - interprets a 0x5455 record. Reports false for other ids or
// records without an mtime.
func (f ExtraField) ModTime() (time.Time, bool) {
	if f.ID != ExtraTimestampID || len(f.Payload) < 5 || f.Payload[0]&1 == 0 {
		return time.Time{}, false
	}
	ts := uint32(f.Payload[1]) | uint32(f.Payload[2])<<8 | uint32(f.Payload[3])<<16 | uint32(f.Payload[4])<<24
	return time.Unix(int64(ts), 0).UTC(), true
}

// UnicodePath - interprets a 0x7075 record, returning the UTF-8 path and
// the CRC-32 of the original header path it applies to.
func (f ExtraField) UnicodePath() (path string, nameCRC uint32, ok bool) {
	// Version byte (must be 1), 4-byte CRC-32, UTF-8 name.
	if f.ID != ExtraUnicodePathID || len(f.Payload) < 5 || f.Payload[0] != 1 {
		return "", 0, false
	}
	nameCRC = uint32(f.Payload[1]) | uint32(f.Payload[2])<<8 | uint32(f.Payload[3])<<16 | uint32(f.Payload[4])<<24
	return string(f.Payload[5:]), nameCRC, true
}

func encodeExtras(extras []ExtraField) ([]byte, error) {
	var out []byte
	for _, f := range extras {
		if len(f.Payload) > 0xFFFF {
			return nil, fmt.Errorf("%w: extra field %#04x payload of %d bytes", models.ErrFormat, f.ID, len(f.Payload))
		}
		out = append(out, byte(f.ID), byte(f.ID>>8),
			byte(len(f.Payload)), byte(len(f.Payload)>>8))
		out = append(out, f.Payload...)
	}
	if len(out) > 0xFFFF {
		return nil, fmt.Errorf("%w: extra fields exceed 65535 bytes", models.ErrFormat)
	}
	return out, nil
}

func parseExtras(data []byte) ([]ExtraField, error) {
	var extras []ExtraField
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: truncated extra field header", models.ErrFormat)
		}
		id := uint16(data[0]) | uint16(data[1])<<8
		size := int(data[2]) | int(data[3])<<8
		if len(data) < 4+size {
			return nil, fmt.Errorf("%w: extra field %#04x claims %d bytes, %d left",
				models.ErrFormat, id, size, len(data)-4)
		}
		extras = append(extras, ExtraField{
			ID:      id,
			Payload: append([]byte(nil), data[4:4+size]...),
		})
		data = data[4+size:]
	}
	return extras, nil
}
