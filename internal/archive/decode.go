package archive

import (
	"fmt"
	"strings"

	"github.com/neekrasov/ziplib/internal/codec/models"
)

// Largest trailing comment the EOCD scan accounts for.
const maxCommentLen = 0xFFFF

type leReader struct {
	data []byte
	pos  int
}

func (r *leReader) u16() (uint16, error) {
	p, err := r.raw(2)
	if err != nil {
		return 0, err
	}
	return uint16(p[0]) | uint16(p[1])<<8, nil
}

func (r *leReader) u32() (uint32, error) {
	p, err := r.raw(4)
	if err != nil {
		return 0, err
	}
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24, nil
}

func (r *leReader) raw(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", models.ErrUnexpectedEOS, n, r.pos)
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

// Decode - parses a ZIP archive: locates the EOCD record scanning backward
// past any trailing comment, walks the central directory and materializes
// each member from its local header and payload.
func Decode(data []byte) (Archive, error) {
	eocd, err := findEOCD(data)
	if err != nil {
		return Archive{}, err
	}

	r := &leReader{data: data, pos: eocd + 4}
	diskNum, _ := r.u16()
	cdDisk, _ := r.u16()
	entriesThisDisk, _ := r.u16()
	entries, _ := r.u16()
	if _, err := r.u32(); err != nil { // central directory size
		return Archive{}, err
	}
	cdOffset, err := r.u32()
	if err != nil {
		return Archive{}, err
	}
	commentLen, _ := r.u16()

	if diskNum != 0 || cdDisk != 0 || entriesThisDisk != entries {
		return Archive{}, fmt.Errorf("%w: multi-disk archive", models.ErrUnsupported)
	}

	var comment string
	if p, err := r.raw(int(commentLen)); err == nil {
		comment = string(p)
	}

	a := New().WithComment(comment)
	cd := &leReader{data: data, pos: int(cdOffset)}
	for i := 0; i < int(entries); i++ {
		m, err := decodeEntry(cd, data)
		if err != nil {
			return Archive{}, fmt.Errorf("central directory entry %d: %w", i, err)
		}
		a = a.Add(m)
	}

	return a, nil
}

func findEOCD(data []byte) (int, error) {
	lowest := len(data) - eocdLen - maxCommentLen
	if lowest < 0 {
		lowest = 0
	}

	for i := len(data) - eocdLen; i >= lowest; i-- {
		if data[i] != 0x50 || data[i+1] != 0x4b || data[i+2] != 0x05 || data[i+3] != 0x06 {
			continue
		}
		commentLen := int(data[i+20]) | int(data[i+21])<<8
		if i+eocdLen+commentLen <= len(data) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: end of central directory record not found", models.ErrFormat)
}

func decodeEntry(cd *leReader, data []byte) (Member, error) {
	sig, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	if sig != centralDirSignature {
		return Member{}, fmt.Errorf("%w: bad central directory signature %#08x", models.ErrFormat, sig)
	}

	if _, err := cd.raw(4); err != nil { // version made by, version needed
		return Member{}, err
	}
	flags, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	method, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	tod, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	date, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	crc, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	compSize, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	uncompSize, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	nameLen, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	extraLen, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	commentLen, err := cd.u16()
	if err != nil {
		return Member{}, err
	}
	if _, err := cd.raw(4); err != nil { // disk number start, internal attributes
		return Member{}, err
	}
	external, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	localOffset, err := cd.u32()
	if err != nil {
		return Member{}, err
	}
	nameBytes, err := cd.raw(int(nameLen))
	if err != nil {
		return Member{}, err
	}
	extraBytes, err := cd.raw(int(extraLen))
	if err != nil {
		return Member{}, err
	}
	if _, err := cd.raw(int(commentLen)); err != nil {
		return Member{}, err
	}

	if method != uint16(Stored) && method != uint16(Deflated) {
		return Member{}, fmt.Errorf("%w: compression method %d", models.ErrUnsupported, method)
	}
	if flags&1 != 0 {
		return Member{}, fmt.Errorf("%w: encrypted member", models.ErrUnsupported)
	}

	payload, crc, compSize, uncompSize, err := readLocal(data, localOffset, flags, crc, compSize, uncompSize)
	if err != nil {
		return Member{}, err
	}

	extras, err := parseExtras(extraBytes)
	if err != nil {
		return Member{}, err
	}

	name := string(nameBytes)
	isDir := strings.HasSuffix(name, "/") || external&dosDirAttr != 0

	mtime := timeFromDOS(date, tod)
	for _, f := range extras {
		if t, ok := f.ModTime(); ok {
			mtime = t
			break
		}
	}

	mode := external >> 16 & 0o7777
	if mode == 0 {
		if isDir {
			mode = defaultDirMode
		} else {
			mode = defaultFileMode
		}
	}

	m := Member{
		path:  strings.TrimSuffix(name, "/"),
		kind:  KindFile,
		mode:  mode,
		mtime: mtime,
		extra: extras,
	}
	if err := validatePath(m.path); err != nil {
		return Member{}, err
	}

	if isDir {
		m.kind = KindDirectory
		return m, nil
	}

	m.file = &fileData{
		method:           Method(method),
		uncompressedSize: uncompSize,
		compressedSize:   compSize,
		crc32:            crc,
		payload:          append([]byte(nil), payload...),
	}
	return m, nil
}

// readLocal - validates the local header at offset and extracts the member
// payload. With the data-descriptor flag set, the central directory sizes
// locate the payload and the trailing descriptor supplies CRC and sizes.
func readLocal(data []byte, offset uint32, flags uint16, crc, compSize, uncompSize uint32) ([]byte, uint32, uint32, uint32, error) {
	r := &leReader{data: data, pos: int(offset)}

	sig, err := r.u32()
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if sig != localHeaderSignature {
		return nil, 0, 0, 0, fmt.Errorf("%w: bad local header signature %#08x at offset %d",
			models.ErrFormat, sig, offset)
	}

	// Version, flags, method, time, date, CRC and sizes: the central
	// directory is authoritative, so these 22 bytes are only skipped.
	if _, err := r.raw(22); err != nil {
		return nil, 0, 0, 0, err
	}
	nameLen, err := r.u16()
	if err != nil {
		return nil, 0, 0, 0, err
	}
	extraLen, err := r.u16()
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if _, err := r.raw(int(nameLen) + int(extraLen)); err != nil {
		return nil, 0, 0, 0, err
	}

	payload, err := r.raw(int(compSize))
	if err != nil {
		return nil, 0, 0, 0, err
	}

	if flags&flagDataDescriptor != 0 {
		first, err := r.u32()
		if err != nil {
			return nil, 0, 0, 0, err
		}
		// The descriptor signature is optional in the wild.
		dcrc := first
		if first == dataDescriptorSignature {
			if dcrc, err = r.u32(); err != nil {
				return nil, 0, 0, 0, err
			}
		}
		dcomp, err := r.u32()
		if err != nil {
			return nil, 0, 0, 0, err
		}
		duncomp, err := r.u32()
		if err != nil {
			return nil, 0, 0, 0, err
		}
		return payload, dcrc, dcomp, duncomp, nil
	}

	return payload, crc, compSize, uncompSize, nil
}
