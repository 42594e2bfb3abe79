package archive_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neekrasov/ziplib/internal/archive"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/codec/models"
)

func mustFile(t *testing.T, path string, content []byte, opts ...archive.MemberOption) archive.Member {
	t.Helper()
	m, err := archive.NewFileMember(path, content, opts...)
	require.NoError(t, err)
	return m
}

func mustDir(t *testing.T, path string, opts ...archive.MemberOption) archive.Member {
	t.Helper()
	m, err := archive.NewDirMember(path, opts...)
	require.NoError(t, err)
	return m
}

func TestArchive_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	mtime := time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC)
	readme := []byte("project readme\n")
	blob := bytes.Repeat([]byte("payload "), 2000)

	a := archive.New().
		Add(mustDir(t, "docs/", archive.WithModTime(mtime), archive.WithMode(0o750))).
		Add(mustFile(t, "docs/readme.txt", readme, archive.WithModTime(mtime), archive.WithMode(0o640))).
		Add(mustFile(t, "blob.bin", blob, archive.WithModTime(mtime))).
		Add(mustFile(t, "stored.bin", blob, archive.WithModTime(mtime), archive.WithMethod(archive.Stored)))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)

	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, 4, decoded.Len())

	var paths []string
	for _, m := range decoded.Members() {
		paths = append(paths, m.Path())
	}
	assert.Equal(t, []string{"docs", "docs/readme.txt", "blob.bin", "stored.bin"}, paths,
		"decoding must preserve insertion order")

	dir, ok := decoded.Find("docs")
	require.True(t, ok)
	assert.Equal(t, archive.KindDirectory, dir.Kind())
	assert.Equal(t, uint32(0o750), dir.Mode())
	assert.True(t, dir.ModTime().Equal(mtime), "directory mtime: got %v", dir.ModTime())

	file, ok := decoded.Find("docs/readme.txt")
	require.True(t, ok)
	assert.Equal(t, archive.KindFile, file.Kind())
	assert.Equal(t, archive.Deflated, file.Method())
	assert.Equal(t, uint32(0o640), file.Mode())
	assert.True(t, file.ModTime().Equal(mtime), "file mtime: got %v", file.ModTime())

	content, err := file.Content()
	require.NoError(t, err)
	assert.Equal(t, readme, content)

	stored, ok := decoded.Find("stored.bin")
	require.True(t, ok)
	assert.Equal(t, archive.Stored, stored.Method())
	assert.Equal(t, stored.UncompressedSize(), stored.CompressedSize())
	content, err = stored.Content()
	require.NoError(t, err)
	assert.Equal(t, blob, content)
}

func TestArchive_DOSTimeTruncation(t *testing.T) {
	t.Parallel()

	// Without the extended-timestamp record only the two-second DOS time
	// survives encoding.
	mtime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	a := archive.New().Add(mustFile(t, "a.txt", []byte("x"),
		archive.WithModTime(mtime), archive.WithoutTimestampExtra()))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)
	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)

	m, ok := decoded.Find("a.txt")
	require.True(t, ok)
	want := time.Date(2021, 3, 4, 5, 6, 6, 0, time.UTC)
	assert.True(t, m.ModTime().Equal(want), "got %v, want %v", m.ModTime(), want)
}

func TestArchive_Pre1980TimeClamps(t *testing.T) {
	t.Parallel()

	a := archive.New().Add(mustFile(t, "old.txt", []byte("x"),
		archive.WithModTime(time.Unix(0, 0)), archive.WithoutTimestampExtra()))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)
	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)

	m, ok := decoded.Find("old.txt")
	require.True(t, ok)
	want := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, m.ModTime().Equal(want), "DOS time floor is 1980-01-01, got %v", m.ModTime())
}

func TestArchive_AddReplacesInPlace(t *testing.T) {
	t.Parallel()

	a := archive.New().
		Add(mustFile(t, "first.txt", []byte("1"))).
		Add(mustFile(t, "second.txt", []byte("2"))).
		Add(mustFile(t, "first.txt", []byte("replaced")))

	require.Equal(t, 2, a.Len())
	members := a.Members()
	assert.Equal(t, "first.txt", members[0].Path(), "replacement must keep the original slot")
	assert.Equal(t, "second.txt", members[1].Path())

	m, ok := a.Find("first.txt")
	require.True(t, ok)
	content, err := m.Content()
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), content, "last write wins")
}

func TestArchive_ValueSemantics(t *testing.T) {
	t.Parallel()

	base := archive.New().Add(mustFile(t, "keep.txt", []byte("k")))

	added := base.Add(mustFile(t, "extra.txt", []byte("e")))
	removed := base.Remove("keep.txt")
	commented := base.WithComment("hello")

	assert.Equal(t, 1, base.Len(), "Add must not mutate the receiver")
	assert.Equal(t, 2, added.Len())
	assert.Equal(t, 0, removed.Len())
	assert.Empty(t, base.Comment())
	assert.Equal(t, "hello", commented.Comment())

	_, ok := base.Find("keep.txt")
	assert.True(t, ok, "Remove must not mutate the receiver")
}

func TestArchive_RemoveMissingPath(t *testing.T) {
	t.Parallel()

	a := archive.New().Add(mustFile(t, "a.txt", []byte("a")))
	b := a.Remove("not-there")
	assert.Equal(t, 1, b.Len())
}

func TestArchive_CommentRoundTrip(t *testing.T) {
	t.Parallel()

	a := archive.New().
		Add(mustFile(t, "a.txt", []byte("a"))).
		WithComment("built by the nightly job")

	encoded, err := archive.Encode(a)
	require.NoError(t, err)
	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "built by the nightly job", decoded.Comment())
}

func TestArchive_DecodeWithTrailingGarbage(t *testing.T) {
	t.Parallel()

	a := archive.New().Add(mustFile(t, "a.txt", []byte("payload")))
	encoded, err := archive.Encode(a)
	require.NoError(t, err)

	// Self-extracting archives carry bytes after the EOCD record; the
	// backward scan must still locate it.
	padded := append(encoded, []byte("trailing junk the scanner must skip")...)
	decoded, err := archive.Decode(padded)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Len())
}

func TestArchive_DecodeErrors(t *testing.T) {
	t.Parallel()

	t.Run("no eocd", func(t *testing.T) {
		_, err := archive.Decode(bytes.Repeat([]byte{0xAB}, 100))
		assert.True(t, errors.Is(err, models.ErrFormat), "got %v", err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := archive.Decode(nil)
		assert.True(t, errors.Is(err, models.ErrFormat), "got %v", err)
	})

	t.Run("truncated central directory", func(t *testing.T) {
		a := archive.New().Add(mustFile(t, "a.txt", []byte("payload")))
		encoded, err := archive.Encode(a)
		require.NoError(t, err)

		// Keep the EOCD but point it at a central directory that was cut out.
		bad := append([]byte(nil), encoded[:20]...)
		bad = append(bad, encoded[len(encoded)-22:]...)
		_, err = archive.Decode(bad)
		assert.Error(t, err)
	})
}

func TestArchive_CorruptPayloadFailsContentCheck(t *testing.T) {
	t.Parallel()

	content := []byte("bytes that will be damaged in transit")
	a := archive.New().Add(mustFile(t, "a.bin", content, archive.WithMethod(archive.Stored)))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)

	// Stored payloads appear verbatim; flip one bit inside the payload.
	i := bytes.Index(encoded, content)
	require.Positive(t, i)
	encoded[i+4] ^= 0x01

	decoded, err := archive.Decode(encoded)
	require.NoError(t, err, "decoding does not verify payloads")

	m, ok := decoded.Find("a.bin")
	require.True(t, ok)
	_, err = m.Content()
	assert.True(t, errors.Is(err, models.ErrChecksumMismatch), "got %v", err)
}

func TestArchive_UnknownExtraPassThrough(t *testing.T) {
	t.Parallel()

	a := archive.New().Add(mustFile(t, "a.txt", []byte("x"),
		archive.WithExtraField(0xCAFE, []byte{1, 2, 3, 4})))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)
	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)

	m, ok := decoded.Find("a.txt")
	require.True(t, ok)

	var found bool
	for _, f := range m.ExtraFields() {
		if f.ID == 0xCAFE {
			found = true
			assert.Equal(t, []byte{1, 2, 3, 4}, f.Payload)
		}
	}
	assert.True(t, found, "unknown extra fields must survive a round trip")
}

func TestExtraField_Interpreters(t *testing.T) {
	t.Parallel()

	t.Run("timestamp", func(t *testing.T) {
		mtime := time.Date(2022, 8, 9, 10, 11, 12, 0, time.UTC)
		f := archive.NewTimestampExtra(mtime)
		require.Equal(t, archive.ExtraTimestampID, f.ID)

		got, ok := f.ModTime()
		require.True(t, ok)
		assert.True(t, got.Equal(mtime))
	})

	t.Run("timestamp without mtime bit", func(t *testing.T) {
		f := archive.ExtraField{ID: archive.ExtraTimestampID, Payload: []byte{0, 1, 2, 3, 4}}
		_, ok := f.ModTime()
		assert.False(t, ok)
	})

	t.Run("unicode path", func(t *testing.T) {
		payload := append([]byte{1, 0x78, 0x56, 0x34, 0x12}, []byte("п/файл.txt")...)
		f := archive.ExtraField{ID: archive.ExtraUnicodePathID, Payload: payload}

		path, nameCRC, ok := f.UnicodePath()
		require.True(t, ok)
		assert.Equal(t, "п/файл.txt", path)
		assert.Equal(t, uint32(0x12345678), nameCRC)
	})

	t.Run("unicode path wrong version", func(t *testing.T) {
		f := archive.ExtraField{ID: archive.ExtraUnicodePathID, Payload: []byte{2, 0, 0, 0, 0, 'x'}}
		_, _, ok := f.UnicodePath()
		assert.False(t, ok)
	})
}

func TestNewFileMember_PathValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "empty", path: ""},
		{name: "absolute", path: "/etc/passwd"},
		{name: "embedded nul", path: "a\x00b"},
		{name: "trailing slash", path: "dir/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := archive.NewFileMember(tt.path, []byte("x"))
			assert.True(t, errors.Is(err, models.ErrFormat), "path %q: got %v", tt.path, err)
		})
	}
}

func TestNewDirMember_NormalizesTrailingSlash(t *testing.T) {
	t.Parallel()

	withSlash := mustDir(t, "dir/")
	withoutSlash := mustDir(t, "dir")
	assert.Equal(t, "dir", withSlash.Path())
	assert.Equal(t, "dir", withoutSlash.Path())
}

func TestArchive_NonASCIIPathRoundTrip(t *testing.T) {
	t.Parallel()

	a := archive.New().Add(mustFile(t, "докум/отчёт.txt", []byte("данные")))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)
	decoded, err := archive.Decode(encoded)
	require.NoError(t, err)

	m, ok := decoded.Find("докум/отчёт.txt")
	require.True(t, ok)
	content, err := m.Content()
	require.NoError(t, err)
	assert.Equal(t, []byte("данные"), content)
}

func TestArchive_StdlibReadsOurOutput(t *testing.T) {
	t.Parallel()

	mtime := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	readme := []byte("interop check\n")
	blob := bytes.Repeat([]byte("zip zip "), 3000)

	a := archive.New().
		Add(mustDir(t, "sub/", archive.WithModTime(mtime))).
		Add(mustFile(t, "readme.txt", readme, archive.WithModTime(mtime), archive.WithMode(0o640))).
		Add(mustFile(t, "sub/blob.bin", blob, archive.WithModTime(mtime)))

	encoded, err := archive.Encode(a)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(encoded), int64(len(encoded)))
	require.NoError(t, err, "archive/zip must accept our output")
	require.Len(t, zr.File, 3)

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	require.Contains(t, byName, "sub/")
	assert.True(t, byName["sub/"].FileInfo().IsDir())

	require.Contains(t, byName, "readme.txt")
	rc, err := byName["readme.txt"].Open()
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err, "archive/zip verifies the CRC while reading")
	require.NoError(t, rc.Close())
	assert.Equal(t, readme, got)
	assert.Equal(t, uint32(0o640), uint32(byName["readme.txt"].Mode().Perm()))

	rc, err = byName["sub/blob.bin"].Open()
	require.NoError(t, err)
	got, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, blob, got)
}

func TestArchive_DecodesStdlibOutput(t *testing.T) {
	t.Parallel()

	// archive/zip streams its output, so every member carries a data
	// descriptor; Store keeps the payload format within what we decode.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mtime := time.Date(2023, 11, 12, 13, 14, 14, 0, time.UTC)
	hdr := &zip.FileHeader{Name: "from-stdlib.txt", Method: zip.Store, Modified: mtime}
	hdr.SetMode(0o600)
	w, err := zw.CreateHeader(hdr)
	require.NoError(t, err)
	_, err = w.Write([]byte("written by archive/zip"))
	require.NoError(t, err)

	dirHdr := &zip.FileHeader{Name: "nested/", Method: zip.Store, Modified: mtime}
	dirHdr.SetMode(fs.ModeDir | 0o755)
	_, err = zw.CreateHeader(dirHdr)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	decoded, err := archive.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())

	m, ok := decoded.Find("from-stdlib.txt")
	require.True(t, ok)
	assert.Equal(t, archive.KindFile, m.Kind())
	assert.Equal(t, uint32(0o600), m.Mode())
	assert.True(t, m.ModTime().Equal(mtime), "stdlib writes an extended timestamp, got %v", m.ModTime())

	content, err := m.Content()
	require.NoError(t, err)
	assert.Equal(t, []byte("written by archive/zip"), content)

	d, ok := decoded.Find("nested")
	require.True(t, ok)
	assert.Equal(t, archive.KindDirectory, d.Kind())
}

func TestArchive_RoundTripAtAllLevels(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte("level test content. "), 500)
	for _, level := range []deflate.Level{deflate.NoCompression, deflate.BestSpeed, deflate.BestCompression} {
		a := archive.New().Add(mustFile(t, "f.bin", content, archive.WithLevel(level)))

		encoded, err := archive.Encode(a)
		require.NoError(t, err)
		decoded, err := archive.Decode(encoded)
		require.NoError(t, err)

		m, ok := decoded.Find("f.bin")
		require.True(t, ok)
		got, err := m.Content()
		require.NoError(t, err, "level %d", level)
		assert.Equal(t, content, got, "level %d", level)
	}
}
