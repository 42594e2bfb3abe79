package compression

import (
	"bytes"
	"compress/bzip2"
	"io"

	libzip "github.com/dsnet/compress/bzip2"
)

// Bzip2Compressor - bzip2 via dsnet/compress (writer) and the standard
// library (reader).
type Bzip2Compressor struct{}

func (b *Bzip2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := libzip.NewWriter(&buf, &libzip.WriterConfig{
		Level: libzip.BestCompression,
	})
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (b *Bzip2Compressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
}
