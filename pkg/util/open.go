package util

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compressed lists the suffixes Open decompresses on the fly.
var Compressed = []string{".gz", ".zst"}

// TrimCompressed removes a compression suffix from name, if any.
func TrimCompressed(name string) string {
	for _, ext := range Compressed {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// zstdReader adapts the zstd decoder, whose Close returns nothing, to
// io.ReadCloser.
type zstdReader struct {
	*zstd.Decoder
}

func (z zstdReader) Close() error {
	z.Decoder.Close()
	return nil
}

type fileReader struct {
	io.ReadCloser
	f *os.File
}

func (r fileReader) Close() error {
	r.ReadCloser.Close()
	return r.f.Close()
}

// Open opens the file located at path. Files ending with .gz or .zst are
// decompressed while being read. The returned reader must be closed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	switch {
	case strings.HasSuffix(path, ".gz"):
		rc, err = gzip.NewReader(f)
	case strings.HasSuffix(path, ".zst"):
		var d *zstd.Decoder
		d, err = zstd.NewReader(f)
		if err == nil {
			rc = zstdReader{d}
		}
	default:
		return f, nil
	}

	if err != nil {
		f.Close()
		return nil, err
	}

	return fileReader{rc, f}, nil
}
