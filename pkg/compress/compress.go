// Package compress provides transparent decompression for the file
// sources. Sources never care how a file was compressed; they ask for a
// reader over the raw stream and get plain bytes back.
//
// Supported algorithms: gzip, zstd, s2 and lz4, detected from the file
// extension. Anything else reads as-is.
package compress

import (
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// Algorithm identifies a decompression scheme.
type Algorithm string

const (
	// None reads the stream unchanged.
	None Algorithm = "none"
	// Gzip decompresses gzip streams.
	Gzip Algorithm = "gzip"
	// Zstd decompresses zstandard streams.
	Zstd Algorithm = "zstd"
	// S2 decompresses s2 (snappy-compatible) streams.
	S2 Algorithm = "s2"
	// LZ4 decompresses lz4 frame streams.
	LZ4 Algorithm = "lz4"
)

// Detect maps a file path to its compression algorithm by extension:
// .gz, .zst/.zstd, .s2, .lz4. Unknown extensions mean no compression.
func Detect(path string) Algorithm {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".s2":
		return S2
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// BasePath strips a recognized compression extension, so format detection
// can look at the real file name: "data.csv.gz" -> "data.csv".
func BasePath(path string) string {
	if Detect(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// NewReader wraps r with the decompressor for the algorithm. The returned
// reader owns any decoder state; callers close it when done (closing does
// not close the underlying reader).
func NewReader(r io.Reader, algo Algorithm) (io.ReadCloser, error) {
	switch algo {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening gzip stream")
		}
		return gz, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening zstd stream")
		}
		return dec.IOReadCloser(), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm %q", algo)
	}
}

// Open is NewReader with the algorithm detected from the path.
func Open(r io.Reader, path string) (io.ReadCloser, error) {
	return NewReader(r, Detect(path))
}
