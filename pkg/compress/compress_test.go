package compress

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Algorithm
	}{
		{"data.csv", None},
		{"data.csv.gz", Gzip},
		{"data.CSV.GZ", Gzip},
		{"rows.json.zst", Zstd},
		{"rows.json.zstd", Zstd},
		{"chunk.s2", S2},
		{"chunk.csv.lz4", LZ4},
		{"noext", None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.path), tt.path)
	}
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "data.csv", BasePath("data.csv.gz"))
	assert.Equal(t, "rows.json", BasePath("rows.json.zst"))
	assert.Equal(t, "plain.csv", BasePath("plain.csv"))
}

func roundTrip(t *testing.T, algo Algorithm, compressed []byte, want string) {
	t.Helper()
	r, err := NewReader(bytes.NewReader(compressed), algo)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestNewReaderGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	roundTrip(t, Gzip, buf.Bytes(), "a,b\n1,2\n")
}

func TestNewReaderZstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte("hello zstd"), nil)
	require.NoError(t, enc.Close())

	roundTrip(t, Zstd, compressed, "hello zstd")
}

func TestNewReaderS2(t *testing.T) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	_, err := w.Write([]byte("hello s2"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	roundTrip(t, S2, buf.Bytes(), "hello s2")
}

func TestNewReaderLZ4(t *testing.T) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write([]byte("hello lz4"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	roundTrip(t, LZ4, buf.Bytes(), "hello lz4")
}

func TestNewReaderNone(t *testing.T) {
	roundTrip(t, None, []byte("raw bytes"), "raw bytes")
}

func TestNewReaderUnknown(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), Algorithm("brotli"))
	assert.Error(t, err)
}
