// Package json wraps goccy/go-json with pooled encoders, decoders and
// buffers. All JSON touching code in prism goes through this package so the
// underlying implementation stays swappable.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

const pooledBufferLimit = 1 << 20

var (
	encoderPool = sync.Pool{
		New: func() interface{} { return &pooledEncoder{} },
	}
	decoderPool = sync.Pool{
		New: func() interface{} { return &pooledDecoder{} },
	}
	bufferPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 4096))
		},
	}
)

type pooledEncoder struct {
	encoder *gojson.Encoder
}

type pooledDecoder struct {
	decoder *gojson.Decoder
}

// GetEncoder returns an encoder writing to w. HTML escaping is off; table
// cells are data, not markup.
func GetEncoder(w io.Writer) *gojson.Encoder {
	pe := encoderPool.Get().(*pooledEncoder)
	pe.encoder = gojson.NewEncoder(w)
	pe.encoder.SetEscapeHTML(false)
	return pe.encoder
}

// PutEncoder returns an encoder to the pool.
func PutEncoder(enc *gojson.Encoder) {
	encoderPool.Put(&pooledEncoder{encoder: enc})
}

// GetDecoder returns a decoder reading from r. UseNumber is set so integer
// cells survive the round trip without drifting through float64.
func GetDecoder(r io.Reader) *gojson.Decoder {
	pd := decoderPool.Get().(*pooledDecoder)
	pd.decoder = gojson.NewDecoder(r)
	pd.decoder.UseNumber()
	return pd.decoder
}

// PutDecoder returns a decoder to the pool.
func PutDecoder(dec *gojson.Decoder) {
	decoderPool.Put(&pooledDecoder{decoder: dec})
}

// GetBuffer returns a reset pooled buffer.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool unless it grew past the pooling
// limit.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > pooledBufferLimit {
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// MarshalToWriter encodes v directly to w through a pooled encoder.
func MarshalToWriter(w io.Writer, v interface{}) error {
	enc := GetEncoder(w)
	defer PutEncoder(enc)
	return enc.Encode(v)
}

// StreamingEncoder writes a sequence of values either as one JSON array or
// as line-delimited records. Array mode manages the brackets and commas;
// lines mode relies on Encode's trailing newline.
type StreamingEncoder struct {
	writer  io.Writer
	encoder *gojson.Encoder
	first   bool
	array   bool
	err     error
}

// NewStreamingEncoder starts a stream on w. With array true the opening
// bracket is written immediately.
func NewStreamingEncoder(w io.Writer, array bool) *StreamingEncoder {
	se := &StreamingEncoder{
		writer:  w,
		encoder: GetEncoder(w),
		first:   true,
		array:   array,
	}
	if array {
		if _, err := w.Write([]byte{'['}); err != nil {
			se.err = err
		}
	}
	return se
}

// Encode appends one value to the stream.
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.err != nil {
		return se.err
	}
	if se.array && !se.first {
		if _, err := se.writer.Write([]byte{','}); err != nil {
			se.err = err
			return err
		}
	}
	se.first = false

	if se.array {
		// Encode appends a newline, which reads poorly between array
		// elements. Marshal once and write the raw bytes instead.
		data, err := gojson.Marshal(v)
		if err != nil {
			se.err = err
			return err
		}
		if _, err := se.writer.Write(data); err != nil {
			se.err = err
			return err
		}
		return nil
	}
	if err := se.encoder.Encode(v); err != nil {
		se.err = err
		return err
	}
	return nil
}

// Close finishes the stream and releases the pooled encoder.
func (se *StreamingEncoder) Close() error {
	if se.array && se.err == nil {
		if _, err := se.writer.Write([]byte{']', '\n'}); err != nil {
			se.err = err
		}
	}
	PutEncoder(se.encoder)
	return se.err
}
