package source

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/compress"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/json"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/pool"
	"github.com/ajitpratap0/prism/pkg/table"
)

// JSONOptions controls JSON parsing. The input is either one array of
// objects or line-delimited objects; when Lines is false the shape is
// sniffed from the first byte.
type JSONOptions struct {
	Path   string
	Reader io.Reader
	// Lines forces line-delimited mode.
	Lines bool
	// Config supplies engine defaults; nil means stock defaults.
	Config *config.Options
}

// NewJSONOptions seeds options for path; .jsonl and .ndjson extensions
// select line-delimited mode.
func NewJSONOptions(path string) JSONOptions {
	base := strings.ToLower(compress.BasePath(path))
	ext := filepath.Ext(base)
	return JSONOptions{
		Path:   path,
		Lines:  ext == ".jsonl" || ext == ".ndjson",
		Config: config.NewOptions(),
	}
}

// LoadJSON reads path with default options.
func LoadJSON(path string) (*table.Table, error) {
	return ReadJSON(NewJSONOptions(path))
}

// ReadJSON parses objects into a table. The column set is the union of
// keys in first-appearance order; keys absent from a row leave missing
// cells. Integral numbers come out as int columns, the rest as float.
func ReadJSON(opts JSONOptions) (*table.Table, error) {
	timer := metrics.NewTimer("source.json.read")
	defer timer.Stop()

	tb, err := readJSON(opts)
	rows := 0
	if tb != nil {
		rows = tb.RowCount()
	}
	metrics.ObserveRows("json", rows, err)
	return tb, err
}

func readJSON(opts JSONOptions) (*table.Table, error) {
	cfg := withDefaults(opts.Config)

	r := opts.Reader
	if r == nil {
		if opts.Path == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "json source needs a path or reader")
		}
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open json file").
				WithDetail("path", opts.Path)
		}
		defer f.Close()

		rc, err := compress.Open(f, opts.Path)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		r = rc
	}

	br := bufio.NewReader(r)
	array, err := sniffArray(br)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeEmptyResult, "json input is empty")
	}
	if opts.Lines {
		array = false
	}

	dec := json.GetDecoder(br)
	defer json.PutDecoder(dec)

	b := newBuilder(cfg)
	if array {
		if _, err := dec.Token(); err != nil { // consume '['
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse json array")
		}
		for dec.More() {
			if err := decodeRow(dec, b, cfg); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, errors.Wrap(err, errors.ErrorTypeData, "unterminated json array")
		}
	} else {
		for {
			err := decodeRow(dec, b, cfg)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		if b.rows == 0 && len(b.names) == 0 {
			return nil, errors.New(errors.ErrorTypeEmptyResult, "json input is empty")
		}
	}

	tb, err := b.build(nil)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("json loaded",
		zap.String("path", opts.Path),
		zap.Bool("lines", !array),
		zap.Int("rows", tb.RowCount()),
		zap.Int("columns", tb.ColumnCount()))
	return tb, nil
}

// sniffArray skips leading whitespace and reports whether the document
// opens with '['.
func sniffArray(br *bufio.Reader) (bool, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return false, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.Discard(1); err != nil {
				return false, err
			}
		default:
			return b[0] == '[', nil
		}
	}
}

// decodeRow reads one object off the decoder token by token, preserving
// key order, and appends it to the builder. Returns io.EOF cleanly at end
// of input.
func decodeRow(dec *gojson.Decoder, b *builder, cfg *config.Options) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to parse json").
			WithDetail("row", b.rows)
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '{' {
		return errors.New(errors.ErrorTypeData, "json row is not an object").
			WithDetail("row", b.rows)
	}

	var (
		keys []string
		vals []interface{}
	)
	pooled := cfg.Memory.EnablePools
	if pooled {
		keys = pool.GetStringSlice()
		vals = pool.GetValues(0)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to parse json key").
				WithDetail("row", b.rows)
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New(errors.ErrorTypeData, "json object key is not a string").
				WithDetail("row", b.rows)
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to parse json value").
				WithDetail("row", b.rows).
				WithDetail("column", key)
		}
		keys = append(keys, key)
		vals = append(vals, normalizeJSON(v))
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return errors.Wrap(err, errors.ErrorTypeData, "unterminated json object").
			WithDetail("row", b.rows)
	}

	b.appendRow(keys, vals)
	if pooled {
		pool.PutStringSlice(keys)
		pool.PutValues(vals)
	}
	return nil
}

// normalizeJSON rewrites decoded values into column cell types: numbers
// become int64 when integral and float64 otherwise, recursively through
// nested containers headed for Any columns.
func normalizeJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case gojson.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = normalizeJSON(e)
		}
		return t
	default:
		return v
	}
}
