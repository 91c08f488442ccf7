package source

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/compress"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/table"
)

// CSVOptions controls CSV parsing. Build it with NewCSVOptions to pick up
// engine defaults; a zero value reads headerless comma-separated data with
// no missing-value tokens.
type CSVOptions struct {
	// Path locates the file. Compressed files are detected by extension
	// and decompressed transparently.
	Path string
	// Reader overrides Path when set. The caller owns decompression.
	Reader io.Reader
	// HasHeader treats the first row as column names.
	HasHeader bool
	// Delimiter is the field separator; 0 means comma.
	Delimiter rune
	// Comment makes lines starting with this rune skipped; 0 disables.
	Comment rune
	// NAValues lists tokens parsed as missing cells.
	NAValues []string
	// TypeHints pins element types for named columns, skipping inference.
	TypeHints map[string]column.Type
	// Config supplies engine defaults; nil means stock defaults.
	Config *config.Options
}

// NewCSVOptions seeds options for path from the stock configuration.
func NewCSVOptions(path string) CSVOptions {
	cfg := config.NewOptions()
	return CSVOptions{
		Path:      path,
		HasHeader: cfg.Source.HasHeader,
		Delimiter: cfg.Source.DelimiterRune(),
		NAValues:  cfg.Source.NAValues,
		Config:    cfg,
	}
}

// LoadCSV reads path with default options.
func LoadCSV(path string) (*table.Table, error) {
	return ReadCSV(NewCSVOptions(path))
}

// ReadCSV parses CSV into a table. Column types are inferred per column
// over the sampled prefix: integers narrow to int, any fraction widens to
// float, the bool literals parse as bool, everything else stays string.
// Cells that defy the inferred type later in the file degrade to missing.
func ReadCSV(opts CSVOptions) (*table.Table, error) {
	timer := metrics.NewTimer("source.csv.read")
	defer timer.Stop()

	tb, err := readCSV(opts)
	rows := 0
	if tb != nil {
		rows = tb.RowCount()
	}
	metrics.ObserveRows("csv", rows, err)
	return tb, err
}

func readCSV(opts CSVOptions) (*table.Table, error) {
	cfg := withDefaults(opts.Config)

	r := opts.Reader
	if r == nil {
		if opts.Path == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "csv source needs a path or reader")
		}
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open csv file").
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

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		cr.Comment = opts.Comment
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		names []string
		cells [][]interface{}
		rows  int
	)
	addColumns := func(headers []string) {
		names = uniqueNames(headers)
		cells = make([][]interface{}, len(names))
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse csv").
				WithDetail("row", rows)
		}

		if names == nil {
			if opts.HasHeader {
				headers := make([]string, len(record))
				for i, h := range record {
					headers[i] = strings.TrimSpace(h)
				}
				addColumns(headers)
				continue
			}
			addColumns(autoColumnNames(cfg.Engine.AutoNamePrefix, len(record)))
		}

		if len(record) > len(names) {
			return nil, errors.New(errors.ErrorTypeData, "csv row has more fields than the header").
				WithDetail("row", rows).
				WithDetail("fields", len(record)).
				WithDetail("columns", len(names))
		}
		for i := range cells {
			var v interface{}
			if i < len(record) && !isNAToken(record[i], opts.NAValues) {
				v = record[i]
			}
			cells[i] = append(cells[i], v)
		}
		rows++
	}

	if names == nil {
		// A header-only file builds a zero-row table; a file with no rows
		// at all has no column set to build from.
		return nil, errors.New(errors.ErrorTypeEmptyResult, "csv input is empty")
	}

	tcfg := tableConfig(cfg)
	cols := make([]column.Column, len(names))
	for i, name := range names {
		t, ok := opts.TypeHints[name]
		if !ok {
			t = inferTokenType(sampleValues(cells[i], cfg.Source.InferenceRows), tcfg.DefaultType)
		}
		parsed := make([]interface{}, len(cells[i]))
		for j, v := range cells[i] {
			if v == nil {
				continue
			}
			parsed[j] = parseToken(v.(string), t)
		}
		cols[i] = buildColumn(parsed, t, cfg.Engine.DictEncodeStrings)
	}

	tb, err := table.NewWithConfig(tcfg, names, cols)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("csv loaded",
		zap.String("path", opts.Path),
		zap.Int("rows", tb.RowCount()),
		zap.Int("columns", tb.ColumnCount()))
	return tb, nil
}

func isNAToken(token string, naValues []string) bool {
	for _, na := range naValues {
		if token == na {
			return true
		}
	}
	return false
}

// tokenType classifies one raw token. The ladder runs int, float, bool
// literal, string; "1" is an int, never a bool.
func tokenType(token string) column.Type {
	token = strings.TrimSpace(token)
	if _, err := strconv.ParseInt(token, 10, 64); err == nil {
		return column.TypeInt
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		return column.TypeFloat
	}
	switch token {
	case "true", "false", "TRUE", "FALSE":
		return column.TypeBool
	}
	return column.TypeString
}

// inferTokenType promotes token types across the sample. Int widens to
// float; any other disagreement falls back to string, because every token
// is at least a string.
func inferTokenType(sample []interface{}, fallback column.Type) column.Type {
	var t column.Type
	seen := false
	for _, v := range sample {
		if v == nil {
			continue
		}
		tt := tokenType(v.(string))
		if !seen {
			t, seen = tt, true
			continue
		}
		t = promoteTokens(t, tt)
		if t == column.TypeString {
			break
		}
	}
	if !seen {
		return fallback
	}
	return t
}

func promoteTokens(a, b column.Type) column.Type {
	switch {
	case a == b:
		return a
	case a == column.TypeInt && b == column.TypeFloat,
		a == column.TypeFloat && b == column.TypeInt:
		return column.TypeFloat
	default:
		return column.TypeString
	}
}

// parseToken converts one token to the column type, nil when it does not
// parse.
func parseToken(token string, t column.Type) interface{} {
	switch t {
	case column.TypeInt:
		if v, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64); err == nil {
			return v
		}
		return nil
	case column.TypeFloat:
		if v, err := strconv.ParseFloat(strings.TrimSpace(token), 64); err == nil {
			return v
		}
		return nil
	case column.TypeBool:
		if v, err := strconv.ParseBool(strings.TrimSpace(token)); err == nil {
			return v
		}
		return nil
	default:
		return token
	}
}
