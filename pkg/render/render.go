// Package render turns tables into text: fixed-width previews for people,
// CSV and JSON for everything else. Missing cells print as the configured
// NA text, export as empty CSV fields, and serialize as JSON null.
package render

import (
	"io"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/json"
	stringpool "github.com/ajitpratap0/prism/pkg/strings"
	"github.com/ajitpratap0/prism/pkg/table"
)

// Options controls fixed-width formatting.
type Options struct {
	// MaxRows caps the rows printed; 0 prints everything.
	MaxRows int
	// MaxCellWidth truncates wider cells; 0 disables truncation.
	MaxCellWidth int
	// NAText is printed for missing cells.
	NAText string
	// ShowTypes renders headers as name<type>.
	ShowTypes bool
}

// DefaultOptions mirrors the stock render configuration.
func DefaultOptions() Options {
	return FromConfig(config.NewOptions())
}

// FromConfig maps the render section of the unified configuration.
func FromConfig(cfg *config.Options) Options {
	return Options{
		MaxRows:      cfg.Render.MaxRows,
		MaxCellWidth: cfg.Render.MaxCellWidth,
		NAText:       cfg.Render.NAText,
		ShowTypes:    cfg.Render.ShowTypes,
	}
}

// Head returns the first n rows as a fresh table. n beyond the row count
// clamps; negative n is out of bounds.
func Head(t *table.Table, n int) (*table.Table, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrorTypeOutOfBounds, "head size cannot be negative").
			WithDetail("n", n)
	}
	if n > t.RowCount() {
		n = t.RowCount()
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return t.Sub(table.RowPositions(positions...), table.AllColumns())
}

// Format renders the table as fixed-width text.
func Format(t *table.Table, opts Options) string {
	rows := t.RowCount()
	shown := rows
	if opts.MaxRows > 0 && shown > opts.MaxRows {
		shown = opts.MaxRows
	}

	headers := make([]string, t.ColumnCount())
	grid := make([][]string, t.ColumnCount())
	widths := make([]int, t.ColumnCount())
	for c := 0; c < t.ColumnCount(); c++ {
		col, _ := t.ColumnAt(c)
		name := t.Names()[c]
		if opts.ShowTypes {
			name = stringpool.Concat(name, "<", col.Type().String(), ">")
		}
		headers[c] = name
		widths[c] = len(name)

		grid[c] = make([]string, shown)
		for r := 0; r < shown; r++ {
			cell := formatCell(col, r, opts)
			grid[c][r] = cell
			if len(cell) > widths[c] {
				widths[c] = len(cell)
			}
		}
	}

	b := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(b, stringpool.Large)

	writeLine := func(cells func(c int) string) {
		for c := range headers {
			if c > 0 {
				b.WriteString("  ")
			}
			cell := cells(c)
			b.WriteString(cell)
			if c < len(headers)-1 {
				for pad := len(cell); pad < widths[c]; pad++ {
					b.WriteByte(' ')
				}
			}
		}
		b.WriteByte('\n')
	}

	writeLine(func(c int) string { return headers[c] })
	for r := 0; r < shown; r++ {
		row := r
		writeLine(func(c int) string { return grid[c][row] })
	}
	if shown < rows {
		b.WriteString(stringpool.Sprintf("... (%d more rows)\n", rows-shown))
	}
	return stringpool.Clone(b.String())
}

func formatCell(col column.Column, row int, opts Options) string {
	if col.IsNA(row) {
		return opts.NAText
	}
	s := stringpool.ValueToString(col.Get(row))
	if opts.MaxCellWidth > 3 && len(s) > opts.MaxCellWidth {
		s = stringpool.Concat(s[:opts.MaxCellWidth-3], "...")
	}
	return s
}

// WriteCSV exports the table as CSV with a header row. Missing cells are
// empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	cb := stringpool.NewCSVBuilder(t.RowCount()+1, t.ColumnCount())
	defer cb.Close()

	cb.WriteHeader(t.Names())

	fields := make([]string, t.ColumnCount())
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColumnCount(); c++ {
			col, _ := t.ColumnAt(c)
			if col.IsNA(r) {
				fields[c] = ""
				continue
			}
			fields[c] = stringpool.ValueToString(col.Get(r))
		}
		cb.WriteRow(fields)
	}

	if _, err := io.WriteString(w, cb.String()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv")
	}
	return nil
}

// WriteJSON exports rows as JSON objects, one array by default or
// line-delimited records with lines set. Keys keep column order; missing
// cells and non-finite floats serialize as null.
func WriteJSON(w io.Writer, t *table.Table, lines bool) error {
	enc := json.NewStreamingEncoder(w, !lines)

	keys := make([][]byte, t.ColumnCount())
	for c, name := range t.Names() {
		k, err := gojson.Marshal(name)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to encode column name").
				WithDetail("column", name)
		}
		keys[c] = k
	}

	buf := json.GetBuffer()
	defer json.PutBuffer(buf)

	for r := 0; r < t.RowCount(); r++ {
		buf.Reset()
		buf.WriteByte('{')
		for c := 0; c < t.ColumnCount(); c++ {
			if c > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[c])
			buf.WriteByte(':')

			col, _ := t.ColumnAt(c)
			cell, err := marshalCell(col, r)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "failed to encode cell").
					WithDetail("row", r).
					WithDetail("column", t.Names()[c])
			}
			buf.Write(cell)
		}
		buf.WriteByte('}')

		if err := enc.Encode(gojson.RawMessage(buf.Bytes())); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write json").
				WithDetail("row", r)
		}
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish json")
	}
	return nil
}

var jsonNull = []byte("null")

func marshalCell(col column.Column, row int) ([]byte, error) {
	if col.IsNA(row) {
		return jsonNull, nil
	}
	v := col.Get(row)
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return jsonNull, nil
	}
	return gojson.Marshal(v)
}

// SchemaTable summarizes t per column: name, element type, missing count.
func SchemaTable(t *table.Table) (*table.Table, error) {
	names := t.Names()
	types := make([]interface{}, len(names))
	nas := make([]interface{}, len(names))
	cols := make([]interface{}, len(names))
	for c := 0; c < t.ColumnCount(); c++ {
		col, _ := t.ColumnAt(c)
		n := 0
		for r := 0; r < col.Len(); r++ {
			if col.IsNA(r) {
				n++
			}
		}
		cols[c] = names[c]
		types[c] = col.Type().String()
		nas[c] = int64(n)
	}
	return table.FromCols(
		table.Col{Name: "column", Values: cols},
		table.Col{Name: "type", Values: types},
		table.Col{Name: "na", Values: nas},
	)
}
