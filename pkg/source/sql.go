package source

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/table"
)

// FromSQLRows drains a database/sql result set into a table. Column names
// come from the result metadata; element types are inferred from the
// scanned values, so drivers that report everything as bytes still produce
// typed columns when the text parses.
func FromSQLRows(rows *sql.Rows) (*table.Table, error) {
	return FromSQLRowsWithConfig(nil, rows)
}

// FromSQLRowsWithConfig is FromSQLRows under explicit engine options.
func FromSQLRowsWithConfig(cfg *config.Options, rows *sql.Rows) (*table.Table, error) {
	timer := metrics.NewTimer("source.sql.read")
	defer timer.Stop()

	tb, err := fromSQLRows(cfg, rows)
	n := 0
	if tb != nil {
		n = tb.RowCount()
	}
	metrics.ObserveRows("sql", n, err)
	return tb, err
}

func fromSQLRows(cfg *config.Options, rows *sql.Rows) (*table.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read result columns")
	}

	b := newBuilder(cfg)
	b.setNames(uniqueNames(names))

	dest := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	// Columns where every value arrived as raw bytes get token inference
	// later; mysql's text protocol delivers ints and floats that way.
	bytesOnly := make([]bool, len(names))
	for i := range bytesOnly {
		bytesOnly[i] = true
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to scan row").
				WithDetail("row", b.rows)
		}
		cells := make([]interface{}, len(dest))
		for i, v := range dest {
			if v != nil {
				if _, ok := v.([]byte); !ok {
					bytesOnly[i] = false
				}
			}
			cells[i] = normalizeSQL(v)
		}
		if err := b.appendCells(cells); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "result iteration failed")
	}

	for i := range b.cells {
		if !bytesOnly[i] {
			continue
		}
		t := inferTokenType(sampleValues(b.cells[i], b.cfg.Source.InferenceRows), column.TypeString)
		if t == column.TypeString {
			continue
		}
		for j, v := range b.cells[i] {
			if v == nil {
				continue
			}
			b.cells[i][j] = parseToken(v.(string), t)
		}
	}

	tb, err := b.build(nil)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("sql result loaded",
		zap.Int("rows", tb.RowCount()),
		zap.Int("columns", tb.ColumnCount()))
	return tb, nil
}

// normalizeSQL maps driver values onto column cells. Byte slices become
// strings; everything else passes through and lands in whichever column
// type inference picks.
func normalizeSQL(v interface{}) interface{} {
	if bs, ok := v.([]byte); ok {
		return string(bs)
	}
	return v
}
