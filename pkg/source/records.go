package source

import (
	"sort"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/table"
)

// FromRecords builds a table from row maps. Column order follows the order
// arguments when given; remaining keys are appended sorted, since map
// iteration has no stable order to preserve. Keys absent from a record
// leave missing cells.
func FromRecords(records []map[string]interface{}, order ...string) (*table.Table, error) {
	return FromRecordsWithConfig(nil, records, order...)
}

// FromRecordsWithConfig is FromRecords under explicit engine options.
func FromRecordsWithConfig(cfg *config.Options, records []map[string]interface{}, order ...string) (*table.Table, error) {
	b := newBuilder(cfg)

	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			return nil, errors.New(errors.ErrorTypeDuplicateColumn, "column listed twice in order").
				WithDetail("column", name)
		}
		seen[name] = true
		b.column(name)
	}

	// Any keys outside the explicit order join the column set sorted, so
	// repeated runs produce the same table.
	var rest []string
	restSeen := make(map[string]bool)
	for _, rec := range records {
		for key := range rec {
			if !seen[key] && !restSeen[key] {
				restSeen[key] = true
				rest = append(rest, key)
			}
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		b.column(name)
	}

	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		vals := make([]interface{}, 0, len(rec))
		for _, name := range b.names {
			if v, ok := rec[name]; ok {
				keys = append(keys, name)
				vals = append(vals, v)
			}
		}
		b.appendRow(keys, vals)
	}

	tb, err := b.build(nil)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRows("records", tb.RowCount(), nil)
	return tb, nil
}

// FromRows builds a table from positional value rows under the given
// names. Every row must match the name count.
func FromRows(rows [][]interface{}, names []string) (*table.Table, error) {
	return FromRowsWithConfig(nil, rows, names)
}

// FromRowsWithConfig is FromRows under explicit engine options.
func FromRowsWithConfig(cfg *config.Options, rows [][]interface{}, names []string) (*table.Table, error) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, errors.New(errors.ErrorTypeDuplicateColumn, "column name repeated").
				WithDetail("column", name)
		}
		seen[name] = true
	}

	b := newBuilder(cfg)
	b.setNames(names)

	for i, row := range rows {
		if len(row) != len(names) {
			return nil, errors.New(errors.ErrorTypeLengthMismatch, "row width does not match names").
				WithDetail("row", i).
				WithDetail("fields", len(row)).
				WithDetail("columns", len(names))
		}
		if err := b.appendCells(row); err != nil {
			return nil, err
		}
	}

	tb, err := b.build(nil)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRows("records", tb.RowCount(), nil)
	return tb, nil
}
