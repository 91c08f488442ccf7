// Package source loads external data into tables. Each loader parses its
// format into per-column value runs, infers an element type over a sampled
// prefix, and materializes typed columns through pkg/column. Cells that
// defy the inferred type after the sample degrade to missing rather than
// failing the load.
package source

import (
	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/pool"
	stringpool "github.com/ajitpratap0/prism/pkg/strings"
	"github.com/ajitpratap0/prism/pkg/table"
)

func withDefaults(cfg *config.Options) *config.Options {
	if cfg == nil {
		return config.NewOptions()
	}
	return cfg
}

func tableConfig(cfg *config.Options) table.Config {
	t, err := column.ParseType(cfg.Engine.DefaultElementType)
	if err != nil {
		t = column.TypeFloat
	}
	return table.Config{
		AutoNamePrefix: cfg.Engine.AutoNamePrefix,
		DefaultType:    t,
	}
}

// builder accumulates raw cell values column by column before any typing
// decision. Absent cells hold nil and come out as missing.
type builder struct {
	cfg    *config.Options
	names  []string
	byName map[string]int
	cells  [][]interface{}
	rows   int
}

func newBuilder(cfg *config.Options) *builder {
	return &builder{
		cfg:    withDefaults(cfg),
		byName: make(map[string]int),
	}
}

// setNames declares the full column set up front, for positional loaders.
func (b *builder) setNames(names []string) {
	for _, name := range names {
		b.column(name)
	}
}

// column returns the slot for name, adding it NA-padded to the current row
// count when first seen.
func (b *builder) column(name string) int {
	if b.cfg.Memory.InternColumnNames {
		name = pool.InternString(name)
	}
	if pos, ok := b.byName[name]; ok {
		return pos
	}
	pos := len(b.names)
	b.names = append(b.names, name)
	b.byName[name] = pos
	b.cells = append(b.cells, make([]interface{}, b.rows))
	return pos
}

// appendRow adds one row given parallel key/value runs. Keys absent from
// the row leave nil in their columns; keys not seen before extend the
// column set in first-appearance order.
func (b *builder) appendRow(keys []string, values []interface{}) {
	row := b.rows
	b.rows++
	for i := range b.cells {
		b.cells[i] = append(b.cells[i], nil)
	}
	for k, key := range keys {
		b.cells[b.column(key)][row] = values[k]
	}
}

// appendCells adds one row positionally against the declared column set.
// Short rows are NA-padded; long rows are a data error.
func (b *builder) appendCells(cells []interface{}) error {
	if len(cells) > len(b.names) {
		return errors.New(errors.ErrorTypeData, "row has more fields than columns").
			WithDetail("fields", len(cells)).
			WithDetail("columns", len(b.names))
	}
	b.rows++
	for i := range b.cells {
		var v interface{}
		if i < len(cells) {
			v = cells[i]
		}
		b.cells[i] = append(b.cells[i], v)
	}
	return nil
}

// build infers a type per column over the sampled prefix and materializes
// the table. hints pins types for named columns and skips their inference.
func (b *builder) build(hints map[string]column.Type) (*table.Table, error) {
	tcfg := tableConfig(b.cfg)
	cols := make([]column.Column, len(b.names))
	for i, name := range b.names {
		t, ok := hints[name]
		if !ok {
			t = column.InferValues(sampleValues(b.cells[i], b.cfg.Source.InferenceRows), tcfg.DefaultType)
		}
		cols[i] = buildColumn(b.cells[i], t, b.cfg.Engine.DictEncodeStrings)
	}
	return table.NewWithConfig(tcfg, b.names, cols)
}

// buildColumn appends values into a fresh column of the given type. String
// columns start dictionary-encoded when dict is set; otherwise they decide
// for themselves once enough values arrive.
func buildColumn(values []interface{}, t column.Type, dict bool) column.Column {
	var c column.Column
	if dict && t == column.TypeString {
		c = column.NewDictStringColumn(len(values))
	} else {
		c = column.New(t)
	}
	for _, v := range values {
		if v == nil {
			c.AppendNA(1)
			continue
		}
		c.Append(v)
	}
	return c
}

func sampleValues(values []interface{}, n int) []interface{} {
	if n <= 0 || n >= len(values) {
		return values
	}
	return values[:n]
}

// uniqueNames suffixes repeated names with _1, _2, ... so headers with
// duplicates still index cleanly, matching hconcat collision handling.
func uniqueNames(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		candidate := name
		for k := 1; used[candidate]; k++ {
			candidate = stringpool.Sprintf("%s_%d", name, k)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// autoColumnNames generates prefix1..prefixN for headerless input.
func autoColumnNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = stringpool.Sprintf("%s%d", prefix, i+1)
	}
	return names
}
