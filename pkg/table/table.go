package table

import (
	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/pool"
	stringpool "github.com/ajitpratap0/prism/pkg/strings"
)

// Config carries the construction defaults a table needs when the caller
// leaves something unspecified: the element type of all-NA fill columns and
// the prefix for auto-generated column names. There is no package-level
// mutable default; callers that want different behavior pass their own
// value.
type Config struct {
	// AutoNamePrefix prefixes generated column names: prefix + first free
	// ordinal counting from 1.
	AutoNamePrefix string
	// DefaultType is the element type used when a column must be created
	// without any value to infer from.
	DefaultType column.Type
}

/// DefaultConfig returns the stock defaults: "x" prefix, float elements.
func DefaultConfig() Config {
	return Config{AutoNamePrefix: "x", DefaultType: column.TypeFloat}
}

func (c Config) withDefaults() Config {
	if c.AutoNamePrefix == "" {
		c.AutoNamePrefix = "x"
	}
	return c
}

// Table is an ordered sequence of equal-length typed columns plus the name
// index over them. All mutation goes through the selector-based read/write
// operations, which keep the equal-length and index-agreement invariants.
//
// A Table is not thread-safe; callers sharing a table, its shallow copies,
// or its views across goroutines must synchronize externally.
type Table struct {
	cols  []column.Column
	index *Index
	cfg   Config
}

// New builds a table over the given names and columns. The two sequences
// must agree in count, and the columns must agree in length.
func New(names []string, cols []column.Column) (*Table, error) {
	return NewWithConfig(DefaultConfig(), names, cols)
}

// NewWithConfig is New with explicit construction defaults.
func NewWithConfig(cfg Config, names []string, cols []column.Column) (*Table, error) {
	if len(names) != len(cols) {
		return nil, errors.Newf(errors.ErrorTypeIndexMismatch,
			"%d names for %d columns", len(names), len(cols))
	}
	if err := checkEqualLengths(cols); err != nil {
		return nil, err
	}
	ix, err := NewIndex(names)
	if err != nil {
		return nil, err
	}
	return &Table{cols: cols, index: ix, cfg: cfg.withDefaults()}, nil
}

func checkEqualLengths(cols []column.Column) error {
	if len(cols) < 2 {
		return nil
	}
	n := cols[0].Len()
	for i := 1; i < len(cols); i++ {
		if cols[i].Len() != n {
			return errors.Newf(errors.ErrorTypeLengthMismatch,
				"column %d has %d rows, column 0 has %d", i, cols[i].Len(), n)
		}
	}
	return nil
}

// NewEmpty builds a rows-by-cols table of all-NA cells with auto-generated
// names and the given element type.
func NewEmpty(rows, cols int, t column.Type) (*Table, error) {
	return NewEmptyWithConfig(DefaultConfig(), rows, cols, t)
}

// NewEmptyWithConfig is NewEmpty with explicit construction defaults.
func NewEmptyWithConfig(cfg Config, rows, cols int, t column.Type) (*Table, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Newf(errors.ErrorTypeOutOfBounds,
			"negative shape %dx%d", rows, cols)
	}
	cfg = cfg.withDefaults()
	columns := make([]column.Column, cols)
	for i := range columns {
		columns[i] = column.NewNA(t, rows)
	}
	ix, err := NewIndex(autoNames(cfg.AutoNamePrefix, cols))
	if err != nil {
		return nil, err
	}
	return &Table{cols: columns, index: ix, cfg: cfg}, nil
}

// Col pairs a column name with its values for FromCols. Values may be a
// typed slice, a []interface{} (type-inferred), or a ready column.Column.
type Col struct {
	Name   string
	Values interface{}
}

// FromCols builds a table from ordered name/values pairs.
func FromCols(cols ...Col) (*Table, error) {
	names := make([]string, 0, len(cols))
	columns := make([]column.Column, 0, len(cols))
	for _, c := range cols {
		col, err := column.FromSlice(c.Values)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				stringpool.Sprintf("column %q", c.Name))
		}
		names = append(names, c.Name)
		columns = append(columns, col)
	}
	return New(names, columns)
}

// RowCount returns the common column length, 0 for a column-less table.
func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return t.index.Len() }

// Names returns the column names in order.
func (t *Table) Names() []string { return t.index.Names() }

// Types returns the column element types in order.
func (t *Table) Types() []column.Type {
	out := make([]column.Type, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Type()
	}
	return out
}

// MemoryUsage returns the approximate heap footprint of all column
// storage in bytes. Shared storage behind shallow copies is counted once
// per table that holds it.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, c := range t.cols {
		total += c.MemoryUsage()
	}
	return total
}

// Contains reports whether a column with the given name exists.
func (t *Table) Contains(name string) bool { return t.index.Contains(name) }

// Index exposes the name registry for read-only use.
func (t *Table) Index() *Index { return t.index }

// Options returns the table's construction defaults.
func (t *Table) Options() Config { return t.cfg }

func (t *Table) String() string {
	return stringpool.Sprintf("Table(%dx%d)", t.RowCount(), t.ColumnCount())
}

// ShallowCopy returns a new table whose column slots reference the same
// storage as the original. Replacing a column in either table leaves the
// other untouched; mutating cells in place is visible to both.
func (t *Table) ShallowCopy() *Table {
	cols := make([]column.Column, len(t.cols))
	copy(cols, t.cols)
	return &Table{cols: cols, index: t.index.clone(), cfg: t.cfg}
}

// DeepCopy returns a table with cloned column storage.
func (t *Table) DeepCopy() *Table {
	cols := make([]column.Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Copy()
	}
	return &Table{cols: cols, index: t.index.clone(), cfg: t.cfg}
}

// Rename changes a column's name, keeping its position and storage.
func (t *Table) Rename(old, new string) error {
	return t.index.Rename(old, new)
}

// DeleteColumn removes the selected columns. Removing every remaining
// column in one operation is refused.
func (t *Table) DeleteColumn(sel Selector) error {
	targets, err := sel.resolve(t.index)
	if err != nil {
		return err
	}
	return t.deleteColumns(targets)
}

func (t *Table) deleteColumns(targets []int) error {
	if len(targets) == 0 {
		return nil
	}
	drop := make(map[int]bool, len(targets))
	for _, pos := range targets {
		drop[pos] = true
	}
	if len(drop) == t.ColumnCount() {
		return errors.New(errors.ErrorTypeEmptyResult,
			"operation would remove every column")
	}
	// Delete from the highest position down so earlier positions stay valid.
	order := make([]int, 0, len(drop))
	for pos := range drop {
		order = append(order, pos)
	}
	sortInts(order)
	for i := len(order) - 1; i >= 0; i-- {
		pos := order[i]
		t.cols = append(t.cols[:pos], t.cols[pos+1:]...)
		t.index.Delete(pos)
	}
	return nil
}

// DeleteRows removes the selected rows from every column. Column storage is
// replaced, not mutated, so shallow copies keep the original rows.
func (t *Table) DeleteRows(sel RowSelector) error {
	rows := t.RowCount()
	targets, err := sel.resolve(rows)
	if err != nil {
		return err
	}
	drop := make(map[int]bool, len(targets))
	for _, pos := range targets {
		drop[pos] = true
	}

	kept := pool.GetPositions(rows - len(drop))
	defer pool.PutPositions(kept)
	for i := 0; i < rows; i++ {
		if !drop[i] {
			kept = append(kept, i)
		}
	}
	for i, c := range t.cols {
		t.cols[i] = c.Gather(kept)
	}
	return nil
}

func sortInts(s []int) {
	// Insertion sort; delete target sets are small.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
