package table

import (
	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
)

// Read path. Six shapes fall out of the selector kinds: column selection
// alone (single column, or a table of columns) and row selection crossed
// with it (scalar, one-row table, gathered column, sub-table). Selector
// normalization happens in selector.go; this file only dispatches over
// already-validated positions.

// Column returns the selected column itself. The handle is shared with the
// table, not copied; in-place cell writes are visible to both sides.
func (t *Table) Column(sel Selector) (column.Column, error) {
	pos, err := sel.single(t.index)
	if err != nil {
		return nil, err
	}
	return t.cols[pos], nil
}

// ColumnAt is Column by bare position.
func (t *Table) ColumnAt(pos int) (column.Column, error) {
	return t.Column(Pos(pos))
}

// Select returns a table over the selected columns. The result shares
// column storage with the receiver but carries its own index, so renames
// and column replacement on either side stay local.
func (t *Table) Select(sel Selector) (*Table, error) {
	targets, err := sel.resolve(t.index)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(targets))
	cols := make([]column.Column, 0, len(targets))
	for _, pos := range targets {
		names = append(names, t.index.Name(pos))
		cols = append(cols, t.cols[pos])
	}
	out, err := NewWithConfig(t.cfg, names, cols)
	if err != nil {
		// Selecting the same column twice would need two identical names.
		return nil, err
	}
	return out, nil
}

// At returns one cell: the value at the row and the single selected column,
// nil when the cell is NA.
func (t *Table) At(row int, sel Selector) (interface{}, error) {
	pos, err := sel.single(t.index)
	if err != nil {
		return nil, err
	}
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	return t.cols[pos].Get(row), nil
}

// RowTable returns a one-row table holding the given row restricted to the
// selected columns. Storage is fresh, not shared.
func (t *Table) RowTable(row int, sel Selector) (*Table, error) {
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	return t.Sub(RowPositions(row), sel)
}

// ColumnRows returns a new column holding the selected column's cells at
// the selected rows, in selector order.
func (t *Table) ColumnRows(rows RowSelector, sel Selector) (column.Column, error) {
	pos, err := sel.single(t.index)
	if err != nil {
		return nil, err
	}
	positions, err := rows.resolve(t.RowCount())
	if err != nil {
		return nil, err
	}
	return t.cols[pos].Gather(positions), nil
}

// Sub returns a new table restricted to the selected rows and columns, in
// selector order. Column storage is gathered, so the result owns its cells.
func (t *Table) Sub(rows RowSelector, sel Selector) (*Table, error) {
	targets, err := sel.resolve(t.index)
	if err != nil {
		return nil, err
	}
	positions, err := rows.resolve(t.RowCount())
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(targets))
	cols := make([]column.Column, 0, len(targets))
	for _, pos := range targets {
		names = append(names, t.index.Name(pos))
		cols = append(cols, t.cols[pos].Gather(positions))
	}
	return NewWithConfig(t.cfg, names, cols)
}

func (t *Table) checkRow(row int) error {
	if row < 0 || row >= t.RowCount() {
		return errors.Newf(errors.ErrorTypeOutOfBounds,
			"row position %d out of range [0, %d)", row, t.RowCount())
	}
	return nil
}
