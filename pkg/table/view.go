package table

import (
	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
)

// View is a non-owning row subset of a table: the parent reference plus an
// ordered sequence of parent row positions. It holds no cell storage.
// Reads and cell writes remap through the position sequence and delegate
// to the parent; writes are visible in the parent and in every other view
// over it.
//
// A view must not be used after structural mutation of its parent (column
// insert or delete, row deletion). Cell mutation is fine.
type View struct {
	parent *Table
	rows   []int
}

// NewView builds a view of the selected rows. Positions may repeat and may
// order rows freely; each must be inside the parent's current extent.
func NewView(t *Table, sel RowSelector) (*View, error) {
	positions, err := sel.resolve(t.RowCount())
	if err != nil {
		return nil, err
	}
	return &View{parent: t, rows: positions}, nil
}

// View builds a view of this view. Positions compose: the result
// references the parent table directly rather than stacking indirection.
func (v *View) View(sel RowSelector) (*View, error) {
	positions, err := sel.resolve(len(v.rows))
	if err != nil {
		return nil, err
	}
	mapped := make([]int, len(positions))
	for i, p := range positions {
		mapped[i] = v.rows[p]
	}
	return &View{parent: v.parent, rows: mapped}, nil
}

// RowCount returns the view's own length, not the parent's.
func (v *View) RowCount() int { return len(v.rows) }

// ColumnCount returns the parent's column count.
func (v *View) ColumnCount() int { return v.parent.ColumnCount() }

// Names returns the parent's column names.
func (v *View) Names() []string { return v.parent.Names() }

// Parent returns the viewed table.
func (v *View) Parent() *Table { return v.parent }

// Positions returns a copy of the parent row positions the view covers.
func (v *View) Positions() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

// At reads one cell through the view.
func (v *View) At(row int, sel Selector) (interface{}, error) {
	if err := v.checkRow(row); err != nil {
		return nil, err
	}
	return v.parent.At(v.rows[row], sel)
}

// SetAt writes one cell through the view, in place. The type-mismatch
// policy of cell writes applies: a value the column cannot hold leaves
// the cell NA.
func (v *View) SetAt(row int, sel Selector, value interface{}) error {
	if err := v.checkRow(row); err != nil {
		return err
	}
	pos, err := sel.single(v.parent.index)
	if err != nil {
		return err
	}
	v.parent.cols[pos].Set(v.rows[row], value)
	return nil
}

// Column returns a new column holding the selected column's cells at the
// view's rows.
func (v *View) Column(sel Selector) (column.Column, error) {
	pos, err := sel.single(v.parent.index)
	if err != nil {
		return nil, err
	}
	return v.parent.cols[pos].Gather(v.rows), nil
}

// Row returns a handle on one of the view's rows.
func (v *View) Row(row int) (Row, error) {
	if err := v.checkRow(row); err != nil {
		return Row{}, err
	}
	return Row{t: v.parent, pos: v.rows[row]}, nil
}

// Materialize gathers the view into a table that owns its storage.
func (v *View) Materialize() *Table {
	cols := make([]column.Column, len(v.parent.cols))
	for i, c := range v.parent.cols {
		cols[i] = c.Gather(v.rows)
	}
	return &Table{cols: cols, index: v.parent.index.clone(), cfg: v.parent.cfg}
}

func (v *View) checkRow(row int) error {
	if row < 0 || row >= len(v.rows) {
		return errors.Newf(errors.ErrorTypeOutOfBounds,
			"row position %d out of range [0, %d)", row, len(v.rows))
	}
	return nil
}

// Row is a single-row handle on a table, supporting name-keyed access
// without materializing a one-row table. Created from Table.Row or
// View.Row; a view's row handle resolves to the parent position once, so
// handles never chain.
type Row struct {
	t   *Table
	pos int
}

// Row returns a handle on the given row.
func (t *Table) Row(row int) (Row, error) {
	if err := t.checkRow(row); err != nil {
		return Row{}, err
	}
	return Row{t: t, pos: row}, nil
}

// Position returns the row's position in its table.
func (r Row) Position() int { return r.pos }

// Table returns the table the handle points into.
func (r Row) Table() *Table { return r.t }

// Names returns the column names in order.
func (r Row) Names() []string { return r.t.Names() }

// Get reads the named field, nil for NA.
func (r Row) Get(name string) (interface{}, error) {
	return r.t.At(r.pos, Name(name))
}

// Set writes the named field through to the table, with cell-write
// semantics (including the one-row auto-grow degradation).
func (r Row) Set(name string, value interface{}) error {
	return r.t.SetAt(r.pos, Name(name), value)
}

// Fields returns the row's values in column order, nil for NA cells.
func (r Row) Fields() []interface{} {
	out := make([]interface{}, len(r.t.cols))
	for i, c := range r.t.cols {
		out[i] = c.Get(r.pos)
	}
	return out
}

// Map returns the row as a name-keyed map. NA cells map to nil values.
func (r Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.t.cols))
	for i, c := range r.t.cols {
		out[r.t.index.Name(i)] = c.Get(r.pos)
	}
	return out
}
