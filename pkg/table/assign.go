package table

import (
	"time"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
)

// Write path. Column writes replace column storage (shallow copies keep
// the old column); cell and row-range writes mutate storage in place
// (views and shallow copies see them). Shape and identity problems are
// hard errors; a type-mismatched value in a cell write degrades that cell
// to NA instead of failing the operation.

// SetColumn implements column assignment for one or many targets.
//
// The value may be a scalar (broadcast over the current rows, growing an
// empty table to one row), a slice or column matching the current row
// count (or defining it, when the table has no columns yet), a table
// (distributed across a multi-column selector), or nil, which deletes the
// targets.
//
// Name selectors may name new columns, which are appended. A position
// selector may point one past the last column, which appends under an
// auto-generated name; further out is refused.
func (t *Table) SetColumn(sel Selector, value interface{}) error {
	if value == nil {
		targets, err := sel.resolve(t.index)
		if err != nil {
			return err
		}
		return t.deleteColumns(targets)
	}
	switch sel.kind {
	case selName:
		return t.putByName(sel.name, value, false)
	case selPos:
		return t.putByPos(sel.pos, value, false)
	default:
		return t.putMulti(sel, value)
	}
}

func (t *Table) putMulti(sel Selector, value interface{}) error {
	if vt, ok := value.(*Table); ok {
		return t.putMultiFromTable(sel, vt)
	}

	// One column handle fanned out to several slots would alias storage
	// inside the table; targets after the first get copies.
	valueFor := func(k int) interface{} {
		if c, ok := value.(column.Column); ok && k > 0 {
			return c.Copy()
		}
		return value
	}

	switch sel.kind {
	case selNames:
		for k, name := range sel.names {
			if err := t.putByName(name, valueFor(k), false); err != nil {
				return err
			}
		}
		return nil
	case selPositions:
		for k, pos := range sel.positions {
			if err := t.putByPos(pos, valueFor(k), false); err != nil {
				return err
			}
		}
		return nil
	case selMask, selAll:
		targets, err := sel.resolve(t.index)
		if err != nil {
			return err
		}
		for k, pos := range targets {
			if err := t.putByPos(pos, valueFor(k), false); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrorTypeInternal, "invalid selector")
	}
}

func (t *Table) putMultiFromTable(sel Selector, vt *Table) error {
	switch sel.kind {
	case selNames:
		if vt.ColumnCount() != len(sel.names) {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"assigning %d columns to %d targets", vt.ColumnCount(), len(sel.names))
		}
		for k, name := range sel.names {
			if err := t.putByName(name, vt.cols[k], false); err != nil {
				return err
			}
		}
		return nil
	case selPositions:
		if vt.ColumnCount() != len(sel.positions) {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"assigning %d columns to %d targets", vt.ColumnCount(), len(sel.positions))
		}
		for k, pos := range sel.positions {
			if err := t.putByPos(pos, vt.cols[k], false); err != nil {
				return err
			}
		}
		return nil
	default:
		targets, err := sel.resolve(t.index)
		if err != nil {
			return err
		}
		if vt.ColumnCount() != len(targets) {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"assigning %d columns to %d targets", vt.ColumnCount(), len(targets))
		}
		for k, pos := range targets {
			if err := t.putByPos(pos, vt.cols[k], false); err != nil {
				return err
			}
		}
		return nil
	}
}

func (t *Table) putByName(name string, value interface{}, forceScalar bool) error {
	pos, exists := t.index.byName[name]
	col, err := t.materialize(value, forceScalar, exists, pos)
	if err != nil {
		return err
	}
	if exists {
		t.cols[pos] = col
		return nil
	}
	if err := t.index.Insert(name); err != nil {
		return err
	}
	t.cols = append(t.cols, col)
	return nil
}

func (t *Table) putByPos(pos int, value interface{}, forceScalar bool) error {
	ncols := t.ColumnCount()
	switch {
	case pos < 0:
		return errors.Newf(errors.ErrorTypeOutOfBounds, "column position %d out of range", pos)
	case pos < ncols:
		col, err := t.materialize(value, forceScalar, true, pos)
		if err != nil {
			return err
		}
		t.cols[pos] = col
		return nil
	case pos == ncols:
		// The "next" slot appends under a generated name.
		return t.putByName(t.index.NextAutoName(t.cfg.AutoNamePrefix), value, forceScalar)
	default:
		return errors.Newf(errors.ErrorTypeNonContiguousInsert,
			"cannot insert at position %d with %d columns", pos, ncols)
	}
}

// materialize turns an assignment value into the column to install,
// enforcing the row-count discipline and performing scalar auto-grow.
func (t *Table) materialize(value interface{}, forceScalar, targetExists bool, targetPos int) (column.Column, error) {
	rows := t.RowCount()

	if !forceScalar && isColumnValue(value) {
		col, err := toColumn(value)
		if err != nil {
			return nil, err
		}
		// A sequence must match the current extent. Two cases redefine the
		// row count instead: the table has no columns yet, or the sequence
		// replaces the only column there is.
		if t.ColumnCount() > 0 && col.Len() != rows {
			if !(targetExists && t.ColumnCount() == 1) {
				return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
					"cannot assign %d values to a table of %d rows", col.Len(), rows)
			}
		}
		return col, nil
	}

	// Scalar: broadcast over the current rows; an empty table grows to one.
	n := rows
	if n == 0 {
		n = 1
		if t.ColumnCount() > 0 {
			t.growEmptySiblings()
		}
	}
	elem := t.cfg.DefaultType
	if targetExists {
		elem = t.cols[targetPos].Type()
	}
	return scalarColumn(value, elem, n), nil
}

// growEmptySiblings takes a 0-row table to 1 row by replacing every column
// with a one-NA column of the same type. Replacement, not in-place append,
// so shallow copies keep their 0-row columns.
func (t *Table) growEmptySiblings() {
	for i, c := range t.cols {
		t.cols[i] = column.NewNA(c.Type(), 1)
	}
}

// scalarColumn broadcasts a scalar into a fresh n-cell column. A nil
// scalar produces all-NA cells of the elem type; otherwise the column
// takes the scalar's own type.
func scalarColumn(v interface{}, elem column.Type, n int) column.Column {
	if v == nil {
		return column.NewNA(elem, n)
	}
	c := column.New(column.Infer(v))
	for i := 0; i < n; i++ {
		c.Append(v)
	}
	return c
}

func isColumnValue(v interface{}) bool {
	switch v.(type) {
	case *Table, column.Column,
		[]int, []int64, []float64, []string, []bool, []time.Time, []interface{}:
		return true
	}
	return false
}

func toColumn(value interface{}) (column.Column, error) {
	if vt, ok := value.(*Table); ok {
		if vt.ColumnCount() != 1 {
			return nil, errors.Newf(errors.ErrorTypeShapeMismatch,
				"cannot assign a %d-column table to a single column", vt.ColumnCount())
		}
		return vt.cols[0], nil
	}
	return column.FromSlice(value)
}

// SetAt implements single-cell assignment.
//
// On a table of at most one row the write degrades to a whole-column
// write of a one-cell column holding the value, growing the table when it
// is empty. Otherwise the target column and row must exist, and the cell
// is written in place; a value the column's type cannot hold leaves the
// cell NA.
func (t *Table) SetAt(row int, sel Selector, value interface{}) error {
	if t.RowCount() <= 1 {
		switch sel.kind {
		case selName:
			return t.putByName(sel.name, value, true)
		case selPos:
			return t.putByPos(sel.pos, value, true)
		default:
			return errors.New(errors.ErrorTypeShapeMismatch,
				"selector addresses multiple columns where one is required")
		}
	}
	pos, err := sel.single(t.index)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.cols[pos].Set(row, value)
	return nil
}

// Set implements row-range assignment: value written to the cross product
// of the selected rows and columns. Targets must already exist; row-range
// writes never create columns and never change the row count.
//
// The value may be a scalar (nil sets NA), a sequence matching the row
// selection, or a table matching the selection in both dimensions.
func (t *Table) Set(rows RowSelector, sel Selector, value interface{}) error {
	targets, err := t.resolveWriteTargets(sel)
	if err != nil {
		return err
	}
	positions, err := rows.resolve(t.RowCount())
	if err != nil {
		return err
	}

	if vt, ok := value.(*Table); ok {
		if vt.ColumnCount() != len(targets) {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"assigning %d columns to %d targets", vt.ColumnCount(), len(targets))
		}
		if vt.RowCount() != len(positions) {
			return errors.Newf(errors.ErrorTypeLengthMismatch,
				"assigning %d rows to %d selected rows", vt.RowCount(), len(positions))
		}
		for k, pos := range targets {
			src := vt.cols[k]
			dst := t.cols[pos]
			for j, rp := range positions {
				dst.Set(rp, src.Get(j))
			}
		}
		return nil
	}

	if vals, ok := toValues(value); ok {
		if len(vals) != len(positions) {
			return errors.Newf(errors.ErrorTypeLengthMismatch,
				"assigning %d values to %d selected rows", len(vals), len(positions))
		}
		for _, pos := range targets {
			t.cols[pos].Scatter(positions, vals)
		}
		return nil
	}

	for _, pos := range targets {
		dst := t.cols[pos]
		for _, rp := range positions {
			dst.Set(rp, value)
		}
	}
	return nil
}

// resolveWriteTargets is selector resolution for row-range writes, where a
// missing column is a NonExistentTarget rather than a lookup failure.
func (t *Table) resolveWriteTargets(sel Selector) ([]int, error) {
	targets, err := sel.resolve(t.index)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeUnknownColumn) ||
			errors.IsType(err, errors.ErrorTypeOutOfBounds) {
			return nil, errors.Wrap(err, errors.ErrorTypeNonExistentTarget,
				"row-range writes cannot create columns")
		}
		return nil, err
	}
	return targets, nil
}

func toValues(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case column.Column:
		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = v.Get(i)
		}
		return out, true
	case []int:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []int64:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []string:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []bool:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []time.Time:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}
