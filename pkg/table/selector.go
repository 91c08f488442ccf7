package table

import (
	"github.com/ajitpratap0/prism/pkg/errors"
)

// Selector addresses columns. The raw argument kinds (name, position,
// name sequence, position sequence, boolean mask, everything) are closed
// variants; normalization into concrete positions happens in one place,
// independent of the read/write dispatch that consumes the positions.
type Selector struct {
	kind      selKind
	name      string
	pos       int
	names     []string
	positions []int
	mask      []bool
}

type selKind uint8

const (
	selName selKind = iota
	selPos
	selNames
	selPositions
	selMask
	selAll
)

// Name selects a single column by name.
func Name(name string) Selector { return Selector{kind: selName, name: name} }

// Pos selects a single column by position.
func Pos(pos int) Selector { return Selector{kind: selPos, pos: pos} }

// Names selects multiple columns by name, in the given order.
func Names(names ...string) Selector { return Selector{kind: selNames, names: names} }

// Positions selects multiple columns by position, in the given order.
func Positions(positions ...int) Selector {
	return Selector{kind: selPositions, positions: positions}
}

// Mask selects the columns whose flag is true. The mask length must equal
// the column count.
func Mask(mask []bool) Selector { return Selector{kind: selMask, mask: mask} }

// AllColumns selects every column in order.
func AllColumns() Selector { return Selector{kind: selAll} }

// IsSingle reports whether the selector addresses exactly one column by
// construction. Sequence selectors are multi even when one element long.
func (s Selector) IsSingle() bool {
	return s.kind == selName || s.kind == selPos
}

// single normalizes a single-column selector to its position.
func (s Selector) single(ix *Index) (int, error) {
	switch s.kind {
	case selName:
		return ix.Position(s.name)
	case selPos:
		if s.pos < 0 || s.pos >= ix.Len() {
			return 0, errors.Newf(errors.ErrorTypeOutOfBounds,
				"column position %d out of range [0, %d)", s.pos, ix.Len())
		}
		return s.pos, nil
	default:
		return 0, errors.New(errors.ErrorTypeShapeMismatch,
			"selector addresses multiple columns where one is required")
	}
}

// resolve normalizes any selector into a position sequence.
func (s Selector) resolve(ix *Index) ([]int, error) {
	switch s.kind {
	case selName, selPos:
		pos, err := s.single(ix)
		if err != nil {
			return nil, err
		}
		return []int{pos}, nil
	case selNames:
		out := make([]int, 0, len(s.names))
		for _, name := range s.names {
			pos, err := ix.Position(name)
			if err != nil {
				return nil, err
			}
			out = append(out, pos)
		}
		return out, nil
	case selPositions:
		out := make([]int, 0, len(s.positions))
		for _, pos := range s.positions {
			if pos < 0 || pos >= ix.Len() {
				return nil, errors.Newf(errors.ErrorTypeOutOfBounds,
					"column position %d out of range [0, %d)", pos, ix.Len())
			}
			out = append(out, pos)
		}
		return out, nil
	case selMask:
		if len(s.mask) != ix.Len() {
			return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
				"column mask has %d entries for %d columns", len(s.mask), ix.Len())
		}
		return maskPositions(s.mask), nil
	case selAll:
		out := make([]int, ix.Len())
		for i := range out {
			out[i] = i
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrorTypeInternal, "invalid selector")
	}
}

// RowSelector addresses rows: explicit positions, a boolean mask over the
// current row count, or every row.
type RowSelector struct {
	kind      rowKind
	positions []int
	mask      []bool
}

type rowKind uint8

const (
	rowPositions rowKind = iota
	rowMask
	rowAll
)

// RowPositions selects rows by position, in the given order. Positions may
// repeat.
func RowPositions(positions ...int) RowSelector {
	return RowSelector{kind: rowPositions, positions: positions}
}

// RowMask selects the rows whose flag is true. The mask length must equal
// the row count.
func RowMask(mask []bool) RowSelector { return RowSelector{kind: rowMask, mask: mask} }

// AllRows selects every row in order.
func AllRows() RowSelector { return RowSelector{kind: rowAll} }

// resolve normalizes a row selector into ascending-or-given positions,
// validated against the row count.
func (s RowSelector) resolve(rows int) ([]int, error) {
	switch s.kind {
	case rowPositions:
		out := make([]int, 0, len(s.positions))
		for _, pos := range s.positions {
			if pos < 0 || pos >= rows {
				return nil, errors.Newf(errors.ErrorTypeOutOfBounds,
					"row position %d out of range [0, %d)", pos, rows)
			}
			out = append(out, pos)
		}
		return out, nil
	case rowMask:
		if len(s.mask) != rows {
			return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
				"row mask has %d entries for %d rows", len(s.mask), rows)
		}
		return maskPositions(s.mask), nil
	case rowAll:
		out := make([]int, rows)
		for i := range out {
			out[i] = i
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrorTypeInternal, "invalid row selector")
	}
}

// maskPositions converts a boolean mask to the ascending positions of its
// true entries.
func maskPositions(mask []bool) []int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	out := make([]int, 0, n)
	for i, b := range mask {
		if b {
			out = append(out, i)
		}
	}
	return out
}
