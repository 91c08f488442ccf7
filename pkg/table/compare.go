package table

import (
	"math/bits"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/pool"
)

const (
	hashSeed = 0x9e3779b97f4a7c15
	hashMix  = 0xff51afd7ed558ccd
)

// Equal compares two tables under value semantics: same column count, same
// names in the same order, and every cell pair equal. Any cell comparison
// involving NA makes the outcome unknown; a definite cell mismatch makes it
// false regardless of NA elsewhere.
func Equal(a, b *Table) column.Tri {
	if a.ColumnCount() != b.ColumnCount() || a.RowCount() != b.RowCount() {
		return column.TriFalse
	}
	for i, name := range a.index.names {
		if b.index.names[i] != name {
			return column.TriFalse
		}
	}

	out := column.TriTrue
	for i := range a.cols {
		ts, err := column.EqualCells(a.cols[i], b.cols[i])
		if err != nil {
			return column.TriFalse
		}
		switch column.Fold(ts) {
		case column.TriFalse:
			return column.TriFalse
		case column.TriUnknown:
			out = column.TriUnknown
		}
	}
	return out
}

// Equivalent compares two tables under identity semantics: NA cells match
// NA cells, NaN matches NaN. A deep copy is always equivalent to its
// original, NA placement included.
func Equivalent(a, b *Table) bool {
	if a.ColumnCount() != b.ColumnCount() || a.RowCount() != b.RowCount() {
		return false
	}
	for i, name := range a.index.names {
		if b.index.names[i] != name {
			return false
		}
	}
	rows := a.RowCount()
	for i := range a.cols {
		ca, cb := a.cols[i], b.cols[i]
		for r := 0; r < rows; r++ {
			if !column.Equivalent(ca.Get(r), cb.Get(r)) {
				return false
			}
		}
	}
	return true
}

// HashTable returns an order-sensitive hash: a seed from the table's shape,
// then each column's hash folded in column order with a rotate-xor mix.
// Column names do not participate; tables with equivalent cells in the same
// layout hash equal.
func HashTable(t *Table) uint64 {
	h := uint64(hashSeed)
	h ^= uint64(t.RowCount()) * hashMix
	h = bits.RotateLeft64(h, 23)
	h ^= uint64(t.ColumnCount()) * hashMix
	for _, c := range t.cols {
		h = bits.RotateLeft64(h, 31) ^ c.Hash()*hashMix
	}
	return h
}

// DuplicateRows flags every row whose value tuple already occurred in an
// earlier row. The first occurrence stays false. Matching follows
// Equivalent semantics: NA matches NA, 1 matches 1.0 matches true, NaN
// matches NaN.
func DuplicateRows(t *Table) []bool {
	rows := t.RowCount()
	flags := make([]bool, rows)
	if rows == 0 || t.ColumnCount() == 0 {
		return flags
	}

	seen := make(map[string]struct{}, rows)
	buf := pool.GetByteSlice()
	for i := 0; i < rows; i++ {
		buf = buf[:0]
		for _, c := range t.cols {
			buf = column.AppendKey(buf, c.Get(i))
		}
		key := string(buf)
		if _, dup := seen[key]; dup {
			flags[i] = true
		} else {
			seen[key] = struct{}{}
		}
	}
	pool.PutByteSlice(buf)
	return flags
}
