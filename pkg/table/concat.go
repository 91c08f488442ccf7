package table

import (
	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
	stringpool "github.com/ajitpratap0/prism/pkg/strings"
)

// VConcat stacks tables row-wise. The result's column set is the union of
// the inputs' names ordered by first appearance; where an input lacks a
// column, its rows are NA-filled. Each output column takes the promoted
// element type of the inputs that carry it. The result owns fresh storage,
// so VConcat of a single table is a copy with identical order and values.
func VConcat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyResult, "vertical concat of no tables")
	}

	// Union of names in first-appearance order, with the promoted type of
	// every input that carries each name.
	var names []string
	elems := make(map[string]column.Type)
	for _, t := range tables {
		for i, name := range t.index.names {
			elem := t.cols[i].Type()
			if have, ok := elems[name]; ok {
				elems[name] = column.Promote(have, elem)
			} else {
				elems[name] = elem
				names = append(names, name)
			}
		}
	}

	cols := make([]column.Column, 0, len(names))
	for _, name := range names {
		out := column.New(elems[name])
		for _, t := range tables {
			if pos, ok := t.index.byName[name]; ok {
				appendAll(out, t.cols[pos])
			} else {
				out.AppendNA(t.RowCount())
			}
		}
		cols = append(cols, out)
	}
	return NewWithConfig(tables[0].cfg, names, cols)
}

// appendAll copies every cell of src onto dst, converting to dst's element
// type. dst's type is a promotion of src's, so conversion cannot lose cells.
func appendAll(dst, src column.Column) {
	n := src.Len()
	for i := 0; i < n; i++ {
		if src.IsNA(i) {
			dst.AppendNA(1)
		} else {
			dst.Append(src.Get(i))
		}
	}
}

// HConcat joins tables column-wise. Inputs must agree in row count;
// column-less tables are skipped. Name collisions are resolved by suffixing
// later occurrences with _1, _2, and so on. The result shares column
// storage with its inputs.
func HConcat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyResult, "horizontal concat of no tables")
	}

	rows := -1
	var names []string
	var cols []column.Column
	used := make(map[string]bool)

	for _, t := range tables {
		if t.ColumnCount() == 0 {
			continue
		}
		if rows == -1 {
			rows = t.RowCount()
		} else if t.RowCount() != rows {
			return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
				"horizontal concat of %d rows with %d rows", rows, t.RowCount())
		}
		for i, name := range t.index.names {
			if used[name] {
				name = dedupName(name, used)
			}
			used[name] = true
			names = append(names, name)
			cols = append(cols, t.cols[i])
		}
	}
	return NewWithConfig(tables[0].cfg, names, cols)
}

// dedupName finds the first free name_k, counting from 1.
func dedupName(name string, used map[string]bool) string {
	for k := 1; ; k++ {
		candidate := stringpool.Sprintf("%s_%d", name, k)
		if !used[candidate] {
			return candidate
		}
	}
}
