package table

import (
	"strconv"

	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/pool"
)

// Index is the bidirectional column-name registry: an ordered name sequence
// plus the reverse name-to-position map, kept in lockstep. Names are
// interned; tables built from the same schema share one string per name.
type Index struct {
	names  []string
	byName map[string]int
}

// NewIndex builds an index over the given names, rejecting duplicates.
func NewIndex(names []string) (*Index, error) {
	ix := &Index{
		names:  make([]string, 0, len(names)),
		byName: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if err := ix.Insert(name); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Len returns the number of registered columns.
func (ix *Index) Len() int { return len(ix.names) }

// Names returns the column names in order. The slice is the caller's.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Name returns the name at a position.
func (ix *Index) Name(pos int) string { return ix.names[pos] }

// Contains reports whether a column with the given name exists.
func (ix *Index) Contains(name string) bool {
	_, ok := ix.byName[name]
	return ok
}

// Position returns the position of a named column.
func (ix *Index) Position(name string) (int, error) {
	pos, ok := ix.byName[name]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeUnknownColumn, "unknown column %q", name).
			WithDetail("column", name)
	}
	return pos, nil
}

// Insert appends a name at the next position.
func (ix *Index) Insert(name string) error {
	if _, ok := ix.byName[name]; ok {
		return errors.Newf(errors.ErrorTypeDuplicateColumn, "duplicate column %q", name).
			WithDetail("column", name)
	}
	name = pool.InternString(name)
	ix.byName[name] = len(ix.names)
	ix.names = append(ix.names, name)
	return nil
}

// Rename changes a column's name in place, keeping its position.
func (ix *Index) Rename(old, new string) error {
	pos, ok := ix.byName[old]
	if !ok {
		return errors.Newf(errors.ErrorTypeUnknownColumn, "unknown column %q", old).
			WithDetail("column", old)
	}
	if old == new {
		return nil
	}
	if _, ok := ix.byName[new]; ok {
		return errors.Newf(errors.ErrorTypeDuplicateColumn, "duplicate column %q", new).
			WithDetail("column", new)
	}
	new = pool.InternString(new)
	delete(ix.byName, old)
	ix.byName[new] = pos
	ix.names[pos] = new
	return nil
}

// Delete removes the name at a position and renumbers the ones after it.
func (ix *Index) Delete(pos int) {
	delete(ix.byName, ix.names[pos])
	ix.names = append(ix.names[:pos], ix.names[pos+1:]...)
	for i := pos; i < len(ix.names); i++ {
		ix.byName[ix.names[i]] = i
	}
}

// NextAutoName returns prefix plus the first ordinal, counting from 1,
// that does not collide with a registered name.
func (ix *Index) NextAutoName(prefix string) string {
	for k := 1; ; k++ {
		name := prefix + strconv.Itoa(k)
		if !ix.Contains(name) {
			return name
		}
	}
}

// autoNames generates n fresh names for an empty index.
func autoNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i+1)
	}
	return names
}

// clone copies the index so the original and the copy evolve independently.
func (ix *Index) clone() *Index {
	out := &Index{
		names:  make([]string, len(ix.names)),
		byName: make(map[string]int, len(ix.byName)),
	}
	copy(out.names, ix.names)
	for name, pos := range ix.byName {
		out.byName[name] = pos
	}
	return out
}
