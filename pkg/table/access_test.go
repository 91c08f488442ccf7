package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
)

func accessFixture(t *testing.T) *Table {
	t.Helper()
	return mustTable(t,
		Col{"id", []int{1, 2, 3}},
		Col{"name", []string{"ada", "bob", "cyd"}},
		Col{"score", []interface{}{1.5, nil, 3.5}},
	)
}

func TestColumnSharedHandle(t *testing.T) {
	tbl := accessFixture(t)
	c, err := tbl.Column(Name("id"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeInt, c.Type())

	// The handle is the table's storage, not a copy.
	c.Set(0, 42)
	assert.Equal(t, int64(42), mustAt(t, tbl, 0, "id"))
}

func TestColumnErrors(t *testing.T) {
	tbl := accessFixture(t)

	_, err := tbl.Column(Name("missing"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownColumn))

	_, err = tbl.Column(Pos(9))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))

	_, err = tbl.Column(Names("id", "name"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeShapeMismatch))
}

func TestSelectSharesStorage(t *testing.T) {
	tbl := accessFixture(t)
	sel, err := tbl.Select(Names("score", "id"))
	require.NoError(t, err)

	assert.Equal(t, []string{"score", "id"}, sel.Names())
	assert.Equal(t, 3, sel.RowCount())

	// Shared storage: a cell write in the selection shows in the parent.
	require.NoError(t, sel.SetAt(2, Name("id"), 30))
	assert.Equal(t, int64(30), mustAt(t, tbl, 2, "id"))

	// Fresh index: renaming in the selection leaves the parent alone.
	require.NoError(t, sel.Rename("id", "key"))
	assert.True(t, tbl.Contains("id"))
}

func TestSelectByMask(t *testing.T) {
	tbl := accessFixture(t)
	sel, err := tbl.Select(Mask([]bool{true, false, true}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "score"}, sel.Names())

	_, err = tbl.Select(Mask([]bool{true}))
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestSelectDuplicateTarget(t *testing.T) {
	tbl := accessFixture(t)
	_, err := tbl.Select(Positions(0, 0))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateColumn))
}

func TestAt(t *testing.T) {
	tbl := accessFixture(t)

	assert.Equal(t, "bob", mustAt(t, tbl, 1, "name"))
	assert.Nil(t, mustAt(t, tbl, 1, "score"))

	_, err := tbl.At(3, Name("id"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))

	_, err = tbl.At(0, Name("missing"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownColumn))
}

func TestRowTable(t *testing.T) {
	tbl := accessFixture(t)
	row, err := tbl.RowTable(1, Names("name", "score"))
	require.NoError(t, err)

	assert.Equal(t, 1, row.RowCount())
	assert.Equal(t, []string{"name", "score"}, row.Names())
	assert.Equal(t, "bob", mustAt(t, row, 0, "name"))
	assert.Nil(t, mustAt(t, row, 0, "score"))

	// Fresh storage: writing the one-row table leaves the parent alone.
	require.NoError(t, row.SetAt(0, Name("name"), "zzz"))
	assert.Equal(t, "bob", mustAt(t, tbl, 1, "name"))
}

func TestRowRoundTrip(t *testing.T) {
	tbl := accessFixture(t)
	for r := 0; r < tbl.RowCount(); r++ {
		row, err := tbl.RowTable(r, AllColumns())
		require.NoError(t, err)
		for _, name := range tbl.Names() {
			assert.Equal(t, mustAt(t, tbl, r, name), mustAt(t, row, 0, name),
				"row %d column %s", r, name)
		}
	}
}

func TestColumnRows(t *testing.T) {
	tbl := accessFixture(t)

	c, err := tbl.ColumnRows(RowPositions(2, 0, 2), Name("name"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "cyd", c.Get(0))
	assert.Equal(t, "ada", c.Get(1))
	assert.Equal(t, "cyd", c.Get(2))

	_, err = tbl.ColumnRows(RowMask([]bool{true, false}), Name("name"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestSub(t *testing.T) {
	tbl := accessFixture(t)
	sub, err := tbl.Sub(RowMask([]bool{true, false, true}), Names("score", "id"))
	require.NoError(t, err)

	assert.Equal(t, 2, sub.RowCount())
	assert.Equal(t, []string{"score", "id"}, sub.Names())
	assert.Equal(t, 1.5, mustAt(t, sub, 0, "score"))
	assert.Equal(t, int64(3), mustAt(t, sub, 1, "id"))

	// Gathered storage: sub-table writes never reach the parent.
	require.NoError(t, sub.SetAt(0, Name("id"), 77))
	assert.Equal(t, int64(1), mustAt(t, tbl, 0, "id"))
}
