package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
)

func TestVConcatIdentity(t *testing.T) {
	tbl := mustTable(t,
		Col{"a", []int{1, 2}},
		Col{"b", []interface{}{nil, "y"}},
	)
	got, err := VConcat(tbl)
	require.NoError(t, err)

	assert.Equal(t, tbl.Names(), got.Names())
	assert.True(t, Equivalent(tbl, got))

	// The result owns fresh storage.
	require.NoError(t, got.SetAt(0, Name("a"), 99))
	assert.Equal(t, int64(1), mustAt(t, tbl, 0, "a"))
}

func TestVConcatDisjointColumns(t *testing.T) {
	t1 := mustTable(t, Col{"a", []int{1, 2}}, Col{"b", []int{3, 4}})
	t2 := mustTable(t, Col{"b", []int{5}}, Col{"c", []int{6}})

	got, err := VConcat(t1, t2)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, got.Names())
	assert.Equal(t, 3, got.RowCount())

	// Column a: t1's values then NA for t2's row.
	assert.Equal(t, int64(1), mustAt(t, got, 0, "a"))
	assert.Equal(t, int64(2), mustAt(t, got, 1, "a"))
	assert.Nil(t, mustAt(t, got, 2, "a"))

	// Column b appears in both.
	assert.Equal(t, int64(3), mustAt(t, got, 0, "b"))
	assert.Equal(t, int64(5), mustAt(t, got, 2, "b"))

	// Column c: NA head for t1's rows.
	assert.Nil(t, mustAt(t, got, 0, "c"))
	assert.Nil(t, mustAt(t, got, 1, "c"))
	assert.Equal(t, int64(6), mustAt(t, got, 2, "c"))
}

func TestVConcatPromotesTypes(t *testing.T) {
	ints := mustTable(t, Col{"v", []int{1, 2}})
	floats := mustTable(t, Col{"v", []float64{0.5}})
	got, err := VConcat(ints, floats)
	require.NoError(t, err)

	assert.Equal(t, []column.Type{column.TypeFloat}, got.Types())
	assert.Equal(t, 1.0, mustAt(t, got, 0, "v"))
	assert.Equal(t, 0.5, mustAt(t, got, 2, "v"))
}

func TestVConcatIncompatibleTypesGoDynamic(t *testing.T) {
	nums := mustTable(t, Col{"v", []int{1}})
	words := mustTable(t, Col{"v", []string{"one"}})
	got, err := VConcat(nums, words)
	require.NoError(t, err)

	assert.Equal(t, []column.Type{column.TypeAny}, got.Types())
	assert.Equal(t, int64(1), mustAt(t, got, 0, "v"))
	assert.Equal(t, "one", mustAt(t, got, 1, "v"))
}

func TestVConcatBoolIntPromotion(t *testing.T) {
	flags := mustTable(t, Col{"v", []bool{true, false}})
	nums := mustTable(t, Col{"v", []int{5}})
	got, err := VConcat(flags, nums)
	require.NoError(t, err)

	assert.Equal(t, []column.Type{column.TypeInt}, got.Types())
	assert.Equal(t, int64(1), mustAt(t, got, 0, "v"))
	assert.Equal(t, int64(0), mustAt(t, got, 1, "v"))
	assert.Equal(t, int64(5), mustAt(t, got, 2, "v"))
}

func TestVConcatPreservesNA(t *testing.T) {
	t1 := mustTable(t, Col{"v", []interface{}{1, nil}})
	t2 := mustTable(t, Col{"v", []interface{}{nil, 4}})
	got, err := VConcat(t1, t2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), mustAt(t, got, 0, "v"))
	assert.Nil(t, mustAt(t, got, 1, "v"))
	assert.Nil(t, mustAt(t, got, 2, "v"))
	assert.Equal(t, int64(4), mustAt(t, got, 3, "v"))
}

func TestVConcatNoInput(t *testing.T) {
	_, err := VConcat()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyResult))
}

func TestHConcatRenamesCollisions(t *testing.T) {
	t1 := mustTable(t, Col{"a", []int{1, 2, 3}}, Col{"b", []int{4, 5, 6}})
	t2 := mustTable(t, Col{"a", []int{7, 8, 9}}, Col{"c", []int{10, 11, 12}})

	got, err := HConcat(t1, t2)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a_1", "c"}, got.Names())
	assert.Equal(t, 3, got.RowCount())
	assert.Equal(t, int64(1), mustAt(t, got, 0, "a"))
	assert.Equal(t, int64(7), mustAt(t, got, 0, "a_1"))
	assert.Equal(t, int64(12), mustAt(t, got, 2, "c"))
}

func TestHConcatLengthMismatch(t *testing.T) {
	t1 := mustTable(t, Col{"a", []int{1, 2, 3}})
	t2 := mustTable(t, Col{"b", []int{1}})
	_, err := HConcat(t1, t2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestHConcatSharesStorage(t *testing.T) {
	t1 := mustTable(t, Col{"a", []int{1, 2}})
	t2 := mustTable(t, Col{"b", []int{3, 4}})
	got, err := HConcat(t1, t2)
	require.NoError(t, err)

	require.NoError(t, got.SetAt(0, Name("a"), 77))
	assert.Equal(t, int64(77), mustAt(t, t1, 0, "a"))
}

func TestHConcatSkipsColumnless(t *testing.T) {
	empty, err := New(nil, nil)
	require.NoError(t, err)
	t1 := mustTable(t, Col{"a", []int{1, 2}})

	got, err := HConcat(empty, t1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Names())
	assert.Equal(t, 2, got.RowCount())
}

func TestHConcatRepeatedCollisions(t *testing.T) {
	t1 := mustTable(t, Col{"a", []int{1}})
	t2 := mustTable(t, Col{"a", []int{2}})
	t3 := mustTable(t, Col{"a", []int{3}})

	got, err := HConcat(t1, t2, t3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a_1", "a_2"}, got.Names())
}
