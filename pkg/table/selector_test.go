package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/errors"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex([]string{"a", "b", "c"})
	require.NoError(t, err)
	return ix
}

func TestSelectorIsSingle(t *testing.T) {
	assert.True(t, Name("a").IsSingle())
	assert.True(t, Pos(0).IsSingle())
	assert.False(t, Names("a").IsSingle())
	assert.False(t, Positions(0).IsSingle())
	assert.False(t, Mask([]bool{true}).IsSingle())
	assert.False(t, AllColumns().IsSingle())
}

func TestSelectorSingle(t *testing.T) {
	ix := testIndex(t)

	pos, err := Name("b").single(ix)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = Pos(2).single(ix)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	_, err = Name("zzz").single(ix)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownColumn))

	_, err = Pos(3).single(ix)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))

	_, err = Names("a", "b").single(ix)
	assert.True(t, errors.IsType(err, errors.ErrorTypeShapeMismatch))
}

func TestSelectorResolve(t *testing.T) {
	ix := testIndex(t)

	got, err := Names("c", "a").resolve(ix)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got)

	got, err = Positions(1, 1).resolve(ix)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, got)

	got, err = Mask([]bool{true, false, true}).resolve(ix)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	got, err = AllColumns().resolve(ix)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	got, err = Name("b").resolve(ix)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestSelectorMaskLength(t *testing.T) {
	ix := testIndex(t)
	_, err := Mask([]bool{true, false}).resolve(ix)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestRowSelectorResolve(t *testing.T) {
	got, err := RowPositions(3, 1, 3).resolve(5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 3}, got)

	got, err = RowMask([]bool{false, true, true, false, false}).resolve(5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	got, err = AllRows().resolve(3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	_, err = RowPositions(5).resolve(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))

	_, err = RowMask([]bool{true}).resolve(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestIndexOperations(t *testing.T) {
	ix := testIndex(t)

	require.NoError(t, ix.Insert("d"))
	assert.Equal(t, 4, ix.Len())
	assert.True(t, errors.IsType(ix.Insert("a"), errors.ErrorTypeDuplicateColumn))

	ix.Delete(1)
	assert.Equal(t, []string{"a", "c", "d"}, ix.Names())
	pos, err := ix.Position("d")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestIndexNextAutoName(t *testing.T) {
	ix, err := NewIndex([]string{"x1", "x3"})
	require.NoError(t, err)
	assert.Equal(t, "x2", ix.NextAutoName("x"))

	require.NoError(t, ix.Insert("x2"))
	assert.Equal(t, "x4", ix.NextAutoName("x"))
}
